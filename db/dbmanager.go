package db

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type DBManager struct {
	DB *sqlx.DB
}

func NewDBConnection(databasePath string) *DBManager {
	dbx, err := sqlx.Open("sqlite3", databasePath+"?_foreign_keys=on")

	if err != nil {
		panic(err)
	}

	driver, err := sqlite3.WithInstance(dbx.DB, &sqlite3.Config{})
	if err != nil {
		panic(err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://./migrations",
		"ql", driver)
	if err != nil {
		panic(err)
	}

	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		panic(err)
	}

	return &DBManager{
		DB: dbx,
	}
}
