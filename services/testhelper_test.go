package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dgn-rdc/dgn-backend/db"
)

func newTestDB(t *testing.T) *db.DBManager {
	t.Helper()

	schema, err := os.ReadFile(filepath.Join("..", "migrations", "000001_init.up.sql"))
	if err != nil {
		t.Fatalf("reading schema: %v", err)
	}

	dbx, err := sqlx.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	t.Cleanup(func() { dbx.Close() })

	if _, err = dbx.Exec(string(schema)); err != nil {
		t.Fatalf("applying schema: %v", err)
	}

	return &db.DBManager{DB: dbx}
}

// stubResponder stands in for the Gemini client and records what the
// orchestrator passed to it.
type stubResponder struct {
	response    string
	generated   bool
	available   bool
	lastMessage string
	lastContext string
	calls       int
}

func (s *stubResponder) GenerateResponse(ctx context.Context, userMessage string, conversationContext string) (string, bool) {
	s.calls++
	s.lastMessage = userMessage
	s.lastContext = conversationContext

	return s.response, s.generated
}

func (s *stubResponder) IsServiceAvailable(ctx context.Context) bool {
	return s.available
}
