package models

import "time"

type Member struct {
	ID            string    `json:"id" db:"id"`
	Nom           string    `json:"nom" db:"nom"`
	PostNom       string    `json:"postNom" db:"post_nom"`
	Prenom        string    `json:"prenom" db:"prenom"`
	Genre         string    `json:"genre" db:"genre"`
	Telephone     string    `json:"telephone" db:"telephone"`
	Photo         string    `json:"photo" db:"photo"`
	QualiteMembre string    `json:"qualiteMembre" db:"qualite_membre"`
	Province      string    `json:"province" db:"province"`
	Adresse       string    `json:"adresse" db:"adresse"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	DateCreated   time.Time `json:"createdAt" db:"date_created"`
	DateModified  time.Time `json:"updatedAt" db:"date_modified"`
}
