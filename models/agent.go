package models

import "time"

type Agent struct {
	ID                    string    `json:"id" db:"id"`
	Nom                   string    `json:"nom" db:"nom"`
	PostNom               string    `json:"postNom" db:"post_nom"`
	Prenom                string    `json:"prenom" db:"prenom"`
	Genre                 string    `json:"genre" db:"genre"`
	Telephone             string    `json:"telephone" db:"telephone"`
	Photo                 string    `json:"photo" db:"photo"`
	Fonction              string    `json:"fonction" db:"fonction"`
	Societe               string    `json:"societe" db:"societe"`
	AppartenancePolitique string    `json:"appartenancePolitique" db:"appartenance_politique"`
	NiveauEtudes          string    `json:"niveauEtudes" db:"niveau_etudes"`
	IsActive              bool      `json:"isActive" db:"is_active"`
	DateCreated           time.Time `json:"createdAt" db:"date_created"`
	DateModified          time.Time `json:"updatedAt" db:"date_modified"`
}
