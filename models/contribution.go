package models

import "time"

const (
	CurrencyUSD = "USD"
	CurrencyCDF = "CDF"
)

type Contribution struct {
	ID           string    `json:"id" db:"id"`
	Reference    string    `json:"reference" db:"reference"`
	Montant      float64   `json:"montant" db:"montant"`
	MoisConcerne string    `json:"moisConcerne" db:"mois_concerne"`
	Devise       string    `json:"devise" db:"devise"`
	AgentID      string    `json:"agentId" db:"agent_id"`
	Agent        *Agent    `json:"agent,omitempty" db:"-"`
	DateCreated  time.Time `json:"createdAt" db:"date_created"`
	DateModified time.Time `json:"updatedAt" db:"date_modified"`
}
