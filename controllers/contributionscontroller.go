package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/twinj/uuid"

	"github.com/dgn-rdc/dgn-backend/db"
	"github.com/dgn-rdc/dgn-backend/models"
)

type ContributionsController struct {
	DBManager *db.DBManager
}

type createContributionRequest struct {
	Montant      float64 `json:"montant"`
	MoisConcerne string  `json:"moisConcerne"`
	Devise       string  `json:"devise"`
	AgentID      string  `json:"agentId"`
}

func (contributionController *ContributionsController) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	b, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	var request createContributionRequest

	if err = json.Unmarshal(b, &request); err != nil {
		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "10", "message": "Requête invalide"})
		return
	}

	if request.Montant < 0 || request.MoisConcerne == "" || request.AgentID == "" {
		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "10", "message": "Champs obligatoires manquants"})
		return
	}

	if request.Devise != models.CurrencyUSD && request.Devise != models.CurrencyCDF {
		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "10", "message": "Devise invalide"})
		return
	}

	agent := models.Agent{}

	if err = contributionController.DBManager.DB.Get(&agent, "SELECT * FROM agents WHERE id=$1", request.AgentID); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusNotFound)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Agent avec l'ID \"%s\" non trouvé", request.AgentID)})
		return
	}

	contributionID := uuid.NewV4().String()
	reference := fmt.Sprintf("DGN-%d", time.Now().Year())

	insertStr := `INSERT INTO contributions(id, reference, montant, mois_concerne, devise, agent_id, date_created, date_modified)
		VALUES($1, $2, $3, $4, $5, $6, datetime('now'), datetime('now'))`

	_, err = contributionController.DBManager.DB.Exec(insertStr, contributionID, reference, request.Montant, request.MoisConcerne, request.Devise, request.AgentID)

	if err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	contribution := models.Contribution{}

	if err = contributionController.DBManager.DB.Get(&contribution, "SELECT * FROM contributions WHERE id=$1", contributionID); err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	contribution.Agent = &agent

	w.WriteHeader(http.StatusCreated)

	_ = json.NewEncoder(w).Encode(contribution)
}

// attachAgents resolves the owning agent of each contribution, matching the
// eager loading of the public API.
func (contributionController *ContributionsController) attachAgents(contributions []models.Contribution) error {
	agentsByID := make(map[string]*models.Agent)

	for i := range contributions {
		agentID := contributions[i].AgentID

		if cached, ok := agentsByID[agentID]; ok {
			contributions[i].Agent = cached
			continue
		}

		agent := models.Agent{}

		if err := contributionController.DBManager.DB.Get(&agent, "SELECT * FROM agents WHERE id=$1", agentID); err != nil {
			return err
		}

		agentsByID[agentID] = &agent
		contributions[i].Agent = &agent
	}

	return nil
}

func (contributionController *ContributionsController) FindAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	contributions := make([]models.Contribution, 0)

	if err := contributionController.DBManager.DB.Select(&contributions, "SELECT * FROM contributions ORDER BY date_created DESC"); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	if err := contributionController.attachAgents(contributions); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(contributions)
}

func (contributionController *ContributionsController) FindOne(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	contributionID := r.PathValue("id")

	contribution := models.Contribution{}

	if err := contributionController.DBManager.DB.Get(&contribution, "SELECT * FROM contributions WHERE id=$1", contributionID); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusNotFound)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Contribution avec l'ID \"%s\" non trouvée", contributionID)})
		return
	}

	contributions := []models.Contribution{contribution}
	if err := contributionController.attachAgents(contributions); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(contributions[0])
}

func (contributionController *ContributionsController) FindByAgent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	agentID := r.PathValue("agentId")

	contributions := make([]models.Contribution, 0)

	if err := contributionController.DBManager.DB.Select(&contributions, "SELECT * FROM contributions WHERE agent_id=$1 ORDER BY date_created DESC", agentID); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	if err := contributionController.attachAgents(contributions); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(contributions)
}

func (contributionController *ContributionsController) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	contributionID := r.PathValue("id")

	result, err := contributionController.DBManager.DB.Exec("DELETE FROM contributions WHERE id=$1", contributionID)
	if err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		w.WriteHeader(http.StatusNotFound)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Contribution avec l'ID \"%s\" non trouvée", contributionID)})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Successfully deleted"})
}
