package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/twinj/uuid"

	"github.com/dgn-rdc/dgn-backend/db"
	"github.com/dgn-rdc/dgn-backend/models"
	"github.com/dgn-rdc/dgn-backend/services"
)

type AgentsController struct {
	DBManager    *db.DBManager
	ImageService *services.ImageService
}

func (agentController *AgentsController) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "The uploaded file is too big", http.StatusBadRequest)
		return
	}

	agent := models.Agent{
		Nom:                   r.FormValue("nom"),
		PostNom:               r.FormValue("postNom"),
		Prenom:                r.FormValue("prenom"),
		Genre:                 r.FormValue("genre"),
		Telephone:             r.FormValue("telephone"),
		Fonction:              r.FormValue("fonction"),
		Societe:               r.FormValue("societe"),
		AppartenancePolitique: r.FormValue("appartenancePolitique"),
		NiveauEtudes:          r.FormValue("niveauEtudes"),
	}

	if agent.Nom == "" || agent.PostNom == "" || agent.Prenom == "" || agent.Telephone == "" {
		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "10", "message": "Champs obligatoires manquants"})
		return
	}

	if agent.Genre == "" {
		agent.Genre = "Homme"
	}

	var existingCount int

	err := agentController.DBManager.DB.Get(&existingCount, "SELECT COUNT(*) FROM agents WHERE telephone=$1", agent.Telephone)
	if err == nil && existingCount > 0 {
		log.Println("Un agent avec ce numéro de téléphone existe déjà")

		w.WriteHeader(http.StatusConflict)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "11", "message": "Un agent avec ce numéro de téléphone existe déjà"})
		return
	}

	photoFilename, err := processPhotoUpload(r, "photo", agentController.ImageService)
	if err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "12", "message": err.Error()})
		return
	}

	agent.ID = uuid.NewV4().String()
	agent.Photo = photoFilename
	agent.IsActive = true

	insertStr := `INSERT INTO agents(id, nom, post_nom, prenom, genre, telephone, photo, fonction, societe, appartenance_politique, niveau_etudes, is_active, date_created, date_modified)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, datetime('now'), datetime('now'))`

	_, err = agentController.DBManager.DB.Exec(insertStr, agent.ID, agent.Nom, agent.PostNom, agent.Prenom, agent.Genre,
		agent.Telephone, agent.Photo, agent.Fonction, agent.Societe, agent.AppartenancePolitique, agent.NiveauEtudes, agent.IsActive)

	if err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	savedAgent := models.Agent{}

	if err = agentController.DBManager.DB.Get(&savedAgent, "SELECT * FROM agents WHERE id=$1", agent.ID); err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusCreated)

	_ = json.NewEncoder(w).Encode(savedAgent)
}

func (agentController *AgentsController) FindAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	agents := make([]models.Agent, 0)

	if err := agentController.DBManager.DB.Select(&agents, "SELECT * FROM agents ORDER BY date_created DESC"); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(agents)
}

func (agentController *AgentsController) FindOne(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	agentID := r.PathValue("id")

	agent := models.Agent{}

	if err := agentController.DBManager.DB.Get(&agent, "SELECT * FROM agents WHERE id=$1", agentID); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusNotFound)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Agent avec l'ID \"%s\" non trouvé", agentID)})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(agent)
}

func (agentController *AgentsController) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	agentID := r.PathValue("id")

	agent := models.Agent{}

	if err := agentController.DBManager.DB.Get(&agent, "SELECT * FROM agents WHERE id=$1", agentID); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusNotFound)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Agent avec l'ID \"%s\" non trouvé", agentID)})
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "The uploaded file is too big", http.StatusBadRequest)
		return
	}

	photoFilename := agent.Photo

	if file, _, err := r.FormFile("photo"); err == nil {
		file.Close()

		agentController.ImageService.RemoveImage(agent.Photo)

		photoFilename, err = processPhotoUpload(r, "photo", agentController.ImageService)
		if err != nil {
			log.Println(err.Error())

			w.WriteHeader(http.StatusBadRequest)

			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "12", "message": err.Error()})
			return
		}
	}

	updateStr := `UPDATE agents SET nom=$1, post_nom=$2, prenom=$3, genre=$4, telephone=$5, photo=$6,
		fonction=$7, societe=$8, appartenance_politique=$9, niveau_etudes=$10, date_modified=datetime('now') WHERE id=$11`

	_, err := agentController.DBManager.DB.Exec(updateStr,
		formValueOr(r, "nom", agent.Nom),
		formValueOr(r, "postNom", agent.PostNom),
		formValueOr(r, "prenom", agent.Prenom),
		formValueOr(r, "genre", agent.Genre),
		formValueOr(r, "telephone", agent.Telephone),
		photoFilename,
		formValueOr(r, "fonction", agent.Fonction),
		formValueOr(r, "societe", agent.Societe),
		formValueOr(r, "appartenancePolitique", agent.AppartenancePolitique),
		formValueOr(r, "niveauEtudes", agent.NiveauEtudes),
		agentID)

	if err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	updatedAgent := models.Agent{}

	if err = agentController.DBManager.DB.Get(&updatedAgent, "SELECT * FROM agents WHERE id=$1", agentID); err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(updatedAgent)
}

func (agentController *AgentsController) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	agentID := r.PathValue("id")

	agent := models.Agent{}

	if err := agentController.DBManager.DB.Get(&agent, "SELECT * FROM agents WHERE id=$1", agentID); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusNotFound)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Agent avec l'ID \"%s\" non trouvé", agentID)})
		return
	}

	agentController.ImageService.RemoveImage(agent.Photo)

	if _, err := agentController.DBManager.DB.Exec("DELETE FROM agents WHERE id=$1", agentID); err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Successfully deleted"})
}
