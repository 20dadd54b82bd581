package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"regexp"
	"strconv"

	"github.com/twinj/uuid"
	"gopkg.in/gomail.v2"

	"github.com/dgn-rdc/dgn-backend/db"
	"github.com/dgn-rdc/dgn-backend/models"
	"github.com/dgn-rdc/dgn-backend/services"
)

const maxUploadSize = 5 * 1024 * 1024

const adminTelephone = "admin@system.com"

var imageFileRegexp = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)

type MembersController struct {
	DBManager    *db.DBManager
	ImageService *services.ImageService
}

// processPhotoUpload stores an optional "photo"/named multipart file and
// returns its stored filename, or "default.png" when the field is absent.
func processPhotoUpload(r *http.Request, fieldName string, imageService *services.ImageService) (string, error) {
	file, header, err := r.FormFile(fieldName)
	if err == http.ErrMissingFile {
		return "default.png", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	return storeUploadedImage(header, file, imageService)
}

func storeUploadedImage(header *multipart.FileHeader, file multipart.File, imageService *services.ImageService) (string, error) {
	if !imageFileRegexp.MatchString(header.Filename) {
		return "", fmt.Errorf("only image files are allowed")
	}

	if header.Size > maxUploadSize {
		return "", fmt.Errorf("file too large")
	}

	return imageService.ProcessImage(header.Filename, file)
}

func (memberController *MembersController) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "The uploaded file is too big", http.StatusBadRequest)
		return
	}

	member := models.Member{
		Nom:           r.FormValue("nom"),
		PostNom:       r.FormValue("postNom"),
		Prenom:        r.FormValue("prenom"),
		Genre:         r.FormValue("genre"),
		Telephone:     r.FormValue("telephone"),
		QualiteMembre: r.FormValue("qualiteMembre"),
		Province:      r.FormValue("province"),
		Adresse:       r.FormValue("adresse"),
	}

	if member.Nom == "" || member.PostNom == "" || member.Prenom == "" || member.Telephone == "" ||
		member.QualiteMembre == "" || member.Province == "" || member.Adresse == "" {
		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "10", "message": "Champs obligatoires manquants"})
		return
	}

	if member.Genre == "" {
		member.Genre = "Homme"
	}

	var existingCount int

	err := memberController.DBManager.DB.Get(&existingCount, "SELECT COUNT(*) FROM members WHERE telephone=$1", member.Telephone)
	if err == nil && existingCount > 0 {
		log.Println("Un membre avec ce numéro de téléphone existe déjà")

		w.WriteHeader(http.StatusConflict)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "11", "message": "Un membre avec ce numéro de téléphone existe déjà"})
		return
	}

	photoFilename, err := processPhotoUpload(r, "photo", memberController.ImageService)
	if err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "12", "message": err.Error()})
		return
	}

	member.ID = uuid.NewV4().String()
	member.Photo = photoFilename
	member.IsActive = true

	insertStr := `INSERT INTO members(id, nom, post_nom, prenom, genre, telephone, photo, qualite_membre, province, adresse, is_active, date_created, date_modified)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, datetime('now'), datetime('now'))`

	_, err = memberController.DBManager.DB.Exec(insertStr, member.ID, member.Nom, member.PostNom, member.Prenom,
		member.Genre, member.Telephone, member.Photo, member.QualiteMembre, member.Province, member.Adresse, member.IsActive)

	if err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	savedMember := models.Member{}

	if err = memberController.DBManager.DB.Get(&savedMember, "SELECT * FROM members WHERE id=$1", member.ID); err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	go memberController.notifyNewMember(savedMember)

	w.WriteHeader(http.StatusCreated)

	_ = json.NewEncoder(w).Encode(savedMember)
}

// notifyNewMember mails the admin address about a registration. No-op when
// the mail server is not configured.
func (memberController *MembersController) notifyNewMember(member models.Member) {
	mailServer := os.Getenv("MAIL_SERVER")
	adminEmail := os.Getenv("ADMIN_EMAIL")

	if mailServer == "" || adminEmail == "" {
		return
	}

	mailUsername := os.Getenv("MAIL_USERNAME")
	mailPassword := os.Getenv("MAIL_PASSWORD")
	port, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))

	m := gomail.NewMessage()
	m.SetHeader("From", mailUsername)
	m.SetHeader("To", adminEmail)
	m.SetHeader("Subject", "DGN - Nouvelle adhésion")
	m.SetBody("text/plain", fmt.Sprintf("Nouveau membre enregistré: %s %s %s (%s), %s", member.Nom, member.PostNom, member.Prenom, member.QualiteMembre, member.Province))

	d := gomail.NewDialer(mailServer, port, mailUsername, mailPassword)

	if err := d.DialAndSend(m); err != nil {
		log.Printf("%s", err.Error())
	}
}

func (memberController *MembersController) FindAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	members := make([]models.Member, 0)

	if err := memberController.DBManager.DB.Select(&members, "SELECT * FROM members ORDER BY date_created DESC"); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(members)
}

func (memberController *MembersController) FindOne(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	memberID := r.PathValue("id")

	member := models.Member{}

	if err := memberController.DBManager.DB.Get(&member, "SELECT * FROM members WHERE id=$1", memberID); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusNotFound)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Membre avec l'ID \"%s\" non trouvé", memberID)})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(member)
}

func (memberController *MembersController) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	memberID := r.PathValue("id")

	member := models.Member{}

	if err := memberController.DBManager.DB.Get(&member, "SELECT * FROM members WHERE id=$1", memberID); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusNotFound)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Membre avec l'ID \"%s\" non trouvé", memberID)})
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "The uploaded file is too big", http.StatusBadRequest)
		return
	}

	photoFilename := member.Photo

	if file, _, err := r.FormFile("photo"); err == nil {
		file.Close()

		memberController.ImageService.RemoveImage(member.Photo)

		photoFilename, err = processPhotoUpload(r, "photo", memberController.ImageService)
		if err != nil {
			log.Println(err.Error())

			w.WriteHeader(http.StatusBadRequest)

			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "12", "message": err.Error()})
			return
		}
	}

	updateStr := `UPDATE members SET nom=$1, post_nom=$2, prenom=$3, genre=$4, telephone=$5, photo=$6,
		qualite_membre=$7, province=$8, adresse=$9, date_modified=datetime('now') WHERE id=$10`

	_, err := memberController.DBManager.DB.Exec(updateStr,
		formValueOr(r, "nom", member.Nom),
		formValueOr(r, "postNom", member.PostNom),
		formValueOr(r, "prenom", member.Prenom),
		formValueOr(r, "genre", member.Genre),
		formValueOr(r, "telephone", member.Telephone),
		photoFilename,
		formValueOr(r, "qualiteMembre", member.QualiteMembre),
		formValueOr(r, "province", member.Province),
		formValueOr(r, "adresse", member.Adresse),
		memberID)

	if err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	updatedMember := models.Member{}

	if err = memberController.DBManager.DB.Get(&updatedMember, "SELECT * FROM members WHERE id=$1", memberID); err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(updatedMember)
}

func (memberController *MembersController) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	memberID := r.PathValue("id")

	member := models.Member{}

	if err := memberController.DBManager.DB.Get(&member, "SELECT * FROM members WHERE id=$1", memberID); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusNotFound)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Membre avec l'ID \"%s\" non trouvé", memberID)})
		return
	}

	memberController.ImageService.RemoveImage(member.Photo)

	if _, err := memberController.DBManager.DB.Exec("DELETE FROM members WHERE id=$1", memberID); err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Successfully deleted"})
}

// EnsureDefaultAdmin seeds the default admin member, keyed on its fixed
// telephone value. Safe to call on every start.
func (memberController *MembersController) EnsureDefaultAdmin() (*models.Member, error) {
	admin := models.Member{}

	err := memberController.DBManager.DB.Get(&admin, "SELECT * FROM members WHERE telephone=$1", adminTelephone)
	if err == nil {
		return &admin, nil
	}

	adminID := uuid.NewV4().String()

	insertStr := `INSERT INTO members(id, nom, post_nom, prenom, genre, telephone, photo, qualite_membre, province, adresse, is_active, date_created, date_modified)
		VALUES($1, 'Admin', 'System', 'Default', 'Homme', $2, 'default.png', 'ADMIN', 'Kinshasa', 'Système DGN', 1, datetime('now'), datetime('now'))`

	if _, err = memberController.DBManager.DB.Exec(insertStr, adminID, adminTelephone); err != nil {
		return nil, err
	}

	log.Println("Admin member created successfully")

	if err = memberController.DBManager.DB.Get(&admin, "SELECT * FROM members WHERE id=$1", adminID); err != nil {
		return nil, err
	}

	return &admin, nil
}

func (memberController *MembersController) GetDefaultAdmin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	admin, err := memberController.EnsureDefaultAdmin()
	if err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(admin)
}

func formValueOr(r *http.Request, field string, fallback string) string {
	if value := r.FormValue(field); value != "" {
		return value
	}
	return fallback
}
