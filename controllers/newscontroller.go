package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/dgn-rdc/dgn-backend/db"
	"github.com/dgn-rdc/dgn-backend/models"
	"github.com/dgn-rdc/dgn-backend/services"
)

type NewsController struct {
	DBManager    *db.DBManager
	ImageService *services.ImageService
}

type storedNewsImage struct {
	filename string
	alt      string
	caption  string
	isMain   bool
}

func (newsController *NewsController) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "The uploaded file is too big", http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")
	category := r.FormValue("category")
	authorID := r.FormValue("authorId")

	if title == "" || content == "" || category == "" || authorID == "" {
		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "10", "message": "Champs obligatoires manquants"})
		return
	}

	author := models.Member{}

	if err := newsController.DBManager.DB.Get(&author, "SELECT * FROM members WHERE id=$1", authorID); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusNotFound)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Membre avec l'ID \"%s\" non trouvé", authorID)})
		return
	}

	var captions []string
	if rawCaptions := r.FormValue("captions"); rawCaptions != "" {
		if err := json.Unmarshal([]byte(rawCaptions), &captions); err != nil {
			captions = nil
		}
	}

	mainImageIndex := 0
	if rawIndex := r.FormValue("mainImageIndex"); rawIndex != "" {
		if parsed, err := strconv.Atoi(rawIndex); err == nil && parsed >= 0 {
			mainImageIndex = parsed
		}
	}

	// The whole gallery is processed before touching the database, so a
	// rejected image aborts with nothing persisted.
	storedImages := make([]storedNewsImage, 0)

	if r.MultipartForm != nil {
		for index, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				log.Println(err.Error())
				continue
			}

			filename, err := storeUploadedImage(header, file, newsController.ImageService)
			file.Close()

			if err != nil {
				log.Println(err.Error())

				for _, stored := range storedImages {
					newsController.ImageService.RemoveImage(stored.filename)
				}

				w.WriteHeader(http.StatusBadRequest)

				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "12", "message": err.Error()})
				return
			}

			caption := ""
			if index < len(captions) {
				caption = captions[index]
			}

			storedImages = append(storedImages, storedNewsImage{
				filename: filename,
				alt:      header.Filename,
				caption:  caption,
				isMain:   index == mainImageIndex,
			})
		}
	}

	insertStr := `INSERT INTO news(title, content, category, author_id, likes, comments_count, date_created, date_modified)
		VALUES($1, $2, $3, $4, 0, 0, datetime('now'), datetime('now'))`

	result, err := newsController.DBManager.DB.Exec(insertStr, title, content, category, authorID)
	if err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	newsID, err := result.LastInsertId()
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	for _, stored := range storedImages {
		imageInsertStr := `INSERT INTO news_images(news_id, url, alt, caption, is_main, date_created, date_modified)
			VALUES($1, $2, $3, $4, $5, datetime('now'), datetime('now'))`

		if _, err = newsController.DBManager.DB.Exec(imageInsertStr, newsID, stored.filename, stored.alt, stored.caption, stored.isMain); err != nil {
			log.Printf("%s", err.Error())

			w.WriteHeader(http.StatusInternalServerError)

			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
			return
		}
	}

	news, err := newsController.loadNews(newsID)
	if err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusCreated)

	_ = json.NewEncoder(w).Encode(news)
}

// loadNews fetches one article with its author and gallery.
func (newsController *NewsController) loadNews(newsID int64) (*models.News, error) {
	news := models.News{}

	if err := newsController.DBManager.DB.Get(&news, "SELECT * FROM news WHERE id=$1", newsID); err != nil {
		return nil, err
	}

	author := models.Member{}
	if err := newsController.DBManager.DB.Get(&author, "SELECT * FROM members WHERE id=$1", news.AuthorID); err == nil {
		news.Author = &author
	}

	images := make([]models.NewsImage, 0)
	if err := newsController.DBManager.DB.Select(&images, "SELECT * FROM news_images WHERE news_id=$1 ORDER BY id ASC", newsID); err != nil {
		return nil, err
	}
	news.Images = images

	return &news, nil
}

func (newsController *NewsController) findMany(w http.ResponseWriter, queryStr string, args ...interface{}) {
	newsRows := make([]models.News, 0)

	if err := newsController.DBManager.DB.Select(&newsRows, queryStr, args...); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	newsList := make([]*models.News, 0, len(newsRows))

	for _, row := range newsRows {
		news, err := newsController.loadNews(row.ID)
		if err != nil {
			log.Println(err.Error())

			w.WriteHeader(http.StatusInternalServerError)

			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
			return
		}

		newsList = append(newsList, news)
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(newsList)
}

func (newsController *NewsController) FindAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	newsController.findMany(w, "SELECT * FROM news ORDER BY date_created DESC")
}

func (newsController *NewsController) FindByCategory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	newsController.findMany(w, "SELECT * FROM news WHERE category=$1 ORDER BY date_created DESC", r.PathValue("category"))
}

func (newsController *NewsController) FindOne(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	newsID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "10", "message": "Identifiant invalide"})
		return
	}

	news, err := newsController.loadNews(newsID)
	if err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusNotFound)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Article avec l'ID \"%d\" non trouvé", newsID)})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(news)
}

func (newsController *NewsController) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	newsID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "10", "message": "Identifiant invalide"})
		return
	}

	news, err := newsController.loadNews(newsID)
	if err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusNotFound)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Article avec l'ID \"%d\" non trouvé", newsID)})
		return
	}

	if err = r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "The uploaded file is too big", http.StatusBadRequest)
		return
	}

	authorID := news.AuthorID
	if requestedAuthor := r.FormValue("authorId"); requestedAuthor != "" {
		author := models.Member{}

		if err = newsController.DBManager.DB.Get(&author, "SELECT * FROM members WHERE id=$1", requestedAuthor); err != nil {
			w.WriteHeader(http.StatusNotFound)

			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Membre avec l'ID \"%s\" non trouvé", requestedAuthor)})
			return
		}

		authorID = requestedAuthor
	}

	// A new gallery replaces the stored one, files included.
	if r.MultipartForm != nil && len(r.MultipartForm.File["images"]) > 0 {
		for _, image := range news.Images {
			newsController.ImageService.RemoveImage(image.URL)
		}

		if _, err = newsController.DBManager.DB.Exec("DELETE FROM news_images WHERE news_id=$1", newsID); err != nil {
			log.Printf("%s", err.Error())

			w.WriteHeader(http.StatusInternalServerError)

			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
			return
		}

		for index, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				log.Println(err.Error())
				continue
			}

			filename, err := storeUploadedImage(header, file, newsController.ImageService)
			file.Close()

			if err != nil {
				log.Println(err.Error())

				w.WriteHeader(http.StatusBadRequest)

				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "12", "message": err.Error()})
				return
			}

			imageInsertStr := `INSERT INTO news_images(news_id, url, alt, caption, is_main, date_created, date_modified)
				VALUES($1, $2, $3, '', $4, datetime('now'), datetime('now'))`

			if _, err = newsController.DBManager.DB.Exec(imageInsertStr, newsID, filename, header.Filename, index == 0); err != nil {
				log.Printf("%s", err.Error())

				w.WriteHeader(http.StatusInternalServerError)

				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
				return
			}
		}
	}

	updateStr := "UPDATE news SET title=$1, content=$2, category=$3, author_id=$4, date_modified=datetime('now') WHERE id=$5"

	_, err = newsController.DBManager.DB.Exec(updateStr,
		formValueOr(r, "title", news.Title),
		formValueOr(r, "content", news.Content),
		formValueOr(r, "category", news.Category),
		authorID,
		newsID)

	if err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	updatedNews, err := newsController.loadNews(newsID)
	if err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(updatedNews)
}

func (newsController *NewsController) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	newsID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "10", "message": "Identifiant invalide"})
		return
	}

	news, err := newsController.loadNews(newsID)
	if err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusNotFound)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Article avec l'ID \"%d\" non trouvé", newsID)})
		return
	}

	for _, image := range news.Images {
		newsController.ImageService.RemoveImage(image.URL)
	}

	if _, err = newsController.DBManager.DB.Exec("DELETE FROM news_images WHERE news_id=$1", newsID); err != nil {
		log.Printf("%s", err.Error())
	}

	if _, err = newsController.DBManager.DB.Exec("DELETE FROM news WHERE id=$1", newsID); err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Successfully deleted"})
}

func (newsController *NewsController) incrementCounter(w http.ResponseWriter, r *http.Request, column string) {
	newsID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "10", "message": "Identifiant invalide"})
		return
	}

	result, err := newsController.DBManager.DB.Exec("UPDATE news SET "+column+" = "+column+" + 1, date_modified=datetime('now') WHERE id=$1", newsID)
	if err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		w.WriteHeader(http.StatusNotFound)

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error_code": "2", "message": fmt.Sprintf("Article avec l'ID \"%d\" non trouvé", newsID)})
		return
	}

	news, err := newsController.loadNews(newsID)
	if err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Something got wrong..."})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(news)
}

func (newsController *NewsController) IncrementLikes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	newsController.incrementCounter(w, r, "likes")
}

func (newsController *NewsController) IncrementComments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	newsController.incrementCounter(w, r, "comments_count")
}
