package controllers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dgn-rdc/dgn-backend/services"
)

const maxUserMessageLength = 1000

type ChatController struct {
	ChatService *services.ChatService
}

type chatMessageRequest struct {
	UserMessage string `json:"userMessage"`
	SessionID   string `json:"sessionId"`
}

func (chatController *ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	b, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	var request chatMessageRequest

	if err = json.Unmarshal(b, &request); err != nil {
		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Requête invalide", "error": err.Error()})
		return
	}

	if strings.TrimSpace(request.UserMessage) == "" {
		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Le message ne peut pas être vide"})
		return
	}

	if utf8.RuneCountInString(request.UserMessage) > maxUserMessageLength {
		w.WriteHeader(http.StatusBadRequest)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Le message ne peut pas dépasser 1000 caractères"})
		return
	}

	chatMessage, err := chatController.ChatService.SendMessage(r.Context(), request.UserMessage, request.SessionID)

	if err != nil {
		log.Printf("%s", err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Erreur lors de l'envoi du message", "error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": chatMessage, "message": "Message envoyé avec succès"})
}

func (chatController *ChatController) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	sessionID := r.PathValue("sessionId")

	limit := 50
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if parsed, err := strconv.Atoi(limitParam); err == nil {
			limit = parsed
		}
	}

	history, err := chatController.ChatService.GetChatHistory(r.Context(), sessionID, limit)

	if err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Erreur lors de la récupération de l'historique", "error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": history, "message": "Historique récupéré avec succès"})
}

func (chatController *ChatController) ClearChatHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	sessionID := r.PathValue("sessionId")

	if err := chatController.ChatService.ClearChatHistory(r.Context(), sessionID); err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Erreur lors de la suppression de l'historique", "error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": "Historique supprimé avec succès"})
}

func (chatController *ChatController) GetRecentSessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	limit := 10
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if parsed, err := strconv.Atoi(limitParam); err == nil {
			limit = parsed
		}
	}

	sessions, err := chatController.ChatService.GetRecentSessions(r.Context(), limit)

	if err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Erreur lors de la récupération des sessions", "error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": sessions, "message": "Sessions récupérées avec succès"})
}

func (chatController *ChatController) GetChatStatistics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	statistics, err := chatController.ChatService.GetChatStatistics(r.Context())

	if err != nil {
		log.Println(err.Error())

		w.WriteHeader(http.StatusInternalServerError)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Erreur lors de la récupération des statistiques", "error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": statistics, "message": "Statistiques récupérées avec succès"})
}

func (chatController *ChatController) CheckHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	aiServiceAvailable := chatController.ChatService.IsAiServiceAvailable(r.Context())

	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": map[string]bool{"aiServiceAvailable": aiServiceAvailable}, "message": "Service de chat opérationnel"})
}
