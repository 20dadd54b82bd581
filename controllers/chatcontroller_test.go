package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgn-rdc/dgn-backend/db"
	"github.com/dgn-rdc/dgn-backend/services"
)

func newTestDB(t *testing.T) *db.DBManager {
	t.Helper()

	schema, err := os.ReadFile(filepath.Join("..", "migrations", "000001_init.up.sql"))
	require.NoError(t, err)

	dbx, err := sqlx.Open("sqlite3", filepath.Join(t.TempDir(), "test.db")+"?_foreign_keys=on")
	require.NoError(t, err)

	t.Cleanup(func() { dbx.Close() })

	_, err = dbx.Exec(string(schema))
	require.NoError(t, err)

	return &db.DBManager{DB: dbx}
}

type stubResponder struct {
	response  string
	generated bool
	available bool
}

func (stub *stubResponder) GenerateResponse(ctx context.Context, userMessage string, conversationContext string) (string, bool) {
	return stub.response, stub.generated
}

func (stub *stubResponder) IsServiceAvailable(ctx context.Context) bool {
	return stub.available
}

func newChatMux(t *testing.T, responder services.AIResponder) *http.ServeMux {
	t.Helper()

	chatController := &ChatController{ChatService: &services.ChatService{DBManager: newTestDB(t), AIChat: responder}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat/message", chatController.SendMessage)
	mux.HandleFunc("GET /api/chat/history/{sessionId}", chatController.GetChatHistory)
	mux.HandleFunc("DELETE /api/chat/history/{sessionId}", chatController.ClearChatHistory)
	mux.HandleFunc("GET /api/chat/sessions", chatController.GetRecentSessions)
	mux.HandleFunc("GET /api/chat/statistics", chatController.GetChatStatistics)
	mux.HandleFunc("GET /api/chat/health", chatController.CheckHealth)

	return mux
}

func doRequest(mux *http.ServeMux, method string, target string, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()

	mux.ServeHTTP(recorder, request)

	return recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	envelope := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	return envelope
}

func TestSendMessageEndpoint(t *testing.T) {
	mux := newChatMux(t, &stubResponder{response: "Bonjour, je suis Guylin.", generated: true})

	recorder := doRequest(mux, "POST", "/api/chat/message", `{"userMessage": "Bonjour", "sessionId": "s1"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json; charset=UTF-8", recorder.Header().Get("Content-Type"))

	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "Message envoyé avec succès", envelope["message"])

	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Bonjour", data["userMessage"])
	assert.Equal(t, "Bonjour, je suis Guylin.", data["aiResponse"])
	assert.Equal(t, "s1", data["sessionId"])
	assert.Equal(t, true, data["isSuccessful"])
	assert.NotEmpty(t, data["createdAt"])
}

func TestSendMessageEndpointGeneratesSession(t *testing.T) {
	mux := newChatMux(t, &stubResponder{response: "Réponse valide.", generated: true})

	recorder := doRequest(mux, "POST", "/api/chat/message", `{"userMessage": "Bonjour"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)

	data := decodeEnvelope(t, recorder)["data"].(map[string]interface{})
	assert.NotEmpty(t, data["sessionId"])
}

func TestSendMessageEndpointRejectsBlankMessage(t *testing.T) {
	mux := newChatMux(t, &stubResponder{})

	for _, body := range []string{`{"userMessage": ""}`, `{"userMessage": "   "}`, `{"sessionId": "s1"}`} {
		recorder := doRequest(mux, "POST", "/api/chat/message", body)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		envelope := decodeEnvelope(t, recorder)
		assert.Equal(t, false, envelope["success"])
		assert.Equal(t, "Le message ne peut pas être vide", envelope["message"])
	}
}

func TestSendMessageEndpointRejectsTooLongMessage(t *testing.T) {
	mux := newChatMux(t, &stubResponder{})

	longMessage := strings.Repeat("é", 1001)
	recorder := doRequest(mux, "POST", "/api/chat/message", fmt.Sprintf(`{"userMessage": %q}`, longMessage))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "Le message ne peut pas dépasser 1000 caractères", decodeEnvelope(t, recorder)["message"])

	// Exactly 1000 runes is still accepted.
	okMessage := strings.Repeat("é", 1000)
	recorder = doRequest(mux, "POST", "/api/chat/message", fmt.Sprintf(`{"userMessage": %q}`, okMessage))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestSendMessageEndpointRejectsMalformedJSON(t *testing.T) {
	mux := newChatMux(t, &stubResponder{})

	recorder := doRequest(mux, "POST", "/api/chat/message", `{"userMessage": `)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "Requête invalide", envelope["message"])
	assert.NotEmpty(t, envelope["error"])
}

func TestGetChatHistoryEndpoint(t *testing.T) {
	mux := newChatMux(t, &stubResponder{response: "Réponse valide.", generated: true})

	for i := 1; i <= 3; i++ {
		recorder := doRequest(mux, "POST", "/api/chat/message", fmt.Sprintf(`{"userMessage": "message %d", "sessionId": "s1"}`, i))
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder := doRequest(mux, "GET", "/api/chat/history/s1", "")

	assert.Equal(t, http.StatusOK, recorder.Code)

	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, "Historique récupéré avec succès", envelope["message"])

	history, ok := envelope["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, history, 3)
	assert.Equal(t, "message 1", history[0].(map[string]interface{})["userMessage"])
	assert.Equal(t, "message 3", history[2].(map[string]interface{})["userMessage"])

	recorder = doRequest(mux, "GET", "/api/chat/history/s1?limit=2", "")
	assert.Len(t, decodeEnvelope(t, recorder)["data"].([]interface{}), 2)
}

func TestGetChatHistoryEndpointOfUnknownSession(t *testing.T) {
	mux := newChatMux(t, &stubResponder{})

	recorder := doRequest(mux, "GET", "/api/chat/history/nope", "")

	assert.Equal(t, http.StatusOK, recorder.Code)

	history, ok := decodeEnvelope(t, recorder)["data"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, history)
}

func TestClearChatHistoryEndpoint(t *testing.T) {
	mux := newChatMux(t, &stubResponder{response: "Réponse valide.", generated: true})

	recorder := doRequest(mux, "POST", "/api/chat/message", `{"userMessage": "Bonjour", "sessionId": "s1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doRequest(mux, "DELETE", "/api/chat/history/s1", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Historique supprimé avec succès", decodeEnvelope(t, recorder)["message"])

	recorder = doRequest(mux, "GET", "/api/chat/history/s1", "")
	assert.Empty(t, decodeEnvelope(t, recorder)["data"].([]interface{}))

	// A second delete is fine.
	recorder = doRequest(mux, "DELETE", "/api/chat/history/s1", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGetRecentSessionsEndpoint(t *testing.T) {
	mux := newChatMux(t, &stubResponder{response: "Réponse valide.", generated: true})

	for _, sessionID := range []string{"s1", "s2"} {
		recorder := doRequest(mux, "POST", "/api/chat/message", fmt.Sprintf(`{"userMessage": "Bonjour", "sessionId": %q}`, sessionID))
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder := doRequest(mux, "GET", "/api/chat/sessions", "")

	assert.Equal(t, http.StatusOK, recorder.Code)

	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, "Sessions récupérées avec succès", envelope["message"])

	sessions, ok := envelope["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, sessions, 2)

	first := sessions[0].(map[string]interface{})
	assert.Equal(t, "s2", first["sessionId"])
	assert.Equal(t, "Bonjour", first["lastMessage"])
	assert.Equal(t, float64(1), first["messageCount"])

	recorder = doRequest(mux, "GET", "/api/chat/sessions?limit=1", "")
	assert.Len(t, decodeEnvelope(t, recorder)["data"].([]interface{}), 1)
}

func TestGetChatStatisticsEndpoint(t *testing.T) {
	mux := newChatMux(t, &stubResponder{response: "Réponse valide.", generated: true})

	recorder := doRequest(mux, "POST", "/api/chat/message", `{"userMessage": "Bonjour", "sessionId": "s1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doRequest(mux, "GET", "/api/chat/statistics", "")

	assert.Equal(t, http.StatusOK, recorder.Code)

	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, "Statistiques récupérées avec succès", envelope["message"])

	statistics, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), statistics["totalMessages"])
	assert.Equal(t, float64(1), statistics["successfulResponses"])
	assert.Equal(t, float64(1), statistics["activeSessions"])
}

func TestCheckHealthEndpoint(t *testing.T) {
	for _, available := range []bool{true, false} {
		mux := newChatMux(t, &stubResponder{available: available})

		recorder := doRequest(mux, "GET", "/api/chat/health", "")

		assert.Equal(t, http.StatusOK, recorder.Code)

		envelope := decodeEnvelope(t, recorder)
		assert.Equal(t, "Service de chat opérationnel", envelope["message"])

		data, ok := envelope["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, available, data["aiServiceAvailable"])
	}
}
