package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiStub(t *testing.T, statusCode int, body string) *AIChatService {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.RawQuery, "key=test-key")

		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}))

	t.Cleanup(server.Close)

	service := NewAIChatService("test-key")
	service.Endpoint = server.URL

	return service
}

func TestGenerateResponseWithoutAPIKey(t *testing.T) {
	service := NewAIChatService("")

	response, generated := service.GenerateResponse(context.Background(), "Bonjour", "")

	assert.False(t, generated)
	assert.Equal(t, GenerateIntelligentFallback("Bonjour"), response)
}

func TestGenerateResponseFromModel(t *testing.T) {
	service := newGeminiStub(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"Bonjour ! Je suis Guylin, ravi de vous aider."}]}}]}`)

	response, generated := service.GenerateResponse(context.Background(), "Bonjour", "")

	assert.True(t, generated)
	assert.Equal(t, "Bonjour ! Je suis Guylin, ravi de vous aider.", response)
}

func TestGenerateResponseFallsBackOnEmptyCandidates(t *testing.T) {
	service := newGeminiStub(t, http.StatusOK, `{"candidates":[]}`)

	response, generated := service.GenerateResponse(context.Background(), "quels services ?", "")

	assert.False(t, generated)
	assert.Equal(t, GenerateIntelligentFallback("quels services ?"), response)
}

func TestGenerateResponseFallsBackOnWhitespaceText(t *testing.T) {
	service := newGeminiStub(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`)

	_, generated := service.GenerateResponse(context.Background(), "Bonjour", "")

	assert.False(t, generated)
}

func TestGenerateResponseFallsBackOnServerError(t *testing.T) {
	service := newGeminiStub(t, http.StatusInternalServerError, `{"error":"boom"}`)

	response, generated := service.GenerateResponse(context.Background(), "merci", "")

	assert.False(t, generated)
	assert.Equal(t, GenerateIntelligentFallback("merci"), response)
}

func TestGenerateResponseFallsBackOnNetworkError(t *testing.T) {
	service := NewAIChatService("test-key")
	service.Endpoint = "http://127.0.0.1:1"

	response, generated := service.GenerateResponse(context.Background(), "Bonjour", "")

	assert.False(t, generated)
	assert.NotEmpty(t, response)
}

func TestIsServiceAvailable(t *testing.T) {
	service := newGeminiStub(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"OK"}]}}]}`)

	assert.True(t, service.IsServiceAvailable(context.Background()))
}

func TestIsServiceAvailableWithoutKey(t *testing.T) {
	service := NewAIChatService("")

	assert.False(t, service.IsServiceAvailable(context.Background()))
}

func TestIsServiceAvailableOnEmptyResponse(t *testing.T) {
	service := newGeminiStub(t, http.StatusOK, `{"candidates":[]}`)

	assert.False(t, service.IsServiceAvailable(context.Background()))
}

func TestBuildConversationalPrompt(t *testing.T) {
	prompt := buildConversationalPrompt("Qui êtes-vous ?", "")

	assert.Contains(t, prompt, "Tu es Guylin")
	assert.Contains(t, prompt, "Utilisateur: Qui êtes-vous ?")
	assert.True(t, strings.HasSuffix(prompt, "Guylin:"))
	assert.NotContains(t, prompt, "Contexte de conversation")

	prompt = buildConversationalPrompt("Et ensuite ?", "User: Bonjour\nAI: Bonjour !")

	assert.Contains(t, prompt, "Contexte de conversation: User: Bonjour\nAI: Bonjour !")
	assert.Contains(t, prompt, "Utilisateur: Et ensuite ?")
}

func TestCleanResponseStripsRolePrefix(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Guylin: Bonjour à tous !", "Bonjour à tous !"},
		{"Réponse: Voici la réponse.", "Voici la réponse."},
		{"assistant: Une réponse utile.", "Une réponse utile."},
		{"  IA: Texte entouré d'espaces.  ", "Texte entouré d'espaces."},
		{"Sans préfixe du tout.", "Sans préfixe du tout."},
	}

	for _, tt := range tests {
		cleaned, err := cleanResponse(tt.input)

		require.NoError(t, err)
		assert.Equal(t, tt.expected, cleaned)
	}
}

func TestCleanResponseTruncatesAtSentenceBoundary(t *testing.T) {
	long := strings.Repeat("a", 790) + ". " + strings.Repeat("b", 100)

	cleaned, err := cleanResponse(long)

	require.NoError(t, err)
	assert.LessOrEqual(t, utf8.RuneCountInString(cleaned), 800)
	assert.True(t, strings.HasSuffix(cleaned, "."))
}

func TestCleanResponseHardTruncatesWithoutBoundary(t *testing.T) {
	long := strings.Repeat("x", 900)

	cleaned, err := cleanResponse(long)

	require.NoError(t, err)
	assert.Equal(t, 803, utf8.RuneCountInString(cleaned))
	assert.True(t, strings.HasSuffix(cleaned, "..."))
}

func TestCleanResponseKeepsShortTextIntact(t *testing.T) {
	cleaned, err := cleanResponse("Une phrase complète qui tient largement sous la limite.")

	require.NoError(t, err)
	assert.Equal(t, "Une phrase complète qui tient largement sous la limite.", cleaned)
}

func TestCleanResponseRejectsTooShortText(t *testing.T) {
	_, err := cleanResponse("Oui.")

	assert.Error(t, err)
}
