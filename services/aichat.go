package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

const systemPrompt = `Tu es Guylin, l'assistant virtuel de DGN (Dynamiques Guylin Nyembo).

INSTRUCTIONS IMPORTANTES :
- Réponds TOUJOURS en français, même si on te parle en anglais
- Sois naturel, amical et conversationnel
- Réponds DIRECTEMENT aux questions, ne donne pas d'explications sur ce que tu devrais répondre
- Tu es un assistant spécialisé dans les informations sur DGN
- Garde tes réponses courtes et pertinentes (maximum 2-3 phrases)
- Si on te demande ton nom ou comment tu t'appelles, dis simplement "Je m'appelle Guylin, je suis l'assistant virtuel de DGN"

À PROPOS DE DGN :
DGN (Dynamiques Guylin Nyembo) est une organisation dédiée au développement et à l'innovation. Nous accompagnons nos membres et partenaires dans différents domaines avec nos services, actualités, et applications.`

// AIChatService talks to the Gemini generateContent endpoint. Every failure
// path degrades to the canned fallback answers, so callers always get a
// usable response string; the boolean result tells whether the text actually
// came from the model.
type AIChatService struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
}

func NewAIChatService(apiKey string) *AIChatService {
	return &AIChatService{
		APIKey:   apiKey,
		Endpoint: geminiEndpoint,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (service *AIChatService) GenerateResponse(ctx context.Context, userMessage string, conversationContext string) (string, bool) {
	if service.APIKey == "" {
		log.Println("Clé API Google Gemini manquante, utilisation des réponses de secours")
		return GenerateIntelligentFallback(userMessage), false
	}

	startTime := time.Now()

	rawText, err := service.callGemini(ctx, buildConversationalPrompt(userMessage, conversationContext))
	if err != nil {
		log.Printf("Google Gemini échoué: %s", err.Error())
		return GenerateIntelligentFallback(userMessage), false
	}

	cleaned, err := cleanResponse(rawText)
	if err != nil {
		log.Printf("Google Gemini échoué: %s", err.Error())
		return GenerateIntelligentFallback(userMessage), false
	}

	log.Printf("Réponse IA générée en %dms", time.Since(startTime).Milliseconds())

	return cleaned, true
}

// IsServiceAvailable probes the provider with a trivial prompt. The raw
// candidate text is checked for presence only, no cleaning.
func (service *AIChatService) IsServiceAvailable(ctx context.Context) bool {
	if service.APIKey == "" {
		log.Println("Clé API Google Gemini manquante")
		return false
	}

	if _, err := service.callGemini(ctx, "Test"); err != nil {
		log.Printf("Service Google Gemini indisponible: %s", err.Error())
		return false
	}

	return true
}

func (service *AIChatService) callGemini(ctx context.Context, prompt string) (string, error) {
	requestBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	payload, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, service.Endpoint+"?key="+service.APIKey, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := service.HTTPClient.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return "", fmt.Errorf("statut %d de Gemini: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	var geminiResp geminiResponse

	if err = json.NewDecoder(response.Body).Decode(&geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("réponse vide de Gemini")
	}

	text := geminiResp.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", errors.New("réponse vide de Gemini")
	}

	return text, nil
}

func buildConversationalPrompt(userMessage string, conversationContext string) string {
	if conversationContext != "" {
		return fmt.Sprintf("%s\n\nContexte de conversation: %s\n\nUtilisateur: %s\n\nGuylin:", systemPrompt, conversationContext, userMessage)
	}

	return fmt.Sprintf("%s\n\nUtilisateur: %s\n\nGuylin:", systemPrompt, userMessage)
}

var rolePrefixRegexp = regexp.MustCompile(`(?i)^(Réponse:|Assistant:|IA:|Guylin:)`)

// cleanResponse trims role-label artifacts and bounds the answer to 800
// characters, cutting at the last sentence boundary inside that window when
// one exists.
func cleanResponse(text string) (string, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimSpace(rolePrefixRegexp.ReplaceAllString(cleaned, ""))

	if runes := []rune(cleaned); len(runes) > 800 {
		window := runes[:800]

		lastBoundary := -1
		for i, r := range window {
			if r == '.' || r == '!' || r == '?' {
				lastBoundary = i
			}
		}

		if lastBoundary >= 0 {
			cleaned = string(window[:lastBoundary+1])
		} else {
			cleaned = string(window) + "..."
		}
	}

	if len([]rune(cleaned)) < 5 {
		return "", errors.New("réponse trop courte après nettoyage")
	}

	return cleaned, nil
}
