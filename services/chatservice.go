package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/twinj/uuid"

	"github.com/dgn-rdc/dgn-backend/db"
	"github.com/dgn-rdc/dgn-backend/models"
)

const apologyResponse = "Je suis désolé, je rencontre des difficultés techniques. Veuillez réessayer."

const sessionContextWindow = 5

// AIResponder is what the orchestrator needs from the AI layer. The boolean
// result of GenerateResponse is true when the text came from the model rather
// than the fallback table.
type AIResponder interface {
	GenerateResponse(ctx context.Context, userMessage string, conversationContext string) (string, bool)
	IsServiceAvailable(ctx context.Context) bool
}

type ChatService struct {
	DBManager *db.DBManager
	AIChat    AIResponder
}

// SendMessage runs one chat turn: resolve the session, gather recent context,
// ask the AI layer, and persist exactly one row whatever happened. AI
// failures never surface as errors; only a store failure does.
func (service *ChatService) SendMessage(ctx context.Context, userMessage string, sessionID string) (*models.ChatMessage, error) {
	if sessionID == "" {
		sessionID = uuid.NewV4().String()
	}

	conversationContext, err := service.sessionContext(ctx, sessionID)
	if err != nil {
		log.Printf("Erreur lors de la lecture du contexte de session: %s", err.Error())
		conversationContext = ""
	}

	startTime := time.Now()

	aiResponse, generated := service.AIChat.GenerateResponse(ctx, userMessage, conversationContext)
	if aiResponse == "" {
		// Contract says the responder never returns empty; degrade anyway.
		aiResponse = apologyResponse
		generated = false
	}

	responseTime := time.Since(startTime).Milliseconds()

	insertStr := "INSERT INTO chat_messages(user_message, ai_response, session_id, response_time, is_successful, date_created, date_modified) VALUES($1, $2, $3, $4, $5, datetime('now'), datetime('now'))"

	result, err := service.DBManager.DB.ExecContext(ctx, insertStr, userMessage, aiResponse, sessionID, responseTime, generated)
	if err != nil {
		return nil, err
	}

	messageID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	chatMessage := models.ChatMessage{}

	if err = service.DBManager.DB.GetContext(ctx, &chatMessage, "SELECT * FROM chat_messages WHERE id=$1", messageID); err != nil {
		return nil, err
	}

	return &chatMessage, nil
}

// sessionContext renders the last exchanges of a session, oldest first, as
// "User: ...\nAI: ..." blocks for the prompt. Empty string for a new session.
func (service *ChatService) sessionContext(ctx context.Context, sessionID string) (string, error) {
	queryStr := "SELECT * FROM chat_messages WHERE session_id=$1 ORDER BY date_created DESC, id DESC LIMIT $2"

	recentMessages := make([]models.ChatMessage, 0)

	if err := service.DBManager.DB.SelectContext(ctx, &recentMessages, queryStr, sessionID, sessionContextWindow); err != nil {
		return "", err
	}

	if len(recentMessages) == 0 {
		return "", nil
	}

	contextParts := make([]string, 0, len(recentMessages))
	for i := len(recentMessages) - 1; i >= 0; i-- {
		message := recentMessages[i]
		contextParts = append(contextParts, fmt.Sprintf("User: %s\nAI: %s", message.UserMessage, message.AIResponse))
	}

	return strings.Join(contextParts, "\n"), nil
}

func (service *ChatService) GetChatHistory(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	queryStr := "SELECT * FROM chat_messages WHERE session_id=$1 ORDER BY date_created ASC, id ASC LIMIT $2"

	messages := make([]models.ChatMessage, 0)

	if err := service.DBManager.DB.SelectContext(ctx, &messages, queryStr, sessionID, limit); err != nil {
		return nil, err
	}

	return messages, nil
}

// ClearChatHistory removes every exchange of a session. Clearing an unknown
// or already empty session is a no-op.
func (service *ChatService) ClearChatHistory(ctx context.Context, sessionID string) error {
	queryStr := "DELETE FROM chat_messages WHERE session_id=$1"

	if _, err := service.DBManager.DB.ExecContext(ctx, queryStr, sessionID); err != nil {
		return err
	}

	log.Printf("Historique du chat supprimé pour la session: %s", sessionID)

	return nil
}

func (service *ChatService) GetChatStatistics(ctx context.Context) (*models.ChatStatistics, error) {
	var totalMessages int
	if err := service.DBManager.DB.GetContext(ctx, &totalMessages, "SELECT COUNT(*) FROM chat_messages"); err != nil {
		return nil, err
	}

	var successfulResponses int
	if err := service.DBManager.DB.GetContext(ctx, &successfulResponses, "SELECT COUNT(*) FROM chat_messages WHERE is_successful=1"); err != nil {
		return nil, err
	}

	var averageResponseTime float64
	if err := service.DBManager.DB.GetContext(ctx, &averageResponseTime, "SELECT COALESCE(AVG(response_time), 0) FROM chat_messages"); err != nil {
		return nil, err
	}

	var activeSessions int
	if err := service.DBManager.DB.GetContext(ctx, &activeSessions, "SELECT COUNT(DISTINCT session_id) FROM chat_messages WHERE date_created > datetime('now', '-1 day')"); err != nil {
		return nil, err
	}

	return &models.ChatStatistics{
		TotalMessages:       totalMessages,
		SuccessfulResponses: successfulResponses,
		AverageResponseTime: int64(math.Round(averageResponseTime)),
		ActiveSessions:      activeSessions,
	}, nil
}

type sessionAggregate struct {
	SessionID    string `db:"session_id"`
	LastActivity string `db:"last_activity"`
	MessageCount int    `db:"message_count"`
	LastID       int64  `db:"last_id"`
}

// GetRecentSessions lists sessions by most recent activity. The last user
// message is fetched from the newest row of each group directly.
func (service *ChatService) GetRecentSessions(ctx context.Context, limit int) ([]models.SessionSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	queryStr := `SELECT session_id, MAX(date_created) AS last_activity, COUNT(*) AS message_count, MAX(id) AS last_id
		FROM chat_messages GROUP BY session_id ORDER BY last_activity DESC, last_id DESC LIMIT $1`

	aggregates := make([]sessionAggregate, 0)

	if err := service.DBManager.DB.SelectContext(ctx, &aggregates, queryStr, limit); err != nil {
		return nil, err
	}

	summaries := make([]models.SessionSummary, 0, len(aggregates))

	for _, aggregate := range aggregates {
		var lastMessage string
		if err := service.DBManager.DB.GetContext(ctx, &lastMessage, "SELECT user_message FROM chat_messages WHERE id=$1", aggregate.LastID); err != nil {
			return nil, err
		}

		lastActivity, err := time.Parse("2006-01-02 15:04:05", aggregate.LastActivity)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, models.SessionSummary{
			SessionID:    aggregate.SessionID,
			LastMessage:  lastMessage,
			LastActivity: lastActivity,
			MessageCount: aggregate.MessageCount,
		})
	}

	return summaries, nil
}

func (service *ChatService) IsAiServiceAvailable(ctx context.Context) bool {
	return service.AIChat.IsServiceAvailable(ctx)
}
