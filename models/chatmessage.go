package models

import "time"

// ChatMessage is one stored exchange: the visitor's message together with the
// assistant's answer. A "session" is nothing more than the set of rows that
// share a session_id.
type ChatMessage struct {
	ID           int64     `json:"id" db:"id"`
	UserMessage  string    `json:"userMessage" db:"user_message"`
	AIResponse   string    `json:"aiResponse" db:"ai_response"`
	SessionID    string    `json:"sessionId" db:"session_id"`
	ResponseTime int64     `json:"responseTime" db:"response_time"`
	IsSuccessful bool      `json:"isSuccessful" db:"is_successful"`
	DateCreated  time.Time `json:"createdAt" db:"date_created"`
	DateModified time.Time `json:"-" db:"date_modified"`
}

type SessionSummary struct {
	SessionID    string    `json:"sessionId" db:"session_id"`
	LastMessage  string    `json:"lastMessage" db:"last_message"`
	LastActivity time.Time `json:"lastActivity" db:"last_activity"`
	MessageCount int       `json:"messageCount" db:"message_count"`
}

type ChatStatistics struct {
	TotalMessages       int   `json:"totalMessages"`
	SuccessfulResponses int   `json:"successfulResponses"`
	AverageResponseTime int64 `json:"averageResponseTime"`
	ActiveSessions      int   `json:"activeSessions"`
}
