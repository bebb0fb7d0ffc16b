package dto

import (
	"time"

	"github.com/google/uuid"
)

type SaveSessionRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
}

type SaveSessionResponse struct {
	SessionId uuid.UUID `json:"session_id"`
}

type LoadSessionResponse struct {
	SessionId    uuid.UUID `json:"session_id"`
	MessageCount int       `json:"message_count"`
	State        string    `json:"state"`
}

type SessionListItem struct {
	Id            uuid.UUID `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	LastUpdated   time.Time `json:"last_updated"`
	Status        string    `json:"status"`
	State         string    `json:"state"`
	QuestionCount int       `json:"question_count"`
	MessageCount  int       `json:"message_count"`
	Provider      string    `json:"provider,omitempty"`
	ModelId       string    `json:"model_id,omitempty"`
}

type ListSessionsResponse struct {
	Sessions []SessionListItem `json:"sessions"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit,omitempty"`
	Offset   int               `json:"offset"`
}

type DeleteSessionResponse struct {
	SessionId     uuid.UUID `json:"session_id"`
	ChunksRemoved int64     `json:"chunks_removed"`
}

type TranscriptResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	Markdown  string    `json:"markdown"`
}
