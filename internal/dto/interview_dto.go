package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartInvestigationRequest struct {
	Provider string `json:"provider,omitempty"`
	ModelId  string `json:"model_id,omitempty"`
}

type QuestionResponse struct {
	Id         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	Category   string    `json:"category"`
	IsFollowUp bool      `json:"is_follow_up"`
	CreatedAt  time.Time `json:"created_at"`
}

type StartInvestigationResponse struct {
	SessionId uuid.UUID         `json:"session_id"`
	Question  *QuestionResponse `json:"question"`
}

type MessageRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Message   string    `json:"message" validate:"required,min=1"`
}

// MessageResponse carries the next question, or a null question with
// Complete=true once the interview has finished. Answer and skip share it.
type MessageResponse struct {
	Question *QuestionResponse `json:"question"`
	Complete bool              `json:"complete"`
}

type SkipQuestionRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
}

type EditAnswerRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	MessageId uuid.UUID `json:"message_id" validate:"required"`
	NewAnswer string    `json:"new_answer" validate:"required,min=1"`
}

type EditAnswerResponse struct {
	Updated bool `json:"updated"`
}

type ConversationMessage struct {
	Id         uuid.UUID  `json:"id"`
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Category   string     `json:"category,omitempty"`
	QuestionId string     `json:"question_id,omitempty"`
	IsFollowUp bool       `json:"is_follow_up,omitempty"`
	Edited     bool       `json:"edited,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type HistoryResponse struct {
	SessionId     uuid.UUID             `json:"session_id"`
	Messages      []ConversationMessage `json:"messages"`
	TotalMessages int                   `json:"total_messages"`
}

type CategoryCoverage struct {
	CoveredCategories   int            `json:"covered_categories"`
	TotalCategories     int            `json:"total_categories"`
	CoveragePercentage  float64        `json:"coverage_percentage"`
	QuestionsByCategory map[string]int `json:"questions_by_category"`
}

type SessionStatusResponse struct {
	SessionId         uuid.UUID         `json:"session_id"`
	Exists            bool              `json:"exists"`
	Complete          bool              `json:"complete"`
	State             string            `json:"state,omitempty"`
	MessageCount      int               `json:"message_count"`
	AnswerCount       int               `json:"answer_count"`
	SkippedCategories []string          `json:"skipped_categories,omitempty"`
	Coverage          *CategoryCoverage `json:"coverage,omitempty"`
}

// TurnRecordedMessage is the pub/sub payload emitted after each accepted
// answer; the auto-save consumer acts on it.
type TurnRecordedMessage struct {
	SessionId   uuid.UUID `json:"session_id"`
	AnswerCount int       `json:"answer_count"`
}
