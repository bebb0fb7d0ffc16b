package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleSystem    = "system"
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// MessageMetadata is the typed annotation carried by every message instead
// of a free-form map.
type MessageMetadata struct {
	Category   string `json:"category,omitempty"`
	QuestionId string `json:"question_id,omitempty"`
	IsFollowUp bool   `json:"is_follow_up,omitempty"`
	Edited     bool   `json:"edited,omitempty"`
}

type Message struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Role      string
	Content   string
	Metadata  MessageMetadata
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// IsQuestion reports whether the message was produced by the interviewer.
func (m *Message) IsQuestion() bool {
	return m.Role == RoleAssistant || m.Role == RoleSystem
}
