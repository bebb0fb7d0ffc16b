package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-investigator-be/internal/entity"
)

// SessionStore holds live conversations keyed by session id. Implementations
// back it with an in-process cache or redis; the orchestrator only sees this
// interface.
type SessionStore interface {
	Put(ctx context.Context, conversation *entity.Conversation) error
	Get(ctx context.Context, sessionId uuid.UUID) (*entity.Conversation, bool, error)
	Delete(ctx context.Context, sessionId uuid.UUID) error
}
