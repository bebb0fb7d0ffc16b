package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-investigator-be/internal/entity"
	"ai-investigator-be/internal/repository/specification"
)

type MessageArchiveRepository interface {
	CreateBulk(ctx context.Context, messages []*entity.Message) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
}
