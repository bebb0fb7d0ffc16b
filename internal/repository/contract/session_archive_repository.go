package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-investigator-be/internal/entity"
	"ai-investigator-be/internal/repository/specification"
)

type SessionArchiveRepository interface {
	Upsert(ctx context.Context, session *entity.Session) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
