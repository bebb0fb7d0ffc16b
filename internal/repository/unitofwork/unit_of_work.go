package unitofwork

import (
	"context"

	"ai-investigator-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionArchiveRepository() contract.SessionArchiveRepository
	MessageArchiveRepository() contract.MessageArchiveRepository
	ContextChunkRepository() contract.ContextChunkRepository
}
