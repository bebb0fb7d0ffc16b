package unitofwork

import "context"

// RepositoryFactory hands out one UnitOfWork per archive operation. Each
// unit carries its own transaction state, so concurrent saves never share
// a gorm session.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
