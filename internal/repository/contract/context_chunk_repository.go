package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-investigator-be/internal/entity"
)

// ScoredContextChunk wraps a ContextChunk with its similarity score
type ScoredContextChunk struct {
	Chunk      *entity.ContextChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

// ContextChunkRepository is the vector index: session-partitioned storage
// of embedded interactions with nearest-neighbor search. Backed by
// pgvector, chromem, or an in-process index.
type ContextChunkRepository interface {
	Create(ctx context.Context, chunk *entity.ContextChunk) error
	// SearchSimilarWithScore returns up to limit chunks for the session,
	// most similar first, with normalized cosine similarity.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, sessionId uuid.UUID) ([]*ScoredContextChunk, error)
	// FindByContent returns the first chunk in the session whose stored
	// text contains substring, or nil when none matches.
	FindByContent(ctx context.Context, sessionId uuid.UUID, substring string) (*entity.ContextChunk, error)
	Delete(ctx context.Context, id string) error
	// DeleteBySessionId removes every chunk of the session and reports how
	// many were removed.
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) (int64, error)
	CountBySessionId(ctx context.Context, sessionId uuid.UUID) (int64, error)
}
