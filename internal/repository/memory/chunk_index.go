package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"ai-investigator-be/internal/entity"
	"ai-investigator-be/internal/repository/contract"
)

// ChunkIndex is an in-process vector index. Reads take the shared lock so
// concurrent retrievals across sessions do not serialize; writes are
// append or delete under the exclusive lock.
type ChunkIndex struct {
	mu     sync.RWMutex
	chunks []*entity.ContextChunk
}

func NewChunkIndex() contract.ContextChunkRepository {
	return &ChunkIndex{}
}

func (idx *ChunkIndex) Create(ctx context.Context, chunk *entity.ContextChunk) error {
	cp := *chunk
	cp.Embedding = append([]float32(nil), chunk.Embedding...)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.chunks = append(idx.chunks, &cp)
	return nil
}

func (idx *ChunkIndex) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, sessionId uuid.UUID) ([]*contract.ScoredContextChunk, error) {
	if limit <= 0 {
		limit = 10
	}

	idx.mu.RLock()
	scored := make([]*contract.ScoredContextChunk, 0, limit)
	for _, c := range idx.chunks {
		if c.SessionId != sessionId {
			continue
		}
		scored = append(scored, &contract.ScoredContextChunk{
			Chunk:      c,
			Similarity: cosineSimilarity(embedding, c.Embedding),
		})
	}
	idx.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (idx *ChunkIndex) FindByContent(ctx context.Context, sessionId uuid.UUID, substring string) (*entity.ContextChunk, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, c := range idx.chunks {
		if c.SessionId == sessionId && strings.Contains(c.Content, substring) {
			return c, nil
		}
	}
	return nil, nil
}

func (idx *ChunkIndex) Delete(ctx context.Context, id string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for i, c := range idx.chunks {
		if c.Id == id {
			idx.chunks = append(idx.chunks[:i], idx.chunks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (idx *ChunkIndex) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	kept := idx.chunks[:0]
	var removed int64
	for _, c := range idx.chunks {
		if c.SessionId == sessionId {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	idx.chunks = kept
	return removed, nil
}

func (idx *ChunkIndex) CountBySessionId(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var count int64
	for _, c := range idx.chunks {
		if c.SessionId == sessionId {
			count++
		}
	}
	return count, nil
}

// cosineSimilarity returns a/b similarity in [-1, 1]; zero vectors and
// mismatched lengths score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
