package chromem

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	chromemgo "github.com/philippgille/chromem-go"

	"ai-investigator-be/internal/entity"
	"ai-investigator-be/internal/repository/contract"
)

// ChunkIndex stores chunk vectors in an embedded chromem collection per
// session. Embeddings are always supplied by the caller, so the
// collection's embedding func is a guard that rejects accidental
// text-embedding calls. A side catalog keeps content and timestamps for
// substring lookup, which chromem does not expose.
type ChunkIndex struct {
	db *chromemgo.DB

	mu          sync.RWMutex
	collections map[string]*chromemgo.Collection
	catalog     map[string][]*entity.ContextChunk // session id -> chunks
}

// NewChunkIndex opens a persistent chromem store at path. An empty path
// selects a purely in-memory store.
func NewChunkIndex(path string) (contract.ContextChunkRepository, error) {
	var db *chromemgo.DB
	var err error
	if path != "" {
		db, err = chromemgo.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("open chromem store: %w", err)
		}
	} else {
		db = chromemgo.NewDB()
	}
	return &ChunkIndex{
		db:          db,
		collections: make(map[string]*chromemgo.Collection),
		catalog:     make(map[string][]*entity.ContextChunk),
	}, nil
}

func rejectTextEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("chunk index requires precomputed embeddings")
}

func (idx *ChunkIndex) collection(sessionId uuid.UUID) (*chromemgo.Collection, error) {
	idx.mu.RLock()
	col, ok := idx.collections["session_"+sessionId.String()]
	idx.mu.RUnlock()
	if ok {
		return col, nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.collectionLocked(sessionId)
}

// collectionLocked requires idx.mu to be held exclusively.
func (idx *ChunkIndex) collectionLocked(sessionId uuid.UUID) (*chromemgo.Collection, error) {
	name := "session_" + sessionId.String()
	if col, ok := idx.collections[name]; ok {
		return col, nil
	}

	col := idx.db.GetCollection(name, rejectTextEmbedding)
	if col == nil {
		var err error
		col, err = idx.db.CreateCollection(name, nil, rejectTextEmbedding)
		if err != nil {
			return nil, fmt.Errorf("create collection %s: %w", name, err)
		}
	}
	idx.collections[name] = col
	return col, nil
}

func (idx *ChunkIndex) Create(ctx context.Context, chunk *entity.ContextChunk) error {
	col, err := idx.collection(chunk.SessionId)
	if err != nil {
		return err
	}

	metadata := map[string]string{
		"session_id": chunk.SessionId.String(),
		"created_at": chunk.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	for k, v := range chunk.Tags {
		metadata[k] = v
	}

	err = col.AddDocument(ctx, chromemgo.Document{
		ID:        chunk.Id,
		Content:   chunk.Content,
		Embedding: chunk.Embedding,
		Metadata:  metadata,
	})
	if err != nil {
		return err
	}

	cp := *chunk
	cp.Embedding = append([]float32(nil), chunk.Embedding...)

	idx.mu.Lock()
	key := chunk.SessionId.String()
	idx.catalog[key] = append(idx.catalog[key], &cp)
	idx.mu.Unlock()
	return nil
}

func (idx *ChunkIndex) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, sessionId uuid.UUID) ([]*contract.ScoredContextChunk, error) {
	if limit <= 0 {
		limit = 10
	}

	col, err := idx.collection(sessionId)
	if err != nil {
		return nil, err
	}

	// chromem rejects queries asking for more results than stored docs.
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := col.QueryEmbedding(ctx, embedding, limit, nil, nil)
	if err != nil {
		return nil, err
	}

	idx.mu.RLock()
	byId := make(map[string]*entity.ContextChunk)
	for _, c := range idx.catalog[sessionId.String()] {
		byId[c.Id] = c
	}
	idx.mu.RUnlock()

	scored := make([]*contract.ScoredContextChunk, 0, len(results))
	for _, res := range results {
		chunk, ok := byId[res.ID]
		if !ok {
			// Persisted doc from a previous run with no catalog entry;
			// rebuild what the result carries.
			chunk = &entity.ContextChunk{
				Id:        res.ID,
				SessionId: sessionId,
				Content:   res.Content,
			}
		}
		scored = append(scored, &contract.ScoredContextChunk{
			Chunk:      chunk,
			Similarity: float64(res.Similarity),
		})
	}
	return scored, nil
}

func (idx *ChunkIndex) FindByContent(ctx context.Context, sessionId uuid.UUID, substring string) (*entity.ContextChunk, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, c := range idx.catalog[sessionId.String()] {
		if strings.Contains(c.Content, substring) {
			return c, nil
		}
	}
	return nil, nil
}

func (idx *ChunkIndex) Delete(ctx context.Context, id string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for key, chunks := range idx.catalog {
		for i, c := range chunks {
			if c.Id != id {
				continue
			}
			col, err := idx.collectionLocked(c.SessionId)
			if err != nil {
				return err
			}
			if err := col.Delete(ctx, nil, nil, id); err != nil {
				return err
			}
			idx.catalog[key] = append(chunks[:i], chunks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (idx *ChunkIndex) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	key := sessionId.String()
	chunks := idx.catalog[key]
	if len(chunks) == 0 {
		return 0, nil
	}

	col, err := idx.collectionLocked(sessionId)
	if err != nil {
		return 0, err
	}
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.Id
	}
	if err := col.Delete(ctx, nil, nil, ids...); err != nil {
		return 0, err
	}
	delete(idx.catalog, key)
	return int64(len(ids)), nil
}

func (idx *ChunkIndex) CountBySessionId(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return int64(len(idx.catalog[sessionId.String()])), nil
}
