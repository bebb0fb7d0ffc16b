package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"ai-investigator-be/internal/pkg/logger"
	"ai-investigator-be/internal/repository/contract"
	"ai-investigator-be/pkg/embedding"
	"ai-investigator-be/pkg/utils"

	"ai-investigator-be/internal/entity"
)

// ErrDegraded marks transient embedding or index failures. Callers log it
// and continue with an empty context instead of failing the turn.
var ErrDegraded = errors.New("retrieval degraded")

const dedupPrefixLen = 100

// Config carries the ranking knobs. Every value is tunable; the defaults
// are historical heuristics, not tuned optima.
type Config struct {
	TopK                int
	MaxTokens           int
	RecencyWeight       float64
	CandidateMultiplier int
	CandidateCap        int
	EmbedTimeout        time.Duration
}

func DefaultConfig() Config {
	return Config{
		TopK:                5,
		MaxTokens:           2000,
		RecencyWeight:       0.3,
		CandidateMultiplier: 2,
		CandidateCap:        50,
		EmbedTimeout:        30 * time.Second,
	}
}

// Options overrides Config per call. Zero fields fall back to the
// retriever's configuration.
type Options struct {
	TopK          int
	MaxTokens     int
	RecencyWeight float64
}

// RankedChunk is one selected chunk with its scoring breakdown.
type RankedChunk struct {
	ChunkId    string
	Text       string
	Similarity float64
	Recency    float64
	Score      float64
	CreatedAt  time.Time
}

// Result is the ordered, budgeted, deduplicated context for one query.
type Result struct {
	Chunks     []RankedChunk
	TokensUsed int
}

func (r *Result) IsEmpty() bool {
	return r == nil || len(r.Chunks) == 0
}

func (r *Result) Texts() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		out[i] = c.Text
	}
	return out
}

// Retriever embeds, ranks and budgets past interactions. The index is
// shared across sessions; every query is filtered to one session id.
type Retriever struct {
	index    contract.ContextChunkRepository
	embedder embedding.EmbeddingProvider
	cfg      Config
	log      logger.ILogger
	now      func() time.Time
}

func NewRetriever(index contract.ContextChunkRepository, embedder embedding.EmbeddingProvider, cfg Config, log logger.ILogger) *Retriever {
	def := DefaultConfig()
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.RecencyWeight < 0 || cfg.RecencyWeight > 1 {
		cfg.RecencyWeight = def.RecencyWeight
	}
	if cfg.CandidateMultiplier <= 0 {
		cfg.CandidateMultiplier = def.CandidateMultiplier
	}
	if cfg.CandidateCap <= 0 {
		cfg.CandidateCap = def.CandidateCap
	}
	if cfg.EmbedTimeout <= 0 {
		cfg.EmbedTimeout = def.EmbedTimeout
	}
	return &Retriever{
		index:    index,
		embedder: embedder,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// CombineQA builds the canonical chunk text for one interaction.
func CombineQA(question, answer string) string {
	return fmt.Sprintf("Q: %s\nA: %s", question, answer)
}

func (r *Retriever) embed(ctx context.Context, text, taskType string) ([]float32, error) {
	embedCtx, cancel := context.WithTimeout(ctx, r.cfg.EmbedTimeout)
	defer cancel()

	resp, err := r.embedder.Generate(embedCtx, text, taskType)
	if err != nil {
		return nil, err
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding provider returned an empty vector")
	}
	return resp.Embedding.Values, nil
}

// Persist embeds the combined Q/A text and stores it under the session.
// Returns the chunk id. Failures wrap ErrDegraded; the caller's turn
// continues without the chunk.
func (r *Retriever) Persist(ctx context.Context, sessionId uuid.UUID, question, answer string, tags map[string]string) (string, error) {
	text := CombineQA(question, answer)

	vector, err := r.embed(ctx, text, embedding.TaskTypeDocument)
	if err != nil {
		r.log.Warn("retrieval", "embedding failed, interaction not indexed", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
		return "", fmt.Errorf("%w: embed interaction: %v", ErrDegraded, err)
	}

	createdAt := r.now()
	chunk := &entity.ContextChunk{
		Id:        fmt.Sprintf("%s_%d", sessionId, createdAt.UnixNano()),
		SessionId: sessionId,
		Content:   text,
		Embedding: vector,
		Tags:      tags,
		CreatedAt: createdAt,
	}
	if err := r.index.Create(ctx, chunk); err != nil {
		r.log.Warn("retrieval", "index write failed, interaction not indexed", map[string]interface{}{
			"session_id": sessionId.String(),
			"chunk_id":   chunk.Id,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("%w: store chunk: %v", ErrDegraded, err)
	}
	return chunk.Id, nil
}

// Retrieve returns context for query, scoped to the session. An unknown
// or empty session yields an empty result with no error. Infrastructure
// failures yield an empty result wrapping ErrDegraded.
func (r *Retriever) Retrieve(ctx context.Context, query string, sessionId uuid.UUID, opts *Options) (*Result, error) {
	topK := r.cfg.TopK
	maxTokens := r.cfg.MaxTokens
	recencyWeight := r.cfg.RecencyWeight
	if opts != nil {
		if opts.TopK > 0 {
			topK = opts.TopK
		}
		if opts.MaxTokens > 0 {
			maxTokens = opts.MaxTokens
		}
		if opts.RecencyWeight > 0 {
			recencyWeight = opts.RecencyWeight
		}
	}

	vector, err := r.embed(ctx, query, embedding.TaskTypeQuery)
	if err != nil {
		r.log.Warn("retrieval", "query embedding failed, returning empty context", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
		return &Result{}, fmt.Errorf("%w: embed query: %v", ErrDegraded, err)
	}

	fanOut := topK * r.cfg.CandidateMultiplier
	if fanOut > r.cfg.CandidateCap {
		fanOut = r.cfg.CandidateCap
	}

	candidates, err := r.index.SearchSimilarWithScore(ctx, vector, fanOut, sessionId)
	if err != nil {
		r.log.Warn("retrieval", "index search failed, returning empty context", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
		return &Result{}, fmt.Errorf("%w: search index: %v", ErrDegraded, err)
	}
	if len(candidates) == 0 {
		return &Result{}, nil
	}

	ranked := r.rank(candidates, recencyWeight)
	selected := budget(ranked, maxTokens)
	selected = dedupe(selected)

	used := 0
	for _, c := range selected {
		used += utils.EstimateTokens(c.Text)
	}
	return &Result{Chunks: selected, TokensUsed: used}, nil
}

// rank blends index similarity with recency decay and sorts best first.
// Ties go to the newer chunk.
func (r *Retriever) rank(candidates []*contract.ScoredContextChunk, recencyWeight float64) []RankedChunk {
	now := r.now()
	ranked := make([]RankedChunk, 0, len(candidates))
	for _, c := range candidates {
		ageHours := now.Sub(c.Chunk.CreatedAt).Hours()
		if ageHours < 0 {
			ageHours = 0
		}
		recency := 1.0 / (1.0 + ageHours/24.0)
		score := (1.0-recencyWeight)*c.Similarity + recencyWeight*recency
		ranked = append(ranked, RankedChunk{
			ChunkId:    c.Chunk.Id,
			Text:       c.Chunk.Content,
			Similarity: c.Similarity,
			Recency:    recency,
			Score:      score,
			CreatedAt:  c.Chunk.CreatedAt,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})
	return ranked
}

// budget greedily accumulates chunks until the next one would cross the
// token limit.
func budget(ranked []RankedChunk, maxTokens int) []RankedChunk {
	selected := make([]RankedChunk, 0, len(ranked))
	used := 0
	for _, c := range ranked {
		cost := utils.EstimateTokens(c.Text)
		if used+cost > maxTokens {
			break
		}
		selected = append(selected, c)
		used += cost
	}
	return selected
}

// dedupe drops chunks whose content prefix hash was already selected,
// preserving order. Budget freed by a dropped duplicate is not refilled.
func dedupe(chunks []RankedChunk) []RankedChunk {
	seen := make(map[string]bool, len(chunks))
	out := chunks[:0]
	for _, c := range chunks {
		h := utils.ContentHash(c.Text, dedupPrefixLen)
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, c)
	}
	return out
}

// Update replaces the chunk for an edited answer. The first chunk whose
// stored text contains question is removed and a fresh chunk embedding the
// new answer takes its place. Returns false when nothing matched; a miss
// never becomes an insert.
func (r *Retriever) Update(ctx context.Context, sessionId uuid.UUID, question, newAnswer string, tags map[string]string) (bool, error) {
	existing, err := r.index.FindByContent(ctx, sessionId, question)
	if err != nil {
		return false, fmt.Errorf("%w: locate chunk: %v", ErrDegraded, err)
	}
	if existing == nil {
		return false, nil
	}

	text := CombineQA(question, newAnswer)
	vector, err := r.embed(ctx, text, embedding.TaskTypeDocument)
	if err != nil {
		r.log.Warn("retrieval", "embedding failed, edited interaction keeps old chunk", map[string]interface{}{
			"session_id": sessionId.String(),
			"chunk_id":   existing.Id,
			"error":      err.Error(),
		})
		return false, fmt.Errorf("%w: embed edited interaction: %v", ErrDegraded, err)
	}

	if err := r.index.Delete(ctx, existing.Id); err != nil {
		return false, fmt.Errorf("%w: delete chunk: %v", ErrDegraded, err)
	}

	mergedTags := map[string]string{"edited": "true"}
	for k, v := range tags {
		mergedTags[k] = v
	}
	createdAt := r.now()
	replacement := &entity.ContextChunk{
		Id:        fmt.Sprintf("%s_%d_edited", sessionId, createdAt.UnixNano()),
		SessionId: sessionId,
		Content:   text,
		Embedding: vector,
		Tags:      mergedTags,
		CreatedAt: createdAt,
	}
	if err := r.index.Create(ctx, replacement); err != nil {
		return false, fmt.Errorf("%w: store replacement chunk: %v", ErrDegraded, err)
	}
	return true, nil
}

// DeleteSession removes every chunk of the session from the index.
func (r *Retriever) DeleteSession(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	count, err := r.index.DeleteBySessionId(ctx, sessionId)
	if err != nil {
		return 0, fmt.Errorf("%w: delete session chunks: %v", ErrDegraded, err)
	}
	r.log.Info("retrieval", "session chunks removed", map[string]interface{}{
		"session_id": sessionId.String(),
		"count":      count,
	})
	return count, nil
}
