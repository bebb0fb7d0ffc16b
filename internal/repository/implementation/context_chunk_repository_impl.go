package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"ai-investigator-be/internal/entity"
	"ai-investigator-be/internal/mapper"
	"ai-investigator-be/internal/model"
	"ai-investigator-be/internal/repository/contract"
)

type ContextChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContextChunkMapper
}

func NewContextChunkRepository(db *gorm.DB) contract.ContextChunkRepository {
	return &ContextChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewContextChunkMapper(),
	}
}

func (r *ContextChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.ContextChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

// SearchSimilarWithScore computes cosine similarity in the database.
// pgvector's <=> operator is cosine distance, so 1 - (embedding <=> query)
// is the similarity.
func (r *ContextChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, sessionId uuid.UUID) ([]*contract.ScoredContextChunk, error) {
	if limit <= 0 {
		limit = 10
	}

	type result struct {
		model.ContextChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("context_chunks").
		Select("context_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("session_id = ?", sessionId).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredContextChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredContextChunk{
			Chunk:      r.mapper.ToEntity(&res.ContextChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *ContextChunkRepositoryImpl) FindByContent(ctx context.Context, sessionId uuid.UUID, substring string) (*entity.ContextChunk, error) {
	var m model.ContextChunk
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Where("content LIKE ?", "%"+substring+"%").
		Order("created_at ASC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ContextChunkRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ContextChunk{}).Error
}

func (r *ContextChunkRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.ContextChunk{})
	return res.RowsAffected, res.Error
}

func (r *ContextChunkRepositoryImpl) CountBySessionId(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ContextChunk{}).
		Where("session_id = ?", sessionId).
		Count(&count).Error
	return count, err
}
