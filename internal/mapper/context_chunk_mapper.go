package mapper

import (
	"encoding/json"

	"github.com/pgvector/pgvector-go"

	"ai-investigator-be/internal/entity"
	"ai-investigator-be/internal/model"
)

type ContextChunkMapper struct{}

func NewContextChunkMapper() *ContextChunkMapper {
	return &ContextChunkMapper{}
}

func (m *ContextChunkMapper) ToEntity(c *model.ContextChunk) *entity.ContextChunk {
	if c == nil {
		return nil
	}

	var tags map[string]string
	if len(c.Tags) > 0 {
		_ = json.Unmarshal(c.Tags, &tags)
	}

	return &entity.ContextChunk{
		Id:        c.Id,
		SessionId: c.SessionId,
		Content:   c.Content,
		Embedding: c.Embedding.Slice(),
		Tags:      tags,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ContextChunkMapper) ToModel(c *entity.ContextChunk) *model.ContextChunk {
	if c == nil {
		return nil
	}

	tags, _ := json.Marshal(c.Tags)

	return &model.ContextChunk{
		Id:        c.Id,
		SessionId: c.SessionId,
		Content:   c.Content,
		Embedding: pgvector.NewVector(c.Embedding),
		Tags:      tags,
		CreatedAt: c.CreatedAt,
	}
}
