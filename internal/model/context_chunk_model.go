package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ContextChunk struct {
	Id        string          `gorm:"type:varchar(96);primaryKey"`
	SessionId uuid.UUID       `gorm:"type:uuid;not null;index"`
	Content   string          `gorm:"type:text;not null"`
	Embedding pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text and text-embedding-004 both emit 768 dimensions
	Tags      datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt time.Time       `gorm:"not null;index"`
}

func (ContextChunk) TableName() string {
	return "context_chunks"
}
