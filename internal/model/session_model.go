package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Session struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CurrentCategory    string         `gorm:"type:varchar(32);not null"`
	Status             string         `gorm:"type:varchar(16);not null;index"`
	SkippedCategoryIds datatypes.JSON `gorm:"type:jsonb"`
	Provider           string         `gorm:"type:varchar(64)"`
	ModelId            string         `gorm:"type:varchar(128)"`
	AnswerCount        int            `gorm:"default:0"`
	StartedAt          time.Time      `gorm:"not null"`
	LastUpdated        time.Time      `gorm:"not null;index"`
	SavedAt            time.Time      `gorm:"autoUpdateTime"`
}

func (Session) TableName() string {
	return "sessions"
}
