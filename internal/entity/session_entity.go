package entity

import (
	"time"

	"github.com/google/uuid"

	"ai-investigator-be/pkg/interview/category"
)

const (
	SessionStatusActive   = "active"
	SessionStatusComplete = "complete"
)

type Session struct {
	Id                 uuid.UUID
	CurrentCategory    category.Category
	Status             string
	SkippedCategoryIds []string
	Provider           string
	ModelId            string
	AnswerCount        int
	StartedAt          time.Time
	LastUpdated        time.Time
}

func (s *Session) IsComplete() bool {
	return s.Status == SessionStatusComplete
}

// Clone returns a deep copy. Turn processing mutates the copy and stores
// it only when the whole turn commits.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.SkippedCategoryIds = make([]string, len(s.SkippedCategoryIds))
	copy(out.SkippedCategoryIds, s.SkippedCategoryIds)
	return &out
}
