package mapper

import (
	"encoding/json"

	"ai-investigator-be/internal/entity"
	"ai-investigator-be/internal/model"
	"ai-investigator-be/pkg/interview/category"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	var skipped []string
	if len(s.SkippedCategoryIds) > 0 {
		_ = json.Unmarshal(s.SkippedCategoryIds, &skipped)
	}

	return &entity.Session{
		Id:                 s.Id,
		CurrentCategory:    category.Category(s.CurrentCategory),
		Status:             s.Status,
		SkippedCategoryIds: skipped,
		Provider:           s.Provider,
		ModelId:            s.ModelId,
		AnswerCount:        s.AnswerCount,
		StartedAt:          s.StartedAt,
		LastUpdated:        s.LastUpdated,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}

	skipped, _ := json.Marshal(s.SkippedCategoryIds)

	return &model.Session{
		Id:                 s.Id,
		CurrentCategory:    string(s.CurrentCategory),
		Status:             s.Status,
		SkippedCategoryIds: skipped,
		Provider:           s.Provider,
		ModelId:            s.ModelId,
		AnswerCount:        s.AnswerCount,
		StartedAt:          s.StartedAt,
		LastUpdated:        s.LastUpdated,
	}
}
