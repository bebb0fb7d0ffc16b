package planner

import (
	"ai-investigator-be/internal/entity"
	"ai-investigator-be/pkg/interview/category"
	"ai-investigator-be/pkg/retrieval"
)

// TurnContext is the read-only material for one planning decision. The
// orchestrator builds it from its own session snapshot, so nothing here
// is shared with live state.
type TurnContext struct {
	Session      entity.Session
	LatestAnswer string
	Retrieved    *retrieval.Result
	Window       []entity.Message

	// QuestionCounts maps each category to the number of questions already
	// asked in it, across the whole conversation. Drives intro rotation.
	QuestionCounts map[category.Category]int
}

func NewTurnContext(session entity.Session, latestAnswer string, retrieved *retrieval.Result, window []entity.Message, counts map[category.Category]int) TurnContext {
	return TurnContext{
		Session:        session,
		LatestAnswer:   latestAnswer,
		Retrieved:      retrieved,
		Window:         window,
		QuestionCounts: counts,
	}
}

func (tc TurnContext) AskedIn(cat category.Category) int {
	return tc.QuestionCounts[cat]
}
