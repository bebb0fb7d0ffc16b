package planner

import (
	"ai-investigator-be/internal/entity"
	"ai-investigator-be/pkg/interview/category"
	"ai-investigator-be/pkg/retrieval"
)

type DirectiveKind int

const (
	// DirectiveFollowUp digs deeper into the current category.
	DirectiveFollowUp DirectiveKind = iota
	// DirectiveAdvance opens the next category.
	DirectiveAdvance
	// DirectiveComplete ends the interview; no further question.
	DirectiveComplete
)

func (k DirectiveKind) String() string {
	switch k {
	case DirectiveFollowUp:
		return "follow_up"
	case DirectiveAdvance:
		return "advance"
	case DirectiveComplete:
		return "complete"
	}
	return "unknown"
}

// Directive is the planner's verdict for one turn plus the generation
// material the renderer needs to turn it into question text.
type Directive struct {
	Kind     DirectiveKind
	Category category.Category

	LatestAnswer    string
	Retrieved       *retrieval.Result
	Window          []entity.Message
	AskedInCategory int
}

func (d Directive) IsFollowUp() bool {
	return d.Kind == DirectiveFollowUp
}

func (d Directive) IsTerminal() bool {
	return d.Kind == DirectiveComplete
}
