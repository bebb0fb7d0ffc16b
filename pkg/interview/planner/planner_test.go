package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-investigator-be/internal/entity"
	"ai-investigator-be/pkg/interview/category"
	"ai-investigator-be/pkg/interview/policy"
	"ai-investigator-be/pkg/retrieval"
)

const longClearAnswer = "A full task-management platform for remote engineering teams with sprint boards and detailed time tracking built in"

func newTestPlanner() *Planner {
	return NewPlanner(category.NewMachine(), policy.NewHeuristic(policy.DefaultMinWords))
}

func turnAt(cat category.Category, answer string) TurnContext {
	return TurnContext{
		Session:      entity.Session{CurrentCategory: cat, Status: entity.SessionStatusActive},
		LatestAnswer: answer,
	}
}

func TestPlanShortAnswerStaysInCategory(t *testing.T) {
	p := newTestPlanner()

	d := p.Plan(turnAt(category.Start, "A task app"))

	assert.Equal(t, DirectiveFollowUp, d.Kind)
	assert.Equal(t, category.Start, d.Category)
	assert.True(t, d.IsFollowUp())
	assert.False(t, d.IsTerminal())
}

func TestPlanClearAnswerAdvances(t *testing.T) {
	p := newTestPlanner()

	d := p.Plan(turnAt(category.Start, longClearAnswer))

	assert.Equal(t, DirectiveAdvance, d.Kind)
	assert.Equal(t, category.Functionality, d.Category)
	assert.False(t, d.IsFollowUp())
}

func TestPlanHedgedAnswerStaysInCategory(t *testing.T) {
	p := newTestPlanner()
	hedged := "We could honestly ship almost any of these features first, it doesn't matter much which one we pick"

	d := p.Plan(turnAt(category.Market, hedged))

	assert.Equal(t, DirectiveFollowUp, d.Kind)
	assert.Equal(t, category.Market, d.Category)
}

func TestPlanReviewAnswerCompletes(t *testing.T) {
	p := newTestPlanner()

	// Review never follows up, so even a terse answer ends the interview.
	d := p.Plan(turnAt(category.Review, "yes"))

	assert.Equal(t, DirectiveComplete, d.Kind)
	assert.Equal(t, category.Complete, d.Category)
	assert.True(t, d.IsTerminal())
}

func TestPlanTechnicalAdvancesToReview(t *testing.T) {
	p := newTestPlanner()

	d := p.Plan(turnAt(category.Technical, longClearAnswer))

	assert.Equal(t, DirectiveAdvance, d.Kind)
	assert.Equal(t, category.Review, d.Category)
}

func TestPlanLastCategoryCanStillFollowUp(t *testing.T) {
	// With a custom order whose last stop allows follow-ups, a weak answer
	// gets one more question instead of ending the interview.
	machine := category.NewMachineWithOrder([]category.Category{
		category.Start, category.Functionality, category.Complete,
	})
	p := NewPlanner(machine, policy.NewHeuristic(policy.DefaultMinWords))

	d := p.Plan(turnAt(category.Functionality, "just a few things"))
	assert.Equal(t, DirectiveFollowUp, d.Kind)
	assert.Equal(t, category.Functionality, d.Category)

	d = p.Plan(turnAt(category.Functionality, longClearAnswer))
	assert.Equal(t, DirectiveComplete, d.Kind)
}

func TestPlanThreadsGenerationMaterial(t *testing.T) {
	p := newTestPlanner()
	retrieved := &retrieval.Result{Chunks: []retrieval.RankedChunk{{Text: "Q: a\nA: b"}}}
	window := []entity.Message{{Role: entity.RoleAssistant, Content: "What problem does it solve?"}}

	tc := TurnContext{
		Session:      entity.Session{CurrentCategory: category.Users},
		LatestAnswer: "too short",
		Retrieved:    retrieved,
		Window:       window,
		QuestionCounts: map[category.Category]int{
			category.Users: 2,
		},
	}

	d := p.Plan(tc)
	assert.Equal(t, DirectiveFollowUp, d.Kind)
	assert.Same(t, retrieved, d.Retrieved)
	assert.Len(t, d.Window, 1)
	assert.Equal(t, "too short", d.LatestAnswer)
	assert.Equal(t, 2, d.AskedInCategory)
}

func TestIntroTemplateRotation(t *testing.T) {
	first := IntroTemplate(category.Users, 0)
	second := IntroTemplate(category.Users, 1)
	third := IntroTemplate(category.Users, 2)
	wrapped := IntroTemplate(category.Users, 3)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, second, third)
	assert.Equal(t, first, wrapped)
	assert.Equal(t, first, IntroTemplate(category.Users, -1))
}

func TestIntroTemplateUnknownCategory(t *testing.T) {
	text := IntroTemplate(category.Category("PRICING"), 0)
	assert.Contains(t, text, "PRICING")
}

func TestFallbackFollowUpCoversEveryPlannableCategory(t *testing.T) {
	for _, cat := range category.DefaultOrder() {
		if cat == category.Complete {
			continue
		}
		assert.NotEmpty(t, FallbackFollowUp(cat), "category %s", cat)
	}
	assert.Equal(t, genericFollowUps[0], FallbackFollowUp(category.Category("PRICING")))
}

func TestFirstQuestionIsStartOpener(t *testing.T) {
	assert.Equal(t, IntroTemplate(category.Start, 0), FirstQuestion())
	assert.Contains(t, FirstQuestion(), "What problem does your product solve?")
}
