package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-investigator-be/internal/entity"
	"ai-investigator-be/pkg/interview/category"
	"ai-investigator-be/pkg/llm"
	"ai-investigator-be/pkg/retrieval"
)

type stubLLM struct {
	reply       string
	err         error
	called      bool
	lastHistory []llm.Message
	lastOptions llm.Options
}

func (s *stubLLM) Chat(_ context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.called = true
	s.lastHistory = history
	for _, opt := range options {
		opt(&s.lastOptions)
	}
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func followUpDirective() Directive {
	return Directive{
		Kind:         DirectiveFollowUp,
		Category:     category.Design,
		LatestAnswer: "something minimal I guess",
		Window: []entity.Message{
			{Role: entity.RoleAssistant, Content: "Do you have specific design preferences (modern, minimal, bold, playful)?"},
			{Role: entity.RoleUser, Content: "something minimal I guess"},
		},
		Retrieved: &retrieval.Result{Chunks: []retrieval.RankedChunk{
			{Text: "Q: What problem does your product solve?\nA: Managing sprints for remote teams"},
		}},
	}
}

func TestRenderCompleteYieldsNoQuestion(t *testing.T) {
	g := NewGenerator(GeneratorConfig{}, nopLog{})

	q, err := g.Render(context.Background(), &stubLLM{}, Directive{Kind: DirectiveComplete})

	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestRenderAdvanceUsesTemplateWithoutLLM(t *testing.T) {
	g := NewGenerator(GeneratorConfig{}, nopLog{})
	provider := &stubLLM{err: errors.New("must not be called")}

	q, err := g.Render(context.Background(), provider, Directive{
		Kind:     DirectiveAdvance,
		Category: category.Users,
	})

	require.NoError(t, err)
	require.NotNil(t, q)
	assert.False(t, provider.called)
	assert.False(t, q.IsFollowUp)
	assert.Equal(t, category.Users, q.Category)
	assert.Equal(t, IntroTemplate(category.Users, 0), q.Text)
	assert.NotEqual(t, "", q.Id.String())
}

func TestRenderAdvanceRotatesIntroTemplates(t *testing.T) {
	g := NewGenerator(GeneratorConfig{}, nopLog{})

	q, err := g.Render(context.Background(), nil, Directive{
		Kind:            DirectiveAdvance,
		Category:        category.Users,
		AskedInCategory: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, IntroTemplate(category.Users, 1), q.Text)
}

func TestRenderFollowUpBuildsPrompt(t *testing.T) {
	g := NewGenerator(GeneratorConfig{Temperature: 0.7}, nopLog{})
	provider := &stubLLM{reply: "Which screens should feel minimal first?"}

	q, err := g.Render(context.Background(), provider, followUpDirective())

	require.NoError(t, err)
	require.NotNil(t, q)
	assert.True(t, q.IsFollowUp)
	assert.Equal(t, "Which screens should feel minimal first?", q.Text)

	require.Len(t, provider.lastHistory, 2)
	assert.Equal(t, "system", provider.lastHistory[0].Role)
	assert.Contains(t, provider.lastHistory[0].Content, "product investigator")

	userPrompt := provider.lastHistory[1].Content
	assert.Contains(t, userPrompt, "Current investigation category: DESIGN")
	assert.Contains(t, userPrompt, "Q: Do you have specific design preferences")
	assert.Contains(t, userPrompt, "A: something minimal I guess")
	assert.Contains(t, userPrompt, "Previous context:")
	assert.Contains(t, userPrompt, "Managing sprints for remote teams")
	assert.InDelta(t, 0.7, provider.lastOptions.Temperature, 1e-9)
}

func TestRenderFollowUpAppendsQuestionMark(t *testing.T) {
	g := NewGenerator(GeneratorConfig{}, nopLog{})
	provider := &stubLLM{reply: "  Tell me which feature matters most  "}

	q, err := g.Render(context.Background(), provider, followUpDirective())

	require.NoError(t, err)
	assert.Equal(t, "Tell me which feature matters most?", q.Text)
}

func TestRenderFollowUpFallsBackOnProviderError(t *testing.T) {
	g := NewGenerator(GeneratorConfig{}, nopLog{})
	provider := &stubLLM{err: errors.New("model unavailable")}

	q, err := g.Render(context.Background(), provider, followUpDirective())

	require.ErrorIs(t, err, ErrGenerationFailed)
	require.NotNil(t, q)
	assert.True(t, q.IsFollowUp)
	assert.Equal(t, FallbackFollowUp(category.Design), q.Text)
}

func TestRenderFollowUpFallsBackOnEmptyReply(t *testing.T) {
	g := NewGenerator(GeneratorConfig{}, nopLog{})
	provider := &stubLLM{reply: "   "}

	q, err := g.Render(context.Background(), provider, followUpDirective())

	require.ErrorIs(t, err, ErrGenerationFailed)
	require.NotNil(t, q)
	assert.Equal(t, FallbackFollowUp(category.Design), q.Text)
}

func TestRenderFollowUpWithoutProviderStillYieldsQuestion(t *testing.T) {
	g := NewGenerator(GeneratorConfig{}, nopLog{})

	q, err := g.Render(context.Background(), nil, followUpDirective())

	require.ErrorIs(t, err, ErrGenerationFailed)
	require.NotNil(t, q)
	assert.Equal(t, FallbackFollowUp(category.Design), q.Text)
}

func TestInitialQuestionOpensWithStart(t *testing.T) {
	g := NewGenerator(GeneratorConfig{}, nopLog{})

	q := g.Initial()

	assert.Equal(t, category.Start, q.Category)
	assert.False(t, q.IsFollowUp)
	assert.Equal(t, FirstQuestion(), q.Text)
}

type nopLog struct{}

func (nopLog) Debug(string, string, map[string]interface{}) {}
func (nopLog) Info(string, string, map[string]interface{})  {}
func (nopLog) Warn(string, string, map[string]interface{})  {}
func (nopLog) Error(string, string, map[string]interface{}) {}
func (nopLog) Sync() error                                  { return nil }
