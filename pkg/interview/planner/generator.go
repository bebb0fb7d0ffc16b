package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai-investigator-be/internal/pkg/logger"
	"ai-investigator-be/pkg/interview/category"
	"ai-investigator-be/pkg/llm"
	"ai-investigator-be/pkg/utils"
)

// ErrGenerationFailed marks a text-completion failure. It is always
// recovered: the renderer substitutes a deterministic template and the
// turn completes.
var ErrGenerationFailed = errors.New("question generation failed")

const (
	defaultTemperature = 0.7
	defaultGenTimeout  = 45 * time.Second
	promptWindowLimit  = 8
	promptContextLimit = 3
)

const followUpSystemPrompt = `You are an expert product investigator conducting a discovery interview.
Your goal is to deeply understand the user's product idea through thoughtful questions.

Generate a concise follow-up question that:
1. Digs deeper into their latest answer
2. Helps clarify vague or incomplete information
3. Reveals important details about their product
4. Is specific and actionable
5. Is friendly and conversational

Keep the question under 20 words. Do not include any preamble or explanation.`

// Question is one rendered interview question.
type Question struct {
	Id         uuid.UUID
	Text       string
	Category   category.Category
	IsFollowUp bool
	CreatedAt  time.Time
}

type GeneratorConfig struct {
	Temperature float64
	Timeout     time.Duration
}

// Generator turns directives into question text. Category intros come
// straight from the template bank; follow-ups go through the LLM with a
// template fallback, so rendering always yields a question.
type Generator struct {
	cfg GeneratorConfig
	log logger.ILogger
	now func() time.Time
}

func NewGenerator(cfg GeneratorConfig, log logger.ILogger) *Generator {
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultGenTimeout
	}
	return &Generator{cfg: cfg, log: log, now: time.Now}
}

// Initial returns the opener every interview starts with.
func (g *Generator) Initial() *Question {
	return &Question{
		Id:        uuid.New(),
		Text:      FirstQuestion(),
		Category:  category.Start,
		CreatedAt: g.now(),
	}
}

// Render produces the question for a directive. A DirectiveComplete
// yields (nil, nil). A non-nil error always wraps ErrGenerationFailed
// and is recovered: the returned question carries the fallback text.
func (g *Generator) Render(ctx context.Context, provider llm.LLMProvider, d Directive) (*Question, error) {
	switch d.Kind {
	case DirectiveComplete:
		return nil, nil
	case DirectiveAdvance:
		return &Question{
			Id:        uuid.New(),
			Text:      IntroTemplate(d.Category, d.AskedInCategory),
			Category:  d.Category,
			CreatedAt: g.now(),
		}, nil
	case DirectiveFollowUp:
		return g.renderFollowUp(ctx, provider, d)
	}
	return nil, fmt.Errorf("%w: unknown directive kind %d", ErrGenerationFailed, d.Kind)
}

func (g *Generator) renderFollowUp(ctx context.Context, provider llm.LLMProvider, d Directive) (*Question, error) {
	question := &Question{
		Id:         uuid.New(),
		Category:   d.Category,
		IsFollowUp: true,
		CreatedAt:  g.now(),
	}

	if provider == nil {
		question.Text = FallbackFollowUp(d.Category)
		return question, fmt.Errorf("%w: no text-completion provider configured", ErrGenerationFailed)
	}

	genCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	text, err := provider.Chat(genCtx, []llm.Message{
		{Role: "system", Content: followUpSystemPrompt},
		{Role: "user", Content: buildFollowUpUserPrompt(d)},
	}, llm.WithTemperature(g.cfg.Temperature))
	if err != nil {
		g.log.Warn("planner", "follow-up generation failed, using template", map[string]interface{}{
			"category": d.Category.String(),
			"error":    err.Error(),
		})
		question.Text = FallbackFollowUp(d.Category)
		return question, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		question.Text = FallbackFollowUp(d.Category)
		return question, fmt.Errorf("%w: provider returned empty text", ErrGenerationFailed)
	}

	question.Text = utils.EnsureQuestionMark(text)
	return question, nil
}

func buildFollowUpUserPrompt(d Directive) string {
	var history strings.Builder
	window := d.Window
	if len(window) > promptWindowLimit {
		window = window[len(window)-promptWindowLimit:]
	}
	for i, msg := range window {
		if i > 0 {
			history.WriteString("\n")
		}
		if msg.IsQuestion() {
			history.WriteString("Q: ")
		} else {
			history.WriteString("A: ")
		}
		history.WriteString(msg.Content)
	}

	contextSection := ""
	if texts := retrievedTexts(d); len(texts) > 0 {
		contextSection = fmt.Sprintf("\nPrevious context:\n%s\n", strings.Join(texts, "\n\n"))
	}

	return fmt.Sprintf(`Current investigation category: %s

Recent conversation:
%s

User's latest answer (needs clarification): %s
%s
Generate a follow-up question to better understand their product.`,
		d.Category, history.String(), d.LatestAnswer, contextSection)
}

// retrievedTexts keeps the best-ranked chunks; the result arrives sorted
// by score descending.
func retrievedTexts(d Directive) []string {
	if d.Retrieved.IsEmpty() {
		return nil
	}
	texts := d.Retrieved.Texts()
	if len(texts) > promptContextLimit {
		texts = texts[:promptContextLimit]
	}
	return texts
}
