package llm

import (
	"context"
)

// Message is one chat turn in a provider-agnostic shape. Role is "user",
// "assistant" or "system"; provider implementations translate to their
// wire format (including vendor aliases like Ollama's "model" role).
type Message struct {
	Role    string
	Content string
}

// Option tunes a single call. Unset fields keep the provider's defaults.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider is the text-completion seam the question generator renders
// follow-ups through. Implementations must honor ctx cancellation; callers
// treat any error as recoverable and substitute a template question.
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response text.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single user prompt (convenience over Chat).
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
