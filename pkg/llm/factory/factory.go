package factory

import (
	"fmt"

	"ai-investigator-be/pkg/llm"
	"ai-investigator-be/pkg/llm/huggingface"
	"ai-investigator-be/pkg/llm/ollama"
	"ai-investigator-be/pkg/llm/openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// NewLLMProvider resolves a provider tag to a backend. "groq" is the
// OpenAI-compatible backend pointed at Groq's gateway; "huggingface"
// targets the HF inference router.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "openai":
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName), nil
	case "groq":
		if baseURL == "" {
			baseURL = groqBaseURL
		}
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
