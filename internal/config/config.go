package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Stores    StoreConfig
	Interview InterviewConfig
	Retrieval RetrievalConfig
	Ai        AIConfig
	Keys      APIKeys
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

// StoreConfig selects the backing implementations behind the session
// store and vector index interfaces.
type StoreConfig struct {
	SessionStore string // "memory" or "redis"
	VectorIndex  string // "memory", "chromem" or "postgres"
	ChromemPath  string
}

type InterviewConfig struct {
	FollowUpMinWords int
	AutoSaveEvery    int
}

type RetrievalConfig struct {
	TopK                int
	MaxTokens           int
	RecencyWeight       float64
	EmbedTimeoutSeconds int
}

type AIConfig struct {
	EmbeddingProvider string // "ollama", "gemini", "openai" or "jina"
	OllamaBaseURL     string
	OllamaEmbedModel  string
	LLMProvider       string // "ollama", "openai", "groq" or "huggingface"
	LLMModel          string // e.g. "llama3", "gpt-4o-mini"
	LLMTimeoutSeconds int
	OpenAIBaseURL     string
}

type APIKeys struct {
	GoogleGemini string
	OpenAI       string
	Jina         string
	HuggingFace  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Stores: StoreConfig{
			SessionStore: getEnv("SESSION_STORE", "memory"),
			VectorIndex:  getEnv("VECTOR_INDEX", "memory"),
			ChromemPath:  getEnv("CHROMEM_PATH", "./data/chromem"),
		},
		Interview: InterviewConfig{
			FollowUpMinWords: getEnvAsInt("FOLLOWUP_MIN_WORDS", 10),
			AutoSaveEvery:    getEnvAsInt("AUTOSAVE_EVERY", 5),
		},
		Retrieval: RetrievalConfig{
			TopK:                getEnvAsInt("RETRIEVAL_TOP_K", 5),
			MaxTokens:           getEnvAsInt("RETRIEVAL_MAX_TOKENS", 2000),
			RecencyWeight:       getEnvAsFloat("RETRIEVAL_RECENCY_WEIGHT", 0.3),
			EmbedTimeoutSeconds: getEnvAsInt("EMBEDDING_TIMEOUT_SECONDS", 30),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			LLMTimeoutSeconds: getEnvAsInt("LLM_TIMEOUT_SECONDS", 60),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
