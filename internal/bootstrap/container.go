package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-investigator-be/internal/config"
	"ai-investigator-be/internal/controller"
	"ai-investigator-be/internal/handler"
	"ai-investigator-be/internal/pkg/logger"
	"ai-investigator-be/internal/repository/chromem"
	"ai-investigator-be/internal/repository/contract"
	"ai-investigator-be/internal/repository/implementation"
	"ai-investigator-be/internal/repository/memory"
	redisrepo "ai-investigator-be/internal/repository/redis"
	"ai-investigator-be/internal/repository/unitofwork"
	"ai-investigator-be/internal/service"
	"ai-investigator-be/internal/websocket"
	"ai-investigator-be/pkg/embedding"
	"ai-investigator-be/pkg/embedding/jina"
	"ai-investigator-be/pkg/interview/category"
	"ai-investigator-be/pkg/interview/events"
	"ai-investigator-be/pkg/interview/planner"
	"ai-investigator-be/pkg/interview/policy"
	"ai-investigator-be/pkg/llm"
	"ai-investigator-be/pkg/llm/factory"

	pktNats "ai-investigator-be/pkg/nats"
	"ai-investigator-be/pkg/retrieval"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// turnTopic carries accepted-answer events from the interview service to
// the auto-save consumer over the in-process bus.
const turnTopic = "interview.turns"

type Container struct {
	// Controllers
	InterviewController controller.IInterviewController
	SessionController   controller.ISessionController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	InterviewSocketHandler *handler.InterviewSocketHandler
	WebSocketHub           *websocket.Hub

	// NATS connection, exposed so main.go can close it on shutdown. Nil
	// when NATS is not configured.
	NatsPublisher *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Redis (live session sharing and websocket fan-out; optional)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Sessions and live fan-out stay in-process", err)
			rdb = nil
		}
	}

	// 4. Live Session Store
	var store contract.SessionStore
	if cfg.Stores.SessionStore == "redis" && rdb != nil {
		store = redisrepo.NewSessionStore(rdb)
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		store = memory.NewSessionStore()
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	// 5. Vector Index
	var index contract.ContextChunkRepository
	switch cfg.Stores.VectorIndex {
	case "postgres":
		index = implementation.NewContextChunkRepository(db)
		log.Printf("[INFO] Using Vector Index: POSTGRES (pgvector)")
	case "chromem":
		chromemIndex, err := chromem.NewChunkIndex(cfg.Stores.ChromemPath)
		if err != nil {
			log.Printf("[WARN] Failed to open chromem index: %v. Falling back to memory", err)
			index = memory.NewChunkIndex()
		} else {
			index = chromemIndex
			log.Printf("[INFO] Using Vector Index: CHROMEM (%s)", cfg.Stores.ChromemPath)
		}
	default:
		index = memory.NewChunkIndex()
		log.Printf("[INFO] Using Vector Index: MEMORY")
	}

	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else if cfg.Ai.EmbeddingProvider == "openai" {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.OpenAIBaseURL, "")
		log.Printf("[INFO] Using Embedding Provider: OPENAI")
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	retriever := retrieval.NewRetriever(index, embeddingProvider, retrieval.Config{
		TopK:          cfg.Retrieval.TopK,
		MaxTokens:     cfg.Retrieval.MaxTokens,
		RecencyWeight: cfg.Retrieval.RecencyWeight,
		EmbedTimeout:  time.Duration(cfg.Retrieval.EmbedTimeoutSeconds) * time.Second,
	}, sysLogger)

	// 6. Interview Engine
	machine := category.NewMachine()
	followUpPolicy := policy.NewHeuristic(cfg.Interview.FollowUpMinWords)
	turnPlanner := planner.NewPlanner(machine, followUpPolicy)
	generator := planner.NewGenerator(planner.GeneratorConfig{
		Timeout: time.Duration(cfg.Ai.LLMTimeoutSeconds) * time.Second,
	}, sysLogger)

	// LLM factory, resolved per turn so sessions can pin their own provider
	llmFactory := func(providerType, modelName string) (llm.LLMProvider, error) {
		baseURL := cfg.Ai.OllamaBaseURL
		apiKey := cfg.Keys.OpenAI
		switch providerType {
		case "openai", "groq":
			baseURL = cfg.Ai.OpenAIBaseURL
		case "huggingface":
			baseURL = ""
			apiKey = cfg.Keys.HuggingFace
		}
		return factory.NewLLMProvider(providerType, modelName, baseURL, apiKey)
	}
	if _, err := llmFactory(cfg.Ai.LLMProvider, cfg.Ai.LLMModel); err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 7. NATS Domain Events
	var natsPub *pktNats.Publisher
	var eventPublisher events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v. Domain events disabled", err)
		} else {
			natsPub = pub
			eventPublisher = events.NewNatsPublisher(natsPub, sysLogger)
			log.Printf("[INFO] Domain events publishing to NATS (%s)", cfg.App.NatsURL)
		}
	} else {
		log.Printf("[INFO] NATS_URL not set; domain events disabled")
	}

	// 8. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/interview_live.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 9. Services
	publisherService := service.NewPublisherService(turnTopic, pubSub)

	interviewService := service.NewInterviewService(
		store,
		retriever,
		turnPlanner,
		generator,
		llmFactory,
		eventPublisher,
		publisherService,
		sysLogger,
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
	)

	archiveService := service.NewArchiveService(
		store,
		uowFactory,
		retriever,
		eventPublisher,
		sysLogger,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		turnTopic,
		archiveService,
		cfg.Interview.AutoSaveEvery,
	)

	socketHandler := handler.NewInterviewSocketHandler(interviewService, wsHub, wsLogger)

	// 10. Controllers
	return &Container{
		InterviewController: controller.NewInterviewController(interviewService),
		SessionController:   controller.NewSessionController(archiveService),

		ConsumerService: consumerService,

		InterviewSocketHandler: socketHandler,
		WebSocketHub:           wsHub,

		NatsPublisher: natsPub,
	}
}
