package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-investigator-be/internal/entity"
	"ai-investigator-be/internal/repository/specification"
	"ai-investigator-be/internal/repository/unitofwork"
	"ai-investigator-be/pkg/database"
	"ai-investigator-be/pkg/interview/category"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.SessionArchiveRepository())
	assert.NotNil(t, uow.MessageArchiveRepository())
	assert.NotNil(t, uow.ContextChunkRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Session Archive Repository", func(t *testing.T) {
		count, err := uow.SessionArchiveRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Archived session count: %d", count)
	})

	t.Run("Check Message Archive Repository", func(t *testing.T) {
		count, err := uow.MessageArchiveRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Archived message count: %d", count)
	})

	t.Run("Check Transactional Session Save", func(t *testing.T) {
		ctx := context.Background()
		sessionId := uuid.New()
		now := time.Now()

		session := &entity.Session{
			Id:              sessionId,
			CurrentCategory: category.Functionality,
			Status:          entity.SessionStatusActive,
			Provider:        "ollama",
			ModelId:         "llama3",
			AnswerCount:     1,
			StartedAt:       now,
			LastUpdated:     now,
		}

		messages := []*entity.Message{
			{
				Id:        uuid.New(),
				SessionId: sessionId,
				Role:      entity.RoleSystem,
				Content:   "What product or service would you like to develop?",
				Metadata:  entity.MessageMetadata{Category: category.Start.String()},
				CreatedAt: now,
			},
			{
				Id:        uuid.New(),
				SessionId: sessionId,
				Role:      entity.RoleUser,
				Content:   "A task tracker for freelance designers",
				Metadata:  entity.MessageMetadata{Category: category.Start.String()},
				CreatedAt: now.Add(time.Second),
			},
		}

		// Transaction Test
		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		err = uow.SessionArchiveRepository().Upsert(ctx, session)
		assert.NoError(t, err)

		err = uow.MessageArchiveRepository().CreateBulk(ctx, messages)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// Read back outside the transaction
		readUow := uowFactory.NewUnitOfWork(ctx)

		stored, err := readUow.SessionArchiveRepository().FindOne(ctx, specification.ByID{ID: sessionId})
		assert.NoError(t, err)
		if assert.NotNil(t, stored) {
			assert.Equal(t, category.Functionality, stored.CurrentCategory)
			assert.Equal(t, "ollama", stored.Provider)
		}

		msgCount, err := readUow.MessageArchiveRepository().Count(ctx, specification.BySessionID{SessionID: sessionId})
		assert.NoError(t, err)
		assert.EqualValues(t, 2, msgCount)

		questionCount, err := readUow.MessageArchiveRepository().Count(ctx,
			specification.BySessionID{SessionID: sessionId},
			specification.ByRoles{Roles: []string{entity.RoleAssistant, entity.RoleSystem}},
		)
		assert.NoError(t, err)
		assert.EqualValues(t, 1, questionCount)

		// Cleanup
		assert.NoError(t, readUow.MessageArchiveRepository().DeleteBySessionId(ctx, sessionId))
		assert.NoError(t, readUow.SessionArchiveRepository().Delete(ctx, sessionId))

		t.Log("Successfully archived Session with Messages in Transaction")
	})
}
