package main

import (
	"log"
	"os"

	"ai-investigator-be/internal/model"
	"ai-investigator-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models (The Core Task)
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Session{},
		&model.Message{},
		&model.ContextChunk{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Indexes & Views
	log.Println("Step 3: Creating Vector Index and Views...")

	postMigrationSQL := []string{
		// ANN index for pgvector cosine search. Built after AutoMigrate so
		// the column exists; lists=100 suits up to ~1M chunks.
		`CREATE INDEX IF NOT EXISTS idx_context_chunks_embedding
		 ON context_chunks USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);`,

		// View: session_transcripts (ordered conversation per archived session)
		`CREATE OR REPLACE VIEW session_transcripts AS
		 SELECT s.id AS session_id, s.status, s.current_category, s.answer_count,
		        m.role, m.content, m.metadata, m.created_at
		 FROM sessions s JOIN messages m ON s.id = m.session_id
		 ORDER BY s.id, m.created_at;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
