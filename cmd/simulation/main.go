package main

// Drives a complete scripted interview against the in-process engine. No
// HTTP server or database required: retrieval and generation degrade to
// canned questions when no model backend is reachable, so the walk always
// runs to completion.

import (
	"context"
	"fmt"
	"log"
	"time"

	"ai-investigator-be/internal/config"
	"ai-investigator-be/internal/dto"
	"ai-investigator-be/internal/pkg/logger"
	"ai-investigator-be/internal/repository/memory"
	"ai-investigator-be/internal/service"
	"ai-investigator-be/pkg/embedding"
	"ai-investigator-be/pkg/interview/category"
	"ai-investigator-be/pkg/interview/events"
	"ai-investigator-be/pkg/interview/planner"
	"ai-investigator-be/pkg/interview/policy"
	"ai-investigator-be/pkg/llm"
	"ai-investigator-be/pkg/llm/factory"
	"ai-investigator-be/pkg/retrieval"
)

var scriptedAnswers = []string{
	"A scheduling assistant that books meetings across time zones for distributed teams",
	"It needs calendar sync, smart conflict resolution and automatic agenda notes shared with every attendee",
	"Remote-first engineering teams and the project managers who coordinate them across continents",
	"Mostly 25 to 45 year old professionals at software companies with ten to five hundred employees",
	"Clean minimal interface with dark mode, keyboard driven, and the calendar view always front and center",
	"Competing with Calendly and Reclaim, differentiating on team-level coordination instead of single-owner booking links",
	"Web app plus calendar provider integrations, real-time sync, and strict privacy for calendar contents",
	"The must-have for launch is flawless two-way Google Calendar sync, everything else can follow later",
}

func main() {
	fmt.Println("=== Interview Engine Simulation ===")

	cfg := config.Load()
	sysLogger := logger.NewZapLogger("logs/simulation.log", false)
	defer sysLogger.Sync()

	store := memory.NewSessionStore()
	index := memory.NewChunkIndex()
	embedder := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
	retriever := retrieval.NewRetriever(index, embedder, retrieval.DefaultConfig(), sysLogger)

	machine := category.NewMachine()
	followUps := policy.NewHeuristic(cfg.Interview.FollowUpMinWords)
	turnPlanner := planner.NewPlanner(machine, followUps)
	generator := planner.NewGenerator(planner.GeneratorConfig{Timeout: 30 * time.Second}, sysLogger)

	llmFactory := func(providerType, modelName string) (llm.LLMProvider, error) {
		return factory.NewLLMProvider(providerType, modelName, cfg.Ai.OllamaBaseURL, cfg.Keys.OpenAI)
	}

	svc := service.NewInterviewService(
		store,
		retriever,
		turnPlanner,
		generator,
		llmFactory,
		events.NopPublisher{},
		nil, // no auto-save bus in the simulation
		sysLogger,
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
	)

	ctx := context.Background()
	started, err := svc.StartInvestigation(ctx, &dto.StartInvestigationRequest{})
	if err != nil {
		log.Fatalf("Failed to start investigation: %v", err)
	}
	fmt.Printf("Session: %s\n", started.SessionId)
	fmt.Printf("\nQ [%s]: %s\n", started.Question.Category, started.Question.Text)

	for i, answer := range scriptedAnswers {
		fmt.Printf("A: %s\n", answer)

		start := time.Now()
		res, err := svc.ProcessAnswer(ctx, &dto.MessageRequest{
			SessionId: started.SessionId,
			Message:   answer,
		})
		elapsed := time.Since(start)

		if err != nil {
			log.Fatalf("Turn %d failed: %v", i+1, err)
		}
		if res.Complete {
			fmt.Printf("\n(%v) Interview complete after %d answers\n", elapsed, i+1)
			break
		}

		label := res.Question.Category
		if res.Question.IsFollowUp {
			label += ", follow-up"
		}
		fmt.Printf("\nQ [%s] (%v): %s\n", label, elapsed, res.Question.Text)
	}

	status, err := svc.GetStatus(ctx, started.SessionId)
	if err != nil {
		log.Fatalf("Failed to read status: %v", err)
	}
	fmt.Printf("\nFinal state: %s | answers: %d | messages: %d\n", status.State, status.AnswerCount, status.MessageCount)
	if status.Coverage != nil {
		fmt.Printf("Coverage: %d/%d categories (%.0f%%)\n",
			status.Coverage.CoveredCategories, status.Coverage.TotalCategories, status.Coverage.CoveragePercentage)
	}
}
