package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ai-investigator-be/internal/pkg/logger"
	pkgEvents "ai-investigator-be/pkg/events"
	pkgNats "ai-investigator-be/pkg/nats"
)

// Publisher abstracts event publishing for interview operations
type Publisher interface {
	PublishSessionStarted(ctx context.Context, sessionId uuid.UUID, provider, modelId string)
	PublishTurnRecorded(ctx context.Context, sessionId uuid.UUID, category string, isFollowUp bool, answerCount int)
	PublishSessionCompleted(ctx context.Context, sessionId uuid.UUID, answerCount int, skippedCategories []string)
	PublishSessionDeleted(ctx context.Context, sessionId uuid.UUID)
	PublishAnswerEdited(ctx context.Context, sessionId, messageId uuid.UUID)
}

// NatsPublisher implements Publisher using NATS
type NatsPublisher struct {
	publisher *pkgNats.Publisher
	logger    logger.ILogger
}

// NewNatsPublisher creates a new NATS-based event publisher
func NewNatsPublisher(publisher *pkgNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishSessionStarted emits SESSION_STARTED when an interview begins
func (p *NatsPublisher) PublishSessionStarted(ctx context.Context, sessionId uuid.UUID, provider, modelId string) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: pkgEvents.TypeSessionStarted,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"provider":   provider,
			"model_id":   modelId,
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("INTERVIEW", "Failed to publish SESSION_STARTED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishTurnRecorded emits TURN_RECORDED after every committed answer
func (p *NatsPublisher) PublishTurnRecorded(ctx context.Context, sessionId uuid.UUID, category string, isFollowUp bool, answerCount int) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: pkgEvents.TypeTurnRecorded,
		Data: map[string]interface{}{
			"session_id":   sessionId,
			"category":     category,
			"is_follow_up": isFollowUp,
			"answer_count": answerCount,
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("INTERVIEW", "Failed to publish TURN_RECORDED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishSessionCompleted emits SESSION_COMPLETED when the interview ends
func (p *NatsPublisher) PublishSessionCompleted(ctx context.Context, sessionId uuid.UUID, answerCount int, skippedCategories []string) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: pkgEvents.TypeSessionCompleted,
		Data: map[string]interface{}{
			"session_id":         sessionId,
			"answer_count":       answerCount,
			"skipped_categories": skippedCategories,
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("INTERVIEW", "Failed to publish SESSION_COMPLETED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishSessionDeleted emits SESSION_DELETED when a session and its chunks are removed
func (p *NatsPublisher) PublishSessionDeleted(ctx context.Context, sessionId uuid.UUID) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: pkgEvents.TypeSessionDeleted,
		Data: map[string]interface{}{
			"session_id": sessionId,
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("INTERVIEW", "Failed to publish SESSION_DELETED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishAnswerEdited emits ANSWER_EDITED when a prior answer is rewritten
func (p *NatsPublisher) PublishAnswerEdited(ctx context.Context, sessionId, messageId uuid.UUID) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: pkgEvents.TypeAnswerEdited,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"message_id": messageId,
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("INTERVIEW", "Failed to publish ANSWER_EDITED event", map[string]interface{}{"error": err.Error()})
	}
}

// NopPublisher is used when NATS is not configured; every publish is a no-op.
type NopPublisher struct{}

func (NopPublisher) PublishSessionStarted(context.Context, uuid.UUID, string, string)  {}
func (NopPublisher) PublishTurnRecorded(context.Context, uuid.UUID, string, bool, int) {}
func (NopPublisher) PublishSessionCompleted(context.Context, uuid.UUID, int, []string) {}
func (NopPublisher) PublishSessionDeleted(context.Context, uuid.UUID)                  {}
func (NopPublisher) PublishAnswerEdited(context.Context, uuid.UUID, uuid.UUID)         {}
