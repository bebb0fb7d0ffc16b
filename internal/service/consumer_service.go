package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-investigator-be/internal/dto"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains turn events and archives a session every
// autoSaveEvery accepted answers, so a crashed process loses at most a few
// turns of an unsaved interview.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	archiveService IArchiveService
	autoSaveEvery  int
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	archiveService IArchiveService,
	autoSaveEvery int,
) IConsumerService {
	if autoSaveEvery <= 0 {
		autoSaveEvery = 5
	}
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		archiveService: archiveService,
		autoSaveEvery:  autoSaveEvery,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.TurnRecordedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal turn message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if payload.AnswerCount%cs.autoSaveEvery != 0 {
		msg.Ack()
		return
	}

	_, err := cs.archiveService.Save(ctx, &dto.SaveSessionRequest{SessionId: payload.SessionId})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			log.Printf("[WARN] Session %s gone before auto-save", payload.SessionId)
			msg.Ack() // Session deleted? Ack.
			return
		}
		log.Printf("[ERROR] Auto-save failed for session %s: %v", payload.SessionId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	log.Printf("[INFO] Session %s auto-saved at %d answers", payload.SessionId, payload.AnswerCount)
	msg.Ack()
}
