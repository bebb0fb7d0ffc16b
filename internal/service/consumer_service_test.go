package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-investigator-be/internal/dto"
)

type stubArchive struct {
	mu    sync.Mutex
	saved []uuid.UUID
}

func (s *stubArchive) Save(_ context.Context, request *dto.SaveSessionRequest) (*dto.SaveSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, request.SessionId)
	return &dto.SaveSessionResponse{SessionId: request.SessionId}, nil
}

func (s *stubArchive) Load(context.Context, uuid.UUID) (*dto.LoadSessionResponse, error) {
	return nil, nil
}

func (s *stubArchive) List(context.Context, int, int) (*dto.ListSessionsResponse, error) {
	return nil, nil
}

func (s *stubArchive) Delete(context.Context, uuid.UUID) (*dto.DeleteSessionResponse, error) {
	return nil, nil
}

func (s *stubArchive) Transcript(context.Context, uuid.UUID) (*dto.TranscriptResponse, error) {
	return nil, nil
}

func (s *stubArchive) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func TestConsumerSavesOnThresholdMultiples(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	defer pubSub.Close()

	archive := &stubArchive{}
	consumer := NewConsumerService(pubSub, "interview.turns", archive, 5)
	require.NoError(t, consumer.Consume(context.Background()))

	sessionId := uuid.New()
	publish := func(answerCount int) {
		payload, err := json.Marshal(dto.TurnRecordedMessage{SessionId: sessionId, AnswerCount: answerCount})
		require.NoError(t, err)
		require.NoError(t, pubSub.Publish("interview.turns", message.NewMessage(watermill.NewUUID(), payload)))
	}

	publish(4)
	publish(5)
	publish(6)
	publish(10)

	require.Eventually(t, func() bool {
		return archive.saveCount() == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, archive.saveCount())
}

func TestConsumerIgnoresMalformedPayloads(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	defer pubSub.Close()

	archive := &stubArchive{}
	consumer := NewConsumerService(pubSub, "interview.turns", archive, 5)
	require.NoError(t, consumer.Consume(context.Background()))

	require.NoError(t, pubSub.Publish("interview.turns", message.NewMessage(watermill.NewUUID(), []byte("not json"))))

	payload, err := json.Marshal(dto.TurnRecordedMessage{SessionId: uuid.New(), AnswerCount: 5})
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish("interview.turns", message.NewMessage(watermill.NewUUID(), payload)))

	require.Eventually(t, func() bool {
		return archive.saveCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
