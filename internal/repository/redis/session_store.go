package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"ai-investigator-be/internal/entity"
	"ai-investigator-be/internal/repository/contract"
)

const sessionTTL = 1 * time.Hour

// SessionStore keeps live conversations in redis so multiple instances can
// serve the same session. Values are JSON with a sliding TTL.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) contract.SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(id uuid.UUID) string {
	return fmt.Sprintf("interview:session:%s", id)
}

func (s *SessionStore) Put(ctx context.Context, conversation *entity.Conversation) error {
	payload, err := json.Marshal(conversation)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	return s.client.Set(ctx, sessionKey(conversation.Session.Id), payload, sessionTTL).Err()
}

func (s *SessionStore) Get(ctx context.Context, sessionId uuid.UUID) (*entity.Conversation, bool, error) {
	payload, err := s.client.Get(ctx, sessionKey(sessionId)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var conversation entity.Conversation
	if err := json.Unmarshal(payload, &conversation); err != nil {
		return nil, false, fmt.Errorf("unmarshal conversation: %w", err)
	}

	// Refresh the TTL so active interviews do not expire mid-flight.
	s.client.Expire(ctx, sessionKey(sessionId), sessionTTL)
	return &conversation, true, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionId uuid.UUID) error {
	return s.client.Del(ctx, sessionKey(sessionId)).Err()
}
