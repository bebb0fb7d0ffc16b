package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"ai-investigator-be/internal/entity"
	"ai-investigator-be/internal/repository/contract"
)

type SessionStore struct {
	cache *cache.Cache
}

// NewSessionStore builds the in-process live-session store. Idle
// conversations expire after an hour; the cache sweeps every 10 minutes.
func NewSessionStore() contract.SessionStore {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionStore{
		cache: c,
	}
}

func (s *SessionStore) Put(ctx context.Context, conversation *entity.Conversation) error {
	s.cache.Set(conversation.Session.Id.String(), conversation, cache.DefaultExpiration)
	return nil
}

func (s *SessionStore) Get(ctx context.Context, sessionId uuid.UUID) (*entity.Conversation, bool, error) {
	if x, found := s.cache.Get(sessionId.String()); found {
		return x.(*entity.Conversation), true, nil
	}
	return nil, false, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionId uuid.UUID) error {
	s.cache.Delete(sessionId.String())
	return nil
}
