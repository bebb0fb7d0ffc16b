package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai-investigator-be/internal/dto"
	"ai-investigator-be/internal/entity"
	"ai-investigator-be/internal/pkg/logger"
	"ai-investigator-be/internal/repository/contract"
	"ai-investigator-be/internal/repository/specification"
	"ai-investigator-be/internal/repository/unitofwork"
	"ai-investigator-be/pkg/interview/events"
	"ai-investigator-be/pkg/retrieval"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type IArchiveService interface {
	Save(ctx context.Context, request *dto.SaveSessionRequest) (*dto.SaveSessionResponse, error)
	Load(ctx context.Context, sessionId uuid.UUID) (*dto.LoadSessionResponse, error)
	List(ctx context.Context, limit, offset int) (*dto.ListSessionsResponse, error)
	Delete(ctx context.Context, sessionId uuid.UUID) (*dto.DeleteSessionResponse, error)
	Transcript(ctx context.Context, sessionId uuid.UUID) (*dto.TranscriptResponse, error)
}

// archiveService moves interviews between the live session store and the
// durable rows, and renders saved interviews as shareable reports.
type archiveService struct {
	store          contract.SessionStore
	uowFactory     unitofwork.RepositoryFactory
	retriever      *retrieval.Retriever
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewArchiveService(
	store contract.SessionStore,
	uowFactory unitofwork.RepositoryFactory,
	retriever *retrieval.Retriever,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IArchiveService {
	return &archiveService{
		store:          store,
		uowFactory:     uowFactory,
		retriever:      retriever,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// Save archives the live conversation. Saving again replaces the previous
// rows, so edited answers overwrite their earlier archived form.
func (s *archiveService) Save(ctx context.Context, request *dto.SaveSessionRequest) (*dto.SaveSessionResponse, error) {
	conversation, found, err := s.store.Get(ctx, request.SessionId)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.SessionArchiveRepository().Upsert(ctx, conversation.Session); err != nil {
		return nil, err
	}
	if err := uow.MessageArchiveRepository().DeleteBySessionId(ctx, request.SessionId); err != nil {
		return nil, err
	}
	if err := uow.MessageArchiveRepository().CreateBulk(ctx, conversation.Messages); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("ArchiveService", "Session archived", map[string]interface{}{
		"session_id":    request.SessionId,
		"message_count": len(conversation.Messages),
	})

	return &dto.SaveSessionResponse{SessionId: request.SessionId}, nil
}

// Load restores an archived conversation into the live store so the
// interview can resume where it stopped.
func (s *archiveService) Load(ctx context.Context, sessionId uuid.UUID) (*dto.LoadSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionArchiveRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	messages, err := uow.MessageArchiveRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, &entity.Conversation{Session: session, Messages: messages}); err != nil {
		return nil, err
	}

	s.logger.Info("ArchiveService", "Session restored", map[string]interface{}{
		"session_id":    sessionId,
		"message_count": len(messages),
		"state":         session.CurrentCategory.String(),
	})

	return &dto.LoadSessionResponse{
		SessionId:    sessionId,
		MessageCount: len(messages),
		State:        session.CurrentCategory.String(),
	}, nil
}

// List returns archived session summaries, most recently touched first.
func (s *archiveService) List(ctx context.Context, limit, offset int) (*dto.ListSessionsResponse, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.SessionArchiveRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := uow.SessionArchiveRepository().FindAll(ctx,
		specification.OrderBy{Field: "last_updated", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SessionListItem, 0, len(sessions))
	for _, session := range sessions {
		messageCount, err := uow.MessageArchiveRepository().Count(ctx,
			specification.BySessionID{SessionID: session.Id},
		)
		if err != nil {
			return nil, err
		}
		questionCount, err := uow.MessageArchiveRepository().Count(ctx,
			specification.BySessionID{SessionID: session.Id},
			specification.ByRoles{Roles: []string{entity.RoleAssistant, entity.RoleSystem}},
		)
		if err != nil {
			return nil, err
		}

		items = append(items, dto.SessionListItem{
			Id:            session.Id,
			StartedAt:     session.StartedAt,
			LastUpdated:   session.LastUpdated,
			Status:        session.Status,
			State:         session.CurrentCategory.String(),
			QuestionCount: int(questionCount),
			MessageCount:  int(messageCount),
			Provider:      session.Provider,
			ModelId:       session.ModelId,
		})
	}

	return &dto.ListSessionsResponse{
		Sessions: items,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// Delete removes the archived rows, the live copy and the session's vector
// chunks. It succeeds when the session exists on either side.
func (s *archiveService) Delete(ctx context.Context, sessionId uuid.UUID) (*dto.DeleteSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionArchiveRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	_, foundLive, err := s.store.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil && !foundLive {
		return nil, ErrSessionNotFound
	}

	if session != nil {
		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()

		if err := uow.MessageArchiveRepository().DeleteBySessionId(ctx, sessionId); err != nil {
			return nil, err
		}
		if err := uow.SessionArchiveRepository().Delete(ctx, sessionId); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}
	}

	if foundLive {
		if err := s.store.Delete(ctx, sessionId); err != nil {
			return nil, err
		}
	}

	chunksRemoved, err := s.retriever.DeleteSession(ctx, sessionId)
	if err != nil {
		s.logger.Warn("ArchiveService", "Vector chunks not fully removed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}

	s.logger.Info("ArchiveService", "Session deleted", map[string]interface{}{
		"session_id":     sessionId,
		"chunks_removed": chunksRemoved,
	})
	s.eventPublisher.PublishSessionDeleted(ctx, sessionId)

	return &dto.DeleteSessionResponse{
		SessionId:     sessionId,
		ChunksRemoved: chunksRemoved,
	}, nil
}

// Transcript renders the interview as a markdown report. Archived rows are
// preferred; an unsaved session falls back to its live copy.
func (s *archiveService) Transcript(ctx context.Context, sessionId uuid.UUID) (*dto.TranscriptResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionArchiveRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}

	var messages []*entity.Message
	if session != nil {
		messages, err = uow.MessageArchiveRepository().FindAll(ctx,
			specification.BySessionID{SessionID: sessionId},
			specification.OrderBy{Field: "created_at", Desc: false},
		)
		if err != nil {
			return nil, err
		}
	} else {
		conversation, found, err := s.store.Get(ctx, sessionId)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, ErrSessionNotFound
		}
		session = conversation.Session
		messages = conversation.Messages
	}

	return &dto.TranscriptResponse{
		SessionId: sessionId,
		Markdown:  renderTranscript(session, messages),
	}, nil
}

func renderTranscript(session *entity.Session, messages []*entity.Message) string {
	var b strings.Builder

	b.WriteString("# Product Investigation Report\n\n")
	fmt.Fprintf(&b, "**Session ID:** `%s`  \n", session.Id)
	fmt.Fprintf(&b, "**Date:** %s  \n", session.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Duration:** %d minutes  \n", int(session.LastUpdated.Sub(session.StartedAt).Minutes()))
	fmt.Fprintf(&b, "**Report Generated:** %s UTC\n\n", time.Now().UTC().Format("2006-01-02 15:04:05"))
	b.WriteString("---\n\n## Conversation History\n\n")

	question := ""
	for _, m := range messages {
		if m.IsQuestion() {
			question = m.Content
			continue
		}
		fmt.Fprintf(&b, "### Q: %s\n\n**A:** %s\n\n", question, m.Content)
	}

	return b.String()
}
