package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ai-investigator-be/internal/dto"
	"ai-investigator-be/internal/entity"
	"ai-investigator-be/internal/pkg/logger"
	"ai-investigator-be/internal/repository/contract"
	"ai-investigator-be/pkg/interview/category"
	"ai-investigator-be/pkg/interview/events"
	"ai-investigator-be/pkg/interview/planner"
	"ai-investigator-be/pkg/llm"
	"ai-investigator-be/pkg/retrieval"
)

// recentWindowSize is how much history each planning decision sees.
const recentWindowSize = 8

// LLMFactory resolves a provider tag and model name to a text-completion
// backend. Resolved per turn so each session can pin its own provider.
type LLMFactory func(providerType, modelName string) (llm.LLMProvider, error)

type IInterviewService interface {
	StartInvestigation(ctx context.Context, request *dto.StartInvestigationRequest) (*dto.StartInvestigationResponse, error)
	ProcessAnswer(ctx context.Context, request *dto.MessageRequest) (*dto.MessageResponse, error)
	SkipQuestion(ctx context.Context, request *dto.SkipQuestionRequest) (*dto.MessageResponse, error)
	EditAnswer(ctx context.Context, request *dto.EditAnswerRequest) (*dto.EditAnswerResponse, error)
	GetHistory(ctx context.Context, sessionId uuid.UUID) (*dto.HistoryResponse, error)
	GetStatus(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStatusResponse, error)
}

// interviewService orchestrates the guided interview. Every mutating call
// runs as one serialized turn per session: it clones the stored
// conversation, mutates the clone and commits it with a single put, so a
// failed turn leaves the stored state untouched.
type interviewService struct {
	store            contract.SessionStore
	retriever        *retrieval.Retriever
	turnPlanner      *planner.Planner
	generator        *planner.Generator
	llmFactory       LLMFactory
	eventPublisher   events.Publisher
	publisherService IPublisherService
	logger           logger.ILogger

	defaultProvider string
	defaultModel    string

	// mu guards locks; entries live as long as their session is actively
	// answered and are dropped on completion.
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewInterviewService(
	store contract.SessionStore,
	retriever *retrieval.Retriever,
	turnPlanner *planner.Planner,
	generator *planner.Generator,
	llmFactory LLMFactory,
	eventPublisher events.Publisher,
	publisherService IPublisherService,
	log logger.ILogger,
	defaultProvider string,
	defaultModel string,
) IInterviewService {
	return &interviewService{
		store:            store,
		retriever:        retriever,
		turnPlanner:      turnPlanner,
		generator:        generator,
		llmFactory:       llmFactory,
		eventPublisher:   eventPublisher,
		publisherService: publisherService,
		logger:           log,
		defaultProvider:  defaultProvider,
		defaultModel:     defaultModel,
		locks:            make(map[uuid.UUID]*sync.Mutex),
	}
}

// StartInvestigation creates a session in the opening category and seeds
// the conversation with the fixed first question.
func (s *interviewService) StartInvestigation(ctx context.Context, request *dto.StartInvestigationRequest) (*dto.StartInvestigationResponse, error) {
	now := time.Now()

	session := &entity.Session{
		Id:                 uuid.New(),
		CurrentCategory:    s.turnPlanner.Machine().First(),
		Status:             entity.SessionStatusActive,
		SkippedCategoryIds: []string{},
		Provider:           request.Provider,
		ModelId:            request.ModelId,
		StartedAt:          now,
		LastUpdated:        now,
	}

	question := s.generator.Initial()
	conversation := &entity.Conversation{
		Session:  session,
		Messages: []*entity.Message{questionMessage(session.Id, question, entity.RoleSystem, now)},
	}

	if err := s.store.Put(ctx, conversation); err != nil {
		return nil, err
	}

	s.logger.Info("InterviewService", "Investigation started", map[string]interface{}{
		"session_id": session.Id,
		"provider":   request.Provider,
		"model_id":   request.ModelId,
	})
	s.eventPublisher.PublishSessionStarted(ctx, session.Id, request.Provider, request.ModelId)

	return &dto.StartInvestigationResponse{
		SessionId: session.Id,
		Question:  toQuestionResponse(question),
	}, nil
}

// ProcessAnswer records one answer and produces the next question. A nil
// question with Complete=true means the interview just finished.
func (s *interviewService) ProcessAnswer(ctx context.Context, request *dto.MessageRequest) (*dto.MessageResponse, error) {
	answer := strings.TrimSpace(request.Message)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	unlock := s.lockSession(request.SessionId)
	defer unlock()

	stored, found, err := s.store.Get(ctx, request.SessionId)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	if stored.Session.IsComplete() {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	conversation := stored.Clone()
	lastQuestion := conversation.LastQuestion()

	conversation.Messages = append(conversation.Messages, &entity.Message{
		Id:        uuid.New(),
		SessionId: request.SessionId,
		Role:      entity.RoleUser,
		Content:   answer,
		Metadata:  entity.MessageMetadata{Category: conversation.Session.CurrentCategory.String()},
		CreatedAt: now,
	})
	conversation.Session.AnswerCount++
	conversation.Session.LastUpdated = now

	// Index the turn and fetch context for generation. Both paths degrade
	// to an unaugmented turn when the vector side is down.
	if lastQuestion != nil {
		tags := map[string]string{"category": lastQuestion.Metadata.Category}
		if _, err := s.retriever.Persist(ctx, request.SessionId, lastQuestion.Content, answer, tags); err != nil {
			s.logger.Warn("InterviewService", "Interaction not indexed", map[string]interface{}{
				"session_id": request.SessionId,
				"error":      err.Error(),
			})
		}
	}
	retrieved, err := s.retriever.Retrieve(ctx, answer, request.SessionId, nil)
	if err != nil {
		s.logger.Warn("InterviewService", "Context retrieval degraded", map[string]interface{}{
			"session_id": request.SessionId,
			"error":      err.Error(),
		})
	}

	directive := s.turnPlanner.Plan(planner.NewTurnContext(
		*conversation.Session,
		answer,
		retrieved,
		messageValues(conversation.RecentWindow(recentWindowSize)),
		questionCounts(conversation),
	))

	if directive.IsTerminal() {
		return s.completeInterview(ctx, conversation)
	}

	if directive.Kind == planner.DirectiveAdvance {
		conversation.Session.CurrentCategory = directive.Category
	}

	question, genErr := s.generator.Render(ctx, s.resolveProvider(conversation.Session), directive)
	if genErr != nil {
		s.logger.Warn("InterviewService", "Question generation fell back to template", map[string]interface{}{
			"session_id": request.SessionId,
			"category":   directive.Category.String(),
			"error":      genErr.Error(),
		})
	}

	conversation.Messages = append(conversation.Messages, questionMessage(request.SessionId, question, entity.RoleAssistant, now))

	if err := s.store.Put(ctx, conversation); err != nil {
		return nil, err
	}

	s.eventPublisher.PublishTurnRecorded(ctx, request.SessionId, directive.Category.String(), directive.IsFollowUp(), conversation.Session.AnswerCount)
	s.publishAutoSaveTrigger(ctx, conversation)

	return &dto.MessageResponse{Question: toQuestionResponse(question)}, nil
}

// SkipQuestion advances exactly one category regardless of the follow-up
// policy and records which category was skipped.
func (s *interviewService) SkipQuestion(ctx context.Context, request *dto.SkipQuestionRequest) (*dto.MessageResponse, error) {
	unlock := s.lockSession(request.SessionId)
	defer unlock()

	stored, found, err := s.store.Get(ctx, request.SessionId)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	if stored.Session.IsComplete() {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	conversation := stored.Clone()
	machine := s.turnPlanner.Machine()

	skipped := conversation.Session.CurrentCategory
	conversation.Session.SkippedCategoryIds = append(conversation.Session.SkippedCategoryIds, skipped.String())
	conversation.Session.LastUpdated = now

	s.logger.Info("InterviewService", "Question skipped", map[string]interface{}{
		"session_id": request.SessionId,
		"category":   skipped.String(),
	})

	next := machine.Next(skipped)
	if next == machine.Terminal() {
		return s.completeInterview(ctx, conversation)
	}
	conversation.Session.CurrentCategory = next

	// Skips never consult the LLM; the next category opens with its intro
	// template.
	question, _ := s.generator.Render(ctx, nil, planner.Directive{
		Kind:            planner.DirectiveAdvance,
		Category:        next,
		AskedInCategory: conversation.QuestionCountInCategory(next.String()),
	})
	conversation.Messages = append(conversation.Messages, questionMessage(request.SessionId, question, entity.RoleAssistant, now))

	if err := s.store.Put(ctx, conversation); err != nil {
		return nil, err
	}

	return &dto.MessageResponse{Question: toQuestionResponse(question)}, nil
}

// EditAnswer rewrites a prior user answer in place and swaps the indexed
// chunk for a re-embedded one. Later questions are not regenerated.
func (s *interviewService) EditAnswer(ctx context.Context, request *dto.EditAnswerRequest) (*dto.EditAnswerResponse, error) {
	newAnswer := strings.TrimSpace(request.NewAnswer)
	if newAnswer == "" {
		return nil, ErrEmptyAnswer
	}

	unlock := s.lockSession(request.SessionId)
	defer unlock()

	stored, found, err := s.store.Get(ctx, request.SessionId)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	if stored.Session.IsComplete() {
		return nil, ErrInvalidTransition
	}

	conversation := stored.Clone()
	index := -1
	for i, m := range conversation.Messages {
		if m.Id == request.MessageId && m.Role == entity.RoleUser {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrMessageNotFound
	}

	now := time.Now()
	edited := conversation.Messages[index]
	edited.Content = newAnswer
	edited.Metadata.Edited = true
	edited.UpdatedAt = &now
	conversation.Session.LastUpdated = now

	updated := false
	if question := conversation.QuestionBefore(index); question != nil {
		tags := map[string]string{"edited_message_id": request.MessageId.String()}
		updated, err = s.retriever.Update(ctx, request.SessionId, question.Content, newAnswer, tags)
		if err != nil {
			s.logger.Warn("InterviewService", "Indexed chunk not updated after edit", map[string]interface{}{
				"session_id": request.SessionId,
				"message_id": request.MessageId,
				"error":      err.Error(),
			})
		}
	}

	if err := s.store.Put(ctx, conversation); err != nil {
		return nil, err
	}

	s.eventPublisher.PublishAnswerEdited(ctx, request.SessionId, request.MessageId)

	return &dto.EditAnswerResponse{Updated: updated}, nil
}

// GetHistory returns the full conversation in chronological order.
func (s *interviewService) GetHistory(ctx context.Context, sessionId uuid.UUID) (*dto.HistoryResponse, error) {
	conversation, found, err := s.store.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}

	messages := make([]dto.ConversationMessage, 0, len(conversation.Messages))
	for _, m := range conversation.Messages {
		messages = append(messages, dto.ConversationMessage{
			Id:         m.Id,
			Role:       m.Role,
			Content:    m.Content,
			Category:   m.Metadata.Category,
			QuestionId: m.Metadata.QuestionId,
			IsFollowUp: m.Metadata.IsFollowUp,
			Edited:     m.Metadata.Edited,
			CreatedAt:  m.CreatedAt,
			UpdatedAt:  m.UpdatedAt,
		})
	}

	return &dto.HistoryResponse{
		SessionId:     sessionId,
		Messages:      messages,
		TotalMessages: len(messages),
	}, nil
}

// GetStatus reports session progress. Unknown sessions yield Exists=false
// rather than an error.
func (s *interviewService) GetStatus(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStatusResponse, error) {
	conversation, found, err := s.store.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if !found {
		return &dto.SessionStatusResponse{SessionId: sessionId}, nil
	}

	machine := s.turnPlanner.Machine()
	total := len(machine.All()) - 1
	counts := questionCounts(conversation)
	byCategory := make(map[string]int, len(counts))
	covered := 0
	for cat, n := range counts {
		byCategory[cat.String()] = n
		if cat != machine.Terminal() {
			covered++
		}
	}

	percentage := 0.0
	if total > 0 {
		percentage = float64(covered) / float64(total) * 100
	}

	return &dto.SessionStatusResponse{
		SessionId:         sessionId,
		Exists:            true,
		Complete:          conversation.Session.IsComplete(),
		State:             conversation.Session.CurrentCategory.String(),
		MessageCount:      len(conversation.Messages),
		AnswerCount:       conversation.Session.AnswerCount,
		SkippedCategories: conversation.Session.SkippedCategoryIds,
		Coverage: &dto.CategoryCoverage{
			CoveredCategories:   covered,
			TotalCategories:     total,
			CoveragePercentage:  percentage,
			QuestionsByCategory: byCategory,
		},
	}, nil
}

// completeInterview commits the terminal state and drops the session lock
// entry. The caller still holds the lock itself.
func (s *interviewService) completeInterview(ctx context.Context, conversation *entity.Conversation) (*dto.MessageResponse, error) {
	conversation.Session.CurrentCategory = s.turnPlanner.Machine().Terminal()
	conversation.Session.Status = entity.SessionStatusComplete

	if err := s.store.Put(ctx, conversation); err != nil {
		return nil, err
	}

	s.logger.Info("InterviewService", "Investigation complete", map[string]interface{}{
		"session_id":   conversation.Session.Id,
		"answer_count": conversation.Session.AnswerCount,
	})
	s.eventPublisher.PublishSessionCompleted(ctx, conversation.Session.Id, conversation.Session.AnswerCount, conversation.Session.SkippedCategoryIds)
	s.forgetLock(conversation.Session.Id)

	return &dto.MessageResponse{Complete: true}, nil
}

// resolveProvider picks the session's pinned provider, falling back to the
// configured default. A nil return degrades follow-ups to templates.
func (s *interviewService) resolveProvider(session *entity.Session) llm.LLMProvider {
	if s.llmFactory == nil {
		return nil
	}

	providerType := session.Provider
	if providerType == "" {
		providerType = s.defaultProvider
	}
	modelName := session.ModelId
	if modelName == "" {
		modelName = s.defaultModel
	}

	provider, err := s.llmFactory(providerType, modelName)
	if err != nil {
		s.logger.Warn("InterviewService", "LLM provider unavailable", map[string]interface{}{
			"provider": providerType,
			"model":    modelName,
			"error":    err.Error(),
		})
		return nil
	}
	return provider
}

func (s *interviewService) publishAutoSaveTrigger(ctx context.Context, conversation *entity.Conversation) {
	if s.publisherService == nil {
		return
	}

	payload, err := json.Marshal(dto.TurnRecordedMessage{
		SessionId:   conversation.Session.Id,
		AnswerCount: conversation.Session.AnswerCount,
	})
	if err != nil {
		return
	}

	// Archival is auxiliary; a failed trigger never fails the turn.
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("InterviewService", "Auto-save trigger not published", map[string]interface{}{
			"session_id": conversation.Session.Id,
			"error":      err.Error(),
		})
	}
}

func (s *interviewService) lockSession(id uuid.UUID) func() {
	s.mu.Lock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (s *interviewService) forgetLock(id uuid.UUID) {
	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
}

func questionMessage(sessionId uuid.UUID, question *planner.Question, role string, now time.Time) *entity.Message {
	return &entity.Message{
		Id:        uuid.New(),
		SessionId: sessionId,
		Role:      role,
		Content:   question.Text,
		Metadata: entity.MessageMetadata{
			Category:   question.Category.String(),
			QuestionId: question.Id.String(),
			IsFollowUp: question.IsFollowUp,
		},
		CreatedAt: now,
	}
}

func toQuestionResponse(question *planner.Question) *dto.QuestionResponse {
	if question == nil {
		return nil
	}
	return &dto.QuestionResponse{
		Id:         question.Id,
		Text:       question.Text,
		Category:   question.Category.String(),
		IsFollowUp: question.IsFollowUp,
		CreatedAt:  question.CreatedAt,
	}
}

func messageValues(messages []*entity.Message) []entity.Message {
	out := make([]entity.Message, len(messages))
	for i, m := range messages {
		out[i] = *m
	}
	return out
}

func questionCounts(conversation *entity.Conversation) map[category.Category]int {
	counts := make(map[category.Category]int)
	for _, m := range conversation.Messages {
		if m.IsQuestion() && m.Metadata.Category != "" {
			counts[category.Category(m.Metadata.Category)]++
		}
	}
	return counts
}
