package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-investigator-be/internal/dto"
	"ai-investigator-be/internal/entity"
	"ai-investigator-be/internal/repository/contract"
	"ai-investigator-be/internal/repository/memory"
	"ai-investigator-be/pkg/embedding"
	"ai-investigator-be/pkg/interview/category"
	"ai-investigator-be/pkg/interview/planner"
	"ai-investigator-be/pkg/interview/policy"
	"ai-investigator-be/pkg/llm"
	"ai-investigator-be/pkg/retrieval"
)

// clearAnswer comfortably passes the follow-up word threshold with no
// hedge markers.
const clearAnswer = "The product helps freelance designers track invoices and client feedback in one organized shared workspace"

type testLogger struct{}

func (testLogger) Debug(string, string, map[string]interface{}) {}
func (testLogger) Info(string, string, map[string]interface{})  {}
func (testLogger) Warn(string, string, map[string]interface{})  {}
func (testLogger) Error(string, string, map[string]interface{}) {}
func (testLogger) Sync() error                                  { return nil }

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Generate(_ context.Context, text string, _ string) (*embedding.EmbeddingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}},
	}, nil
}

type scriptedLLM struct {
	reply string
	err   error
	calls int
}

func (s *scriptedLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	s.calls++
	return s.reply, s.err
}

func (s *scriptedLLM) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	s.calls++
	return s.reply, s.err
}

type capturedEvent struct {
	kind      string
	sessionId uuid.UUID
}

type capturingEvents struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (c *capturingEvents) record(kind string, sessionId uuid.UUID) {
	c.mu.Lock()
	c.events = append(c.events, capturedEvent{kind: kind, sessionId: sessionId})
	c.mu.Unlock()
}

func (c *capturingEvents) kinds() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, e := range c.events {
		out[i] = e.kind
	}
	return out
}

func (c *capturingEvents) PublishSessionStarted(_ context.Context, sessionId uuid.UUID, _, _ string) {
	c.record("started", sessionId)
}

func (c *capturingEvents) PublishTurnRecorded(_ context.Context, sessionId uuid.UUID, _ string, _ bool, _ int) {
	c.record("turn", sessionId)
}

func (c *capturingEvents) PublishSessionCompleted(_ context.Context, sessionId uuid.UUID, _ int, _ []string) {
	c.record("completed", sessionId)
}

func (c *capturingEvents) PublishSessionDeleted(_ context.Context, sessionId uuid.UUID) {
	c.record("deleted", sessionId)
}

func (c *capturingEvents) PublishAnswerEdited(_ context.Context, sessionId, _ uuid.UUID) {
	c.record("edited", sessionId)
}

type capturingTrigger struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (c *capturingTrigger) Publish(_ context.Context, payload []byte) error {
	c.mu.Lock()
	c.payloads = append(c.payloads, payload)
	c.mu.Unlock()
	return nil
}

func (c *capturingTrigger) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

type interviewFixture struct {
	svc      IInterviewService
	store    contract.SessionStore
	events   *capturingEvents
	triggers *capturingTrigger
	llm      *scriptedLLM
	embedder *stubEmbedder
}

func newInterviewFixture(t *testing.T) *interviewFixture {
	t.Helper()

	store := memory.NewSessionStore()
	embedder := &stubEmbedder{}
	retriever := retrieval.NewRetriever(memory.NewChunkIndex(), embedder, retrieval.DefaultConfig(), testLogger{})

	machine := category.NewMachine()
	turnPlanner := planner.NewPlanner(machine, policy.NewHeuristic(policy.DefaultMinWords))
	generator := planner.NewGenerator(planner.GeneratorConfig{}, testLogger{})

	scripted := &scriptedLLM{reply: "What makes that workflow painful today?"}
	factory := func(string, string) (llm.LLMProvider, error) { return scripted, nil }

	events := &capturingEvents{}
	triggers := &capturingTrigger{}

	svc := NewInterviewService(
		store, retriever, turnPlanner, generator, factory,
		events, triggers, testLogger{},
		"ollama", "llama3",
	)

	return &interviewFixture{
		svc:      svc,
		store:    store,
		events:   events,
		triggers: triggers,
		llm:      scripted,
		embedder: embedder,
	}
}

func (f *interviewFixture) start(t *testing.T) uuid.UUID {
	t.Helper()
	resp, err := f.svc.StartInvestigation(context.Background(), &dto.StartInvestigationRequest{})
	require.NoError(t, err)
	return resp.SessionId
}

func (f *interviewFixture) answer(t *testing.T, sessionId uuid.UUID, text string) *dto.MessageResponse {
	t.Helper()
	resp, err := f.svc.ProcessAnswer(context.Background(), &dto.MessageRequest{SessionId: sessionId, Message: text})
	require.NoError(t, err)
	return resp
}

func TestStartInvestigationSeedsOpener(t *testing.T) {
	f := newInterviewFixture(t)

	resp, err := f.svc.StartInvestigation(context.Background(), &dto.StartInvestigationRequest{Provider: "openai", ModelId: "gpt-4o"})
	require.NoError(t, err)
	require.NotNil(t, resp.Question)

	assert.Equal(t, category.Start.String(), resp.Question.Category)
	assert.False(t, resp.Question.IsFollowUp)
	assert.NotEmpty(t, resp.Question.Text)

	conv, found, err := f.store.Get(context.Background(), resp.SessionId)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, entity.RoleSystem, conv.Messages[0].Role)
	assert.Equal(t, "openai", conv.Session.Provider)
	assert.Equal(t, []string{"started"}, f.events.kinds())
}

func TestShortAnswerGetsFollowUpInSameCategory(t *testing.T) {
	f := newInterviewFixture(t)
	sessionId := f.start(t)

	resp := f.answer(t, sessionId, "A task app")

	require.NotNil(t, resp.Question)
	assert.False(t, resp.Complete)
	assert.True(t, resp.Question.IsFollowUp)
	assert.Equal(t, category.Start.String(), resp.Question.Category)
	assert.Equal(t, "What makes that workflow painful today?", resp.Question.Text)

	conv, _, err := f.store.Get(context.Background(), sessionId)
	require.NoError(t, err)
	assert.Len(t, conv.Messages, 3)
	assert.Equal(t, 1, conv.Session.AnswerCount)
	assert.Equal(t, category.Start, conv.Session.CurrentCategory)
}

func TestClearAnswerAdvancesCategory(t *testing.T) {
	f := newInterviewFixture(t)
	sessionId := f.start(t)

	resp := f.answer(t, sessionId, clearAnswer)

	require.NotNil(t, resp.Question)
	assert.False(t, resp.Question.IsFollowUp)
	assert.Equal(t, category.Functionality.String(), resp.Question.Category)
	assert.Zero(t, f.llm.calls)

	conv, _, err := f.store.Get(context.Background(), sessionId)
	require.NoError(t, err)
	assert.Equal(t, category.Functionality, conv.Session.CurrentCategory)
}

func TestInterviewRunsToCompletion(t *testing.T) {
	f := newInterviewFixture(t)
	sessionId := f.start(t)

	plannable := len(category.DefaultOrder()) - 1
	var last *dto.MessageResponse
	for i := 0; i < plannable; i++ {
		last = f.answer(t, sessionId, clearAnswer)
	}

	require.NotNil(t, last)
	assert.True(t, last.Complete)
	assert.Nil(t, last.Question)

	status, err := f.svc.GetStatus(context.Background(), sessionId)
	require.NoError(t, err)
	assert.True(t, status.Complete)
	assert.Equal(t, category.Complete.String(), status.State)
	assert.Equal(t, plannable, status.AnswerCount)
	assert.Contains(t, f.events.kinds(), "completed")
}

func TestBlankAnswerRejectedBeforeAnyMutation(t *testing.T) {
	f := newInterviewFixture(t)
	sessionId := f.start(t)

	_, err := f.svc.ProcessAnswer(context.Background(), &dto.MessageRequest{SessionId: sessionId, Message: "   "})
	assert.ErrorIs(t, err, ErrEmptyAnswer)

	conv, _, getErr := f.store.Get(context.Background(), sessionId)
	require.NoError(t, getErr)
	assert.Len(t, conv.Messages, 1)
	assert.Zero(t, conv.Session.AnswerCount)
}

func TestAnswerUnknownSessionFails(t *testing.T) {
	f := newInterviewFixture(t)

	_, err := f.svc.ProcessAnswer(context.Background(), &dto.MessageRequest{SessionId: uuid.New(), Message: "hello there"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAnswerAfterCompletionFails(t *testing.T) {
	f := newInterviewFixture(t)
	sessionId := f.start(t)

	for i := 0; i < len(category.DefaultOrder())-1; i++ {
		f.answer(t, sessionId, clearAnswer)
	}

	_, err := f.svc.ProcessAnswer(context.Background(), &dto.MessageRequest{SessionId: sessionId, Message: clearAnswer})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSkipAdvancesOneCategoryAndRecordsIt(t *testing.T) {
	f := newInterviewFixture(t)
	sessionId := f.start(t)

	resp, err := f.svc.SkipQuestion(context.Background(), &dto.SkipQuestionRequest{SessionId: sessionId})
	require.NoError(t, err)
	require.NotNil(t, resp.Question)

	assert.Equal(t, category.Functionality.String(), resp.Question.Category)
	assert.False(t, resp.Question.IsFollowUp)
	assert.Zero(t, f.llm.calls)

	conv, _, getErr := f.store.Get(context.Background(), sessionId)
	require.NoError(t, getErr)
	assert.Equal(t, []string{category.Start.String()}, conv.Session.SkippedCategoryIds)
	assert.Zero(t, conv.Session.AnswerCount)
}

func TestSkippingEverythingCompletesInterview(t *testing.T) {
	f := newInterviewFixture(t)
	sessionId := f.start(t)

	plannable := len(category.DefaultOrder()) - 1
	var last *dto.MessageResponse
	for i := 0; i < plannable; i++ {
		var err error
		last, err = f.svc.SkipQuestion(context.Background(), &dto.SkipQuestionRequest{SessionId: sessionId})
		require.NoError(t, err)
	}

	assert.True(t, last.Complete)
	assert.Nil(t, last.Question)

	status, err := f.svc.GetStatus(context.Background(), sessionId)
	require.NoError(t, err)
	assert.True(t, status.Complete)
	assert.Len(t, status.SkippedCategories, plannable)
	assert.Zero(t, status.AnswerCount)
}

func TestEditRewritesAnswerAndIndexedChunk(t *testing.T) {
	f := newInterviewFixture(t)
	sessionId := f.start(t)
	f.answer(t, sessionId, "People juggling too many client deadlines across tools they already hate")

	history, err := f.svc.GetHistory(context.Background(), sessionId)
	require.NoError(t, err)
	var answerId uuid.UUID
	for _, m := range history.Messages {
		if m.Role == entity.RoleUser {
			answerId = m.Id
		}
	}
	require.NotEqual(t, uuid.Nil, answerId)

	resp, err := f.svc.EditAnswer(context.Background(), &dto.EditAnswerRequest{
		SessionId: sessionId,
		MessageId: answerId,
		NewAnswer: "Agencies juggling dozens of client deadlines across disconnected tools",
	})
	require.NoError(t, err)
	assert.True(t, resp.Updated)

	history, err = f.svc.GetHistory(context.Background(), sessionId)
	require.NoError(t, err)
	edited := false
	for _, m := range history.Messages {
		if m.Id == answerId {
			edited = m.Edited
			assert.Equal(t, "Agencies juggling dozens of client deadlines across disconnected tools", m.Content)
		}
	}
	assert.True(t, edited)
	assert.Contains(t, f.events.kinds(), "edited")
}

func TestEditUnknownMessageFails(t *testing.T) {
	f := newInterviewFixture(t)
	sessionId := f.start(t)
	f.answer(t, sessionId, clearAnswer)

	_, err := f.svc.EditAnswer(context.Background(), &dto.EditAnswerRequest{
		SessionId: sessionId,
		MessageId: uuid.New(),
		NewAnswer: "does not matter what goes here",
	})
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestEditQuestionMessageFails(t *testing.T) {
	f := newInterviewFixture(t)
	sessionId := f.start(t)

	history, err := f.svc.GetHistory(context.Background(), sessionId)
	require.NoError(t, err)
	questionId := history.Messages[0].Id

	_, err = f.svc.EditAnswer(context.Background(), &dto.EditAnswerRequest{
		SessionId: sessionId,
		MessageId: questionId,
		NewAnswer: "answers may only replace user messages",
	})
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestTurnSurvivesGenerationFailure(t *testing.T) {
	f := newInterviewFixture(t)
	f.llm.err = errors.New("model overloaded")
	sessionId := f.start(t)

	resp := f.answer(t, sessionId, "A task app")

	require.NotNil(t, resp.Question)
	assert.True(t, resp.Question.IsFollowUp)
	assert.NotEmpty(t, resp.Question.Text)

	conv, _, err := f.store.Get(context.Background(), sessionId)
	require.NoError(t, err)
	assert.Len(t, conv.Messages, 3)
}

func TestTurnSurvivesEmbeddingFailure(t *testing.T) {
	f := newInterviewFixture(t)
	f.embedder.err = errors.New("embedding backend down")
	sessionId := f.start(t)

	resp := f.answer(t, sessionId, clearAnswer)

	require.NotNil(t, resp.Question)
	assert.Equal(t, category.Functionality.String(), resp.Question.Category)
}

func TestAcceptedAnswerPublishesAutoSaveTrigger(t *testing.T) {
	f := newInterviewFixture(t)
	sessionId := f.start(t)

	f.answer(t, sessionId, clearAnswer)
	require.Equal(t, 1, f.triggers.count())

	var payload dto.TurnRecordedMessage
	require.NoError(t, json.Unmarshal(f.triggers.payloads[0], &payload))
	assert.Equal(t, sessionId, payload.SessionId)
	assert.Equal(t, 1, payload.AnswerCount)
}

func TestGetHistoryKeepsChronologicalOrder(t *testing.T) {
	f := newInterviewFixture(t)
	sessionId := f.start(t)
	f.answer(t, sessionId, clearAnswer)

	history, err := f.svc.GetHistory(context.Background(), sessionId)
	require.NoError(t, err)
	require.Equal(t, 3, history.TotalMessages)

	assert.Equal(t, entity.RoleSystem, history.Messages[0].Role)
	assert.Equal(t, entity.RoleUser, history.Messages[1].Role)
	assert.Equal(t, entity.RoleAssistant, history.Messages[2].Role)
}

func TestGetHistoryUnknownSessionFails(t *testing.T) {
	f := newInterviewFixture(t)

	_, err := f.svc.GetHistory(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGetStatusUnknownSessionReportsNotExists(t *testing.T) {
	f := newInterviewFixture(t)

	status, err := f.svc.GetStatus(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, status.Exists)
	assert.False(t, status.Complete)
	assert.Zero(t, status.MessageCount)
}

func TestGetStatusReportsCoverage(t *testing.T) {
	f := newInterviewFixture(t)
	sessionId := f.start(t)
	f.answer(t, sessionId, clearAnswer)

	status, err := f.svc.GetStatus(context.Background(), sessionId)
	require.NoError(t, err)
	require.NotNil(t, status.Coverage)

	assert.True(t, status.Exists)
	assert.Equal(t, len(category.DefaultOrder())-1, status.Coverage.TotalCategories)
	assert.Equal(t, 2, status.Coverage.CoveredCategories)
	assert.Equal(t, 1, status.Coverage.QuestionsByCategory[category.Start.String()])
	assert.Equal(t, 1, status.Coverage.QuestionsByCategory[category.Functionality.String()])
}
