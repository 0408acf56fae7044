package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-tutor-be/internal/apperrors"
	"ai-tutor-be/internal/constant"
	"ai-tutor-be/internal/dto"
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/sessionlock"
	"ai-tutor-be/internal/repository/contract"
	"ai-tutor-be/internal/repository/memory"
	"ai-tutor-be/internal/repository/specification"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/exercise"
	"ai-tutor-be/pkg/intent"
	"ai-tutor-be/pkg/llm"
	"ai-tutor-be/pkg/rag"
	"ai-tutor-be/pkg/retriever"
	"ai-tutor-be/pkg/store"
)

// --- in-memory repository fakes ---

type memSessionRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.ChatSession
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{rows: make(map[uuid.UUID]*entity.ChatSession)}
}

func (r *memSessionRepo) Create(ctx context.Context, s *entity.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.rows[s.Id] = &clone
	return nil
}

func (r *memSessionRepo) Update(ctx context.Context, s *entity.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.rows[s.Id] = &clone
	return nil
}

func (r *memSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *memSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if s, found := r.rows[byID.ID]; found {
				clone := *s
				return &clone, nil
			}
		}
	}
	return nil, nil
}

func (r *memSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.ChatSession, 0, len(r.rows))
	for _, s := range r.rows {
		clone := *s
		out = append(out, &clone)
	}
	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok && order.Field == "updated_at" && order.Desc {
			sort.Slice(out, func(i, j int) bool {
				return sessionRecency(out[i]).After(sessionRecency(out[j]))
			})
		}
	}
	return out, nil
}

func sessionRecency(s *entity.ChatSession) time.Time {
	if s.UpdatedAt != nil {
		return *s.UpdatedAt
	}
	return s.CreatedAt
}

func (r *memSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

// memMessageRepo enforces the (session, seq) unique constraint the real
// table carries, so interleaved appends fail loudly instead of silently.
// It also counts full reads, which the transcript cache should make rare.
type memMessageRepo struct {
	mu           sync.Mutex
	rows         []*entity.ChatMessage
	findAllCalls int
}

func (r *memMessageRepo) Create(ctx context.Context, m *entity.ChatMessage) error {
	return r.CreateBulk(ctx, []*entity.ChatMessage{m})
}

func (r *memMessageRepo) CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range messages {
		for _, existing := range r.rows {
			if existing.ChatSessionId == m.ChatSessionId && existing.Seq == m.Seq {
				return fmt.Errorf("duplicate seq %d for session %s", m.Seq, m.ChatSessionId)
			}
		}
	}
	for _, m := range messages {
		clone := *m
		r.rows = append(r.rows, &clone)
	}
	return nil
}

func (r *memMessageRepo) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, m := range r.rows {
		if m.ChatSessionId != sessionId {
			kept = append(kept, m)
		}
	}
	r.rows = kept
	return nil
}

func (r *memMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	return nil, nil
}

func (r *memMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findAllCalls++

	sessionFilter := uuid.Nil
	for _, spec := range specs {
		if bySession, ok := spec.(specification.ByChatSessionID); ok {
			sessionFilter = bySession.ChatSessionID
		}
	}

	var out []*entity.ChatMessage
	for _, m := range r.rows {
		if sessionFilter == uuid.Nil || m.ChatSessionId == sessionFilter {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *memMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	messages, _ := r.FindAll(ctx, specs...)
	return int64(len(messages)), nil
}

func (r *memMessageRepo) loads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findAllCalls
}

func (r *memMessageRepo) MaxSeq(ctx context.Context, sessionId uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, m := range r.rows {
		if m.ChatSessionId == sessionId && m.Seq > max {
			max = m.Seq
		}
	}
	return max, nil
}

type memPersonaRepo struct {
	rows map[uuid.UUID]*entity.Persona
}

func newMemPersonaRepo() *memPersonaRepo {
	return &memPersonaRepo{rows: make(map[uuid.UUID]*entity.Persona)}
}

func (r *memPersonaRepo) Create(ctx context.Context, p *entity.Persona) error {
	clone := *p
	r.rows[p.Id] = &clone
	return nil
}

func (r *memPersonaRepo) Upsert(ctx context.Context, p *entity.Persona) error {
	for _, existing := range r.rows {
		if existing.Key == p.Key {
			p.Id = existing.Id
			break
		}
	}
	return r.Create(ctx, p)
}

func (r *memPersonaRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Persona, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if p, found := r.rows[s.ID]; found {
				clone := *p
				return &clone, nil
			}
		case specification.ByPersonaKey:
			for _, p := range r.rows {
				if p.Key == s.Key {
					clone := *p
					return &clone, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *memPersonaRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Persona, error) {
	out := make([]*entity.Persona, 0, len(r.rows))
	for _, p := range r.rows {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memPersonaRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.rows)), nil
}

type memExerciseRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.Exercise
}

func newMemExerciseRepo() *memExerciseRepo {
	return &memExerciseRepo{rows: make(map[uuid.UUID]*entity.Exercise)}
}

func (r *memExerciseRepo) Create(ctx context.Context, ex *entity.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ex.Id == uuid.Nil {
		ex.Id = uuid.New()
	}
	ex.CreatedAt = time.Now()
	clone := *ex
	r.rows[ex.Id] = &clone
	return nil
}

func (r *memExerciseRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if ex, found := r.rows[byID.ID]; found {
				clone := *ex
				return &clone, nil
			}
		}
	}
	return nil, nil
}

func (r *memExerciseRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Exercise, error) {
	return nil, nil
}

func (r *memExerciseRepo) FindLatestBySessionId(ctx context.Context, sessionId uuid.UUID) (*entity.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.Exercise
	for _, ex := range r.rows {
		if ex.ChatSessionId == sessionId && (latest == nil || ex.CreatedAt.After(latest.CreatedAt)) {
			latest = ex
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

func (r *memExerciseRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

type memEvaluationRepo struct {
	mu   sync.Mutex
	rows []*entity.Evaluation
}

func (r *memEvaluationRepo) Create(ctx context.Context, eval *entity.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if eval.Id == uuid.Nil {
		eval.Id = uuid.New()
	}
	eval.CreatedAt = time.Now()
	clone := *eval
	r.rows = append(r.rows, &clone)
	return nil
}

func (r *memEvaluationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Evaluation, error) {
	return r.rows, nil
}

func (r *memEvaluationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.rows)), nil
}

type fakeUow struct {
	sessions    *memSessionRepo
	messages    *memMessageRepo
	personas    *memPersonaRepo
	exercises   *memExerciseRepo
	evaluations *memEvaluationRepo
	documents   *memDocumentRepo
	chunks      *memChunkRepo
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository     { return u.sessions }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository     { return u.messages }
func (u *fakeUow) PersonaRepository() contract.PersonaRepository             { return u.personas }
func (u *fakeUow) ExerciseRepository() contract.ExerciseRepository           { return u.exercises }
func (u *fakeUow) EvaluationRepository() contract.EvaluationRepository       { return u.evaluations }
func (u *fakeUow) DocumentRepository() contract.DocumentRepository           { return u.documents }
func (u *fakeUow) DocumentChunkRepository() contract.DocumentChunkRepository { return u.chunks }

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

// --- scripted collaborators ---

// scriptedLLM answers every call with the same reply and records the chat
// histories it was given.
type scriptedLLM struct {
	mu    sync.Mutex
	reply string
	err   error
	calls [][]llm.Message
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]llm.Message, len(history))
	copy(snapshot, history)
	s.calls = append(s.calls, snapshot)
	return s.reply, s.err
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: constant.ChatMessageRoleUser, Content: prompt}}, options...)
}

type stubRetriever struct {
	chunks []store.Chunk
	err    error
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string, k int) ([]store.Chunk, error) {
	return s.chunks, s.err
}

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

func intentJSON(kind string, extra string) string {
	if extra != "" {
		extra = "," + extra
	}
	return `{"intent":"` + kind + `","confidence":0.9` + extra + `}`
}

type chatHarness struct {
	service   IChatService
	uow       *fakeUow
	chatLLM   *scriptedLLM
	intentLLM *scriptedLLM
	exLLM     *scriptedLLM
	retriever *stubRetriever
}

func newChatHarness(intentReply, chatReply, exerciseReply string) *chatHarness {
	uow := &fakeUow{
		sessions:    newMemSessionRepo(),
		messages:    &memMessageRepo{},
		personas:    newMemPersonaRepo(),
		exercises:   newMemExerciseRepo(),
		evaluations: &memEvaluationRepo{},
	}
	factory := &fakeFactory{uow: uow}

	chatLLM := &scriptedLLM{reply: chatReply}
	intentLLM := &scriptedLLM{reply: intentReply}
	exLLM := &scriptedLLM{reply: exerciseReply}
	ret := &stubRetriever{}

	svc := NewChatService(
		factory,
		chatLLM,
		intent.NewClassifier(intentLLM, noopLogger{}),
		rag.NewAssembler(ret, 4, noopLogger{}),
		exercise.NewManager(exLLM, factory, noopLogger{}),
		memory.NewSessionRepository(),
		sessionlock.NewRegistry(time.Hour),
		noopLogger{},
		noopLogger{},
	)

	return &chatHarness{
		service:   svc,
		uow:       uow,
		chatLLM:   chatLLM,
		intentLLM: intentLLM,
		exLLM:     exLLM,
		retriever: ret,
	}
}

var _ retriever.Retriever = &stubRetriever{}

// --- tests ---

func TestSendChatCreatesAndTitlesSession(t *testing.T) {
	h := newChatHarness(intentJSON("chat", ""), "Hello! How can I help?", "")

	res, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{
		Chat: "Explain photosynthesis to me",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.ChatSessionId)
	assert.Equal(t, "Explain photosynthesis to me", res.ChatSessionTitle)
	assert.Equal(t, "chat", res.Intent)
	assert.Empty(t, res.ErrorKind)

	require.NotNil(t, res.Sent)
	require.NotNil(t, res.Reply)
	assert.Equal(t, 1, res.Sent.Seq)
	assert.Equal(t, 2, res.Reply.Seq)
	assert.Equal(t, constant.ChatMessageRoleUser, res.Sent.Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, res.Reply.Role)
	assert.Equal(t, "Hello! How can I help?", res.Reply.Chat)

	stored := h.uow.sessions.rows[res.ChatSessionId]
	require.NotNil(t, stored)
	assert.Equal(t, "Explain photosynthesis to me", stored.Title)
}

func TestSendChatUnknownSession(t *testing.T) {
	h := newChatHarness(intentJSON("chat", ""), "hi", "")

	_, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: uuid.New(),
		Chat:          "hello",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestHistoryGrowsByTwoPerTurnInSeqOrder(t *testing.T) {
	h := newChatHarness(intentJSON("chat", ""), "noted", "")

	first, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{Chat: "My name is Ada."})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{
			ChatSessionId: first.ChatSessionId,
			Chat:          fmt.Sprintf("turn %d", i),
		})
		require.NoError(t, err)
	}

	history, err := h.service.GetChatHistory(context.Background(), first.ChatSessionId)
	require.NoError(t, err)
	require.Len(t, history, 8, "4 turns produce exactly 8 messages")

	for i, m := range history {
		assert.Equal(t, i+1, m.Seq)
		if i%2 == 0 {
			assert.Equal(t, constant.ChatMessageRoleUser, m.Role)
		} else {
			assert.Equal(t, constant.ChatMessageRoleAssistant, m.Role)
		}
	}
}

func TestEarlierTurnsReachTheModel(t *testing.T) {
	h := newChatHarness(intentJSON("chat", ""), "Your name is Ada.", "")

	first, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{Chat: "My name is Ada."})
	require.NoError(t, err)

	_, err = h.service.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: first.ChatSessionId,
		Chat:          "What is my name?",
	})
	require.NoError(t, err)

	require.Len(t, h.chatLLM.calls, 2)
	second := h.chatLLM.calls[1]
	assert.Equal(t, constant.ChatMessageRoleSystem, second[0].Role)

	var sawAda bool
	for _, m := range second {
		if m.Role == constant.ChatMessageRoleUser && strings.Contains(m.Content, "Ada") {
			sawAda = true
		}
	}
	assert.True(t, sawAda, "the first turn must be replayed to the model")
}

func TestDeleteSessionReportsWhatItRemoved(t *testing.T) {
	h := newChatHarness(intentJSON("chat", ""), "hi", "")

	res, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{Chat: "hello"})
	require.NoError(t, err)

	req := &dto.DeleteSessionRequest{ChatSessionId: res.ChatSessionId}

	deleted, err := h.service.DeleteSession(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = h.service.DeleteSession(context.Background(), req)
	require.NoError(t, err, "repeated delete is a no-op")
	assert.False(t, deleted, "nothing was left to remove")

	// The row itself is gone, not flagged.
	assert.Empty(t, h.uow.sessions.rows)
	assert.Empty(t, h.uow.messages.rows)

	_, err = h.service.GetChatHistory(context.Background(), res.ChatSessionId)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTurnBumpsSessionRecency(t *testing.T) {
	h := newChatHarness(intentJSON("chat", ""), "ok", "")

	older, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{Chat: "first session"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	newer, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{Chat: "second session"})
	require.NoError(t, err)

	firstTouch := *h.uow.sessions.rows[older.ChatSessionId].UpdatedAt

	time.Sleep(5 * time.Millisecond)
	_, err = h.service.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: older.ChatSessionId,
		Chat:          "back to the first one",
	})
	require.NoError(t, err)

	secondTouch := *h.uow.sessions.rows[older.ChatSessionId].UpdatedAt
	assert.True(t, secondTouch.After(firstTouch), "every turn must move updated_at")

	sessions, err := h.service.GetAllSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, older.ChatSessionId, sessions[0].Id, "the session touched last is listed first")
	assert.Equal(t, newer.ChatSessionId, sessions[1].Id)
}

func TestTranscriptIsReadOnceThenServedFromCache(t *testing.T) {
	h := newChatHarness(intentJSON("chat", ""), "ok", "")

	first, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{Chat: "turn one"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{
			ChatSessionId: first.ChatSessionId,
			Chat:          fmt.Sprintf("turn %d", i+2),
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, h.uow.messages.loads(),
		"the transcript loads from the store on first touch only; later turns replay the cache")

	// The cached replay still carries earlier turns.
	last := h.chatLLM.calls[len(h.chatLLM.calls)-1]
	var sawFirst bool
	for _, m := range last {
		if strings.Contains(m.Content, "turn one") {
			sawFirst = true
		}
	}
	assert.True(t, sawFirst)
}

func TestCreateSessionUnknownPersona(t *testing.T) {
	h := newChatHarness(intentJSON("chat", ""), "hi", "")

	_, err := h.service.CreateSession(context.Background(), &dto.CreateSessionRequest{PersonaKey: "nope"})

	require.Error(t, err)
	assert.True(t, apperrors.IsPersonaNotFound(err))
}

func TestPersonaTakesPrecedenceOverRetrieval(t *testing.T) {
	h := newChatHarness(intentJSON("chat", `"use_documents":true`), "ok", "")
	h.retriever.chunks = []store.Chunk{{Content: "retrieved context"}}

	persona := &entity.Persona{Id: uuid.New(), Key: "math-teacher", SystemPrompt: "You are Ms. Vector."}
	require.NoError(t, h.uow.personas.Create(context.Background(), persona))

	created, err := h.service.CreateSession(context.Background(), &dto.CreateSessionRequest{PersonaKey: "math-teacher"})
	require.NoError(t, err)

	_, err = h.service.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "help me factor this",
	})
	require.NoError(t, err)

	require.Len(t, h.chatLLM.calls, 1)
	system := h.chatLLM.calls[0][0]
	assert.Equal(t, "You are Ms. Vector.", system.Content)
	assert.NotContains(t, system.Content, "retrieved context")
}

func TestTurnPersonaOverridesSessionPersona(t *testing.T) {
	h := newChatHarness(intentJSON("chat", ""), "ok", "")

	mathTeacher := &entity.Persona{Id: uuid.New(), Key: "math-teacher", SystemPrompt: "You are Ms. Vector."}
	scienceTeacher := &entity.Persona{Id: uuid.New(), Key: "science-teacher", SystemPrompt: "You are Dr. Beaker."}
	require.NoError(t, h.uow.personas.Create(context.Background(), mathTeacher))
	require.NoError(t, h.uow.personas.Create(context.Background(), scienceTeacher))

	created, err := h.service.CreateSession(context.Background(), &dto.CreateSessionRequest{PersonaKey: "math-teacher"})
	require.NoError(t, err)

	_, err = h.service.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "why is the sky blue?",
		PersonaKey:    "science-teacher",
	})
	require.NoError(t, err)

	require.Len(t, h.chatLLM.calls, 1)
	assert.Equal(t, "You are Dr. Beaker.", h.chatLLM.calls[0][0].Content)
}

func TestUnknownTurnPersonaFailsTheTurn(t *testing.T) {
	h := newChatHarness(intentJSON("chat", ""), "ok", "")

	created, err := h.service.CreateSession(context.Background(), &dto.CreateSessionRequest{})
	require.NoError(t, err)

	_, err = h.service.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: created.Id,
		Chat:          "hello",
		PersonaKey:    "nope",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsPersonaNotFound(err))
	assert.Empty(t, h.uow.messages.rows, "a rejected turn records nothing")
}

func TestForceRagGroundsTheReply(t *testing.T) {
	// The classifier does not ask for documents; the request does.
	h := newChatHarness(intentJSON("chat", ""), "ok", "")
	h.retriever.chunks = []store.Chunk{{Content: "Osmosis moves water across membranes.", Score: 0.9}}

	_, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{
		Chat:     "what is osmosis?",
		ForceRag: true,
	})
	require.NoError(t, err)

	require.Len(t, h.chatLLM.calls, 1)
	assert.Contains(t, h.chatLLM.calls[0][0].Content, "Osmosis moves water across membranes.")
}

func TestRetrievedContextGroundsTheReply(t *testing.T) {
	h := newChatHarness(intentJSON("chat", `"use_documents":true`), "ok", "")
	h.retriever.chunks = []store.Chunk{
		{Content: "Mitochondria produce ATP.", Score: 0.9},
		{Content: "Chloroplasts capture light.", Score: 0.8},
	}

	_, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{Chat: "what do mitochondria do?"})
	require.NoError(t, err)

	require.Len(t, h.chatLLM.calls, 1)
	system := h.chatLLM.calls[0][0].Content
	assert.Contains(t, system, "Mitochondria produce ATP.")
	assert.Contains(t, system, "Chloroplasts capture light.")
	assert.True(t, strings.HasPrefix(system, constant.RAGSystemPromptPrefix[:20]))
}

func TestEmptyRetrievalFallsBackToDefaultPrompt(t *testing.T) {
	h := newChatHarness(intentJSON("chat", `"use_documents":true`), "ok", "")

	_, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{Chat: "anything"})
	require.NoError(t, err)

	require.Len(t, h.chatLLM.calls, 1)
	assert.Equal(t, constant.DefaultSystemPrompt, h.chatLLM.calls[0][0].Content)
}

func TestFailedTurnStillRecordsAFriendlyReply(t *testing.T) {
	h := newChatHarness(
		intentJSON("generate_exercise", `"topic":"fractions"`),
		"unused",
		"this is not the JSON you asked for",
	)

	res, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{Chat: "quiz me on fractions"})
	require.NoError(t, err, "internal failures must not fail the turn")

	assert.Equal(t, string(apperrors.KindGeneration), res.ErrorKind)
	assert.NotEmpty(t, res.Reply.Chat)
	assert.Equal(t, constant.MetadataTypeError, res.Reply.Metadata[constant.MetadataKeyType])

	history, err := h.service.GetChatHistory(context.Background(), res.ChatSessionId)
	require.NoError(t, err)
	assert.Len(t, history, 2, "failed turns are recorded like any other")
}

const generatedExercise = `{
  "instructions": "Pick one answer per question.",
  "questions": [
    {"number": 1, "prompt": "1/2 + 1/4 = ?", "choices": ["A) 3/4", "B) 2/6"]}
  ],
  "solutions": [
    {"number": 1, "answer": "A) 3/4", "explanation": "Common denominators."}
  ]
}`

func TestExerciseTurnNeverLeaksSolutions(t *testing.T) {
	h := newChatHarness(
		intentJSON("generate_exercise", `"topic":"fractions","num_questions":1`),
		"unused",
		generatedExercise,
	)

	res, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{Chat: "quiz me on fractions"})
	require.NoError(t, err)
	assert.Empty(t, res.ErrorKind)

	exerciseId, _ := res.Reply.Metadata[constant.MetadataKeyExerciseId].(string)
	require.NotEmpty(t, exerciseId)
	assert.Contains(t, res.Reply.Chat, exerciseId, "the rendered block names its exercise id")
	assert.NotContains(t, res.Reply.Chat, "Common denominators.")

	history, err := h.service.GetChatHistory(context.Background(), res.ChatSessionId)
	require.NoError(t, err)
	for _, m := range history {
		assert.NotContains(t, m.Chat, "Common denominators.", "solutions never enter the transcript")
	}
}

func TestConcurrentTurnsNeverInterleave(t *testing.T) {
	h := newChatHarness(intentJSON("chat", ""), "ok", "")

	first, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{Chat: "warmup"})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{
				ChatSessionId: first.ChatSessionId,
				Chat:          fmt.Sprintf("concurrent %d", n),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err, "seq collisions mean the append was not serialized")
	}

	history, err := h.service.GetChatHistory(context.Background(), first.ChatSessionId)
	require.NoError(t, err)
	require.Len(t, history, 2*(workers+1))

	for i, m := range history {
		assert.Equal(t, i+1, m.Seq, "seq must be contiguous")
		if i%2 == 0 {
			assert.Equal(t, constant.ChatMessageRoleUser, m.Role)
		} else {
			assert.Equal(t, constant.ChatMessageRoleAssistant, m.Role)
		}
	}
}
