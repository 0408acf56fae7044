package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai-tutor-be/internal/apperrors"
	"ai-tutor-be/internal/constant"
	"ai-tutor-be/internal/dto"
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/pkg/sessionlock"
	"ai-tutor-be/internal/repository/memory"
	"ai-tutor-be/internal/repository/specification"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/exercise"
	"ai-tutor-be/pkg/intent"
	"ai-tutor-be/pkg/llm"
	"ai-tutor-be/pkg/rag"
	"ai-tutor-be/pkg/store"
)

// maxHistoryMessages bounds how much transcript is replayed into prompts.
const maxHistoryMessages = 20

const maxTitleRunes = 80

type IChatService interface {
	CreateSession(ctx context.Context, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) (bool, error)
}

// chatService is the dialogue orchestrator. A turn flows: ensure session →
// classify (no lock held) → dispatch to the matching handler → append both
// messages under the session lock in one transaction. The user always gets
// a natural-language reply; internal failures are rendered as one, with
// the error kind exposed in the envelope for the caller.
type chatService struct {
	uowFactory      unitofwork.RepositoryFactory
	llmProvider     llm.LLMProvider
	classifier      *intent.Classifier
	assembler       *rag.Assembler
	exerciseManager *exercise.Manager
	sessionRepo     *memory.SessionRepository
	locks           *sessionlock.Registry
	logger          logger.ILogger
	llmLogger       logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	classifier *intent.Classifier,
	assembler *rag.Assembler,
	exerciseManager *exercise.Manager,
	sessionRepo *memory.SessionRepository,
	locks *sessionlock.Registry,
	log logger.ILogger,
	llmLog logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:      uowFactory,
		llmProvider:     llmProvider,
		classifier:      classifier,
		assembler:       assembler,
		exerciseManager: exerciseManager,
		sessionRepo:     sessionRepo,
		locks:           locks,
		logger:          log,
		llmLogger:       llmLog,
	}
}

// CreateSession opens a fresh session, optionally bound to a persona.
func (cs *chatService) CreateSession(ctx context.Context, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	session, err := cs.createSession(ctx, request.PersonaKey)
	if err != nil {
		return nil, err
	}
	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (cs *chatService) createSession(ctx context.Context, personaKey string) (*entity.ChatSession, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	var personaId *uuid.UUID
	if personaKey != "" {
		persona, err := uow.PersonaRepository().FindOne(ctx, specification.ByPersonaKey{Key: personaKey})
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindStorage, "failed to load persona", err)
		}
		if persona == nil {
			return nil, apperrors.Newf(apperrors.KindPersonaNotFound, "unknown persona %q", personaKey)
		}
		personaId = &persona.Id
	}

	now := time.Now()
	session := &entity.ChatSession{
		Id:        uuid.New(),
		Title:     constant.DefaultSessionTitle,
		PersonaId: personaId,
		CreatedAt: now,
		UpdatedAt: &now,
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to create session", err)
	}

	cs.logger.Info("chat", "session created", map[string]interface{}{
		"session_id": session.Id.String(),
		"persona":    personaKey,
	})
	return session, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to list sessions", err)
	}

	response := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, s := range sessions {
		response = append(response, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			PersonaId: s.PersonaId,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return response, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to load session", err)
	}
	if session == nil {
		return nil, apperrors.Newf(apperrors.KindNotFound, "unknown session %q", sessionId)
	}

	messages, err := cs.loadMessages(ctx, uow, sessionId)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetChatHistoryResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, &dto.GetChatHistoryResponse{
			Id:        m.Id,
			Seq:       m.Seq,
			Role:      m.Role,
			Chat:      m.Content,
			Metadata:  m.Metadata,
			CreatedAt: m.CreatedAt,
		})
	}
	return response, nil
}

// SendChat runs one dialogue turn. Classification, retrieval and model
// calls work on a history snapshot outside the session lock; only the
// final two-message append serializes on it.
func (cs *chatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	session, err := cs.ensureSession(ctx, request)
	if err != nil {
		return nil, err
	}

	turnPersona, err := cs.turnPersona(ctx, request.PersonaKey)
	if err != nil {
		return nil, err
	}
	opts := turnOptions{persona: turnPersona, forceRAG: request.ForceRag}

	history, err := cs.historyFor(ctx, session.Id)
	if err != nil {
		return nil, err
	}

	turnIntent := cs.classifier.Classify(ctx, request.Chat, history)

	reply, metadata, dispatchErr := cs.dispatch(ctx, session, turnIntent, history, request.Chat, opts)
	errorKind := ""
	if dispatchErr != nil {
		errorKind = errorKindOf(dispatchErr)
		reply = friendlyReply(dispatchErr)
		metadata = map[string]interface{}{
			constant.MetadataKeyType:      constant.MetadataTypeError,
			constant.MetadataKeyErrorKind: errorKind,
		}
		cs.logger.Error("chat", "turn handler failed, replying with fallback", map[string]interface{}{
			"session_id": session.Id.String(),
			"intent":     string(turnIntent.Kind),
			"error_kind": errorKind,
			"error":      dispatchErr.Error(),
		})
	}

	userMessage, assistantMessage, err := cs.recordTurn(ctx, session, request.Chat, reply, metadata)
	if err != nil {
		return nil, err
	}

	cs.rememberTurn(session, turnIntent, request.Chat)

	return &dto.SendChatResponse{
		ChatSessionId:    session.Id,
		ChatSessionTitle: session.Title,
		Intent:           string(turnIntent.Kind),
		ErrorKind:        errorKind,
		Sent: &dto.SendChatResponseChat{
			Id:        userMessage.Id,
			Seq:       userMessage.Seq,
			Chat:      userMessage.Content,
			Role:      userMessage.Role,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:        assistantMessage.Id,
			Seq:       assistantMessage.Seq,
			Chat:      assistantMessage.Content,
			Role:      assistantMessage.Role,
			Metadata:  assistantMessage.Metadata,
			CreatedAt: assistantMessage.CreatedAt,
		},
	}, nil
}

// DeleteSession removes a session and its transcript outright. The
// returned flag reports whether anything existed to delete, so a repeated
// delete is a harmless false, not an error.
func (cs *chatService) DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) (bool, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: request.ChatSessionId})
	if err != nil {
		return false, apperrors.Wrap(apperrors.KindStorage, "failed to load session", err)
	}
	if session == nil {
		return false, nil
	}

	unlock := cs.locks.Lock(request.ChatSessionId)
	defer unlock()

	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, request.ChatSessionId); err != nil {
		return false, apperrors.Wrap(apperrors.KindStorage, "failed to delete session messages", err)
	}
	if err := uow.ChatSessionRepository().Delete(ctx, request.ChatSessionId); err != nil {
		return false, apperrors.Wrap(apperrors.KindStorage, "failed to delete session", err)
	}
	if err := uow.Commit(); err != nil {
		return false, err
	}

	cs.sessionRepo.Delete(request.ChatSessionId.String())
	cs.locks.Forget(request.ChatSessionId)

	cs.logger.Info("chat", "session deleted", map[string]interface{}{
		"session_id": request.ChatSessionId.String(),
	})
	return true, nil
}

// ensureSession resolves the session for a turn, creating one when the
// request carries no id.
func (cs *chatService) ensureSession(ctx context.Context, request *dto.SendChatRequest) (*entity.ChatSession, error) {
	if request.ChatSessionId == uuid.Nil {
		return cs.createSession(ctx, request.PersonaKey)
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: request.ChatSessionId})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to load session", err)
	}
	if session == nil {
		return nil, apperrors.Newf(apperrors.KindNotFound, "unknown session %q", request.ChatSessionId)
	}
	return session, nil
}

// turnPersona resolves a per-turn persona override. An empty key means
// no override; an unknown one fails the turn before anything is recorded.
func (cs *chatService) turnPersona(ctx context.Context, personaKey string) (*entity.Persona, error) {
	if personaKey == "" {
		return nil, nil
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	persona, err := uow.PersonaRepository().FindOne(ctx, specification.ByPersonaKey{Key: personaKey})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to load persona", err)
	}
	if persona == nil {
		return nil, apperrors.Newf(apperrors.KindPersonaNotFound, "unknown persona %q", personaKey)
	}
	return persona, nil
}

// historyFor returns the prompt replay window for a session, served from
// the warm transcript cache when possible. The cache fills from the store
// on first touch and recordTurn keeps it in step, both under the session
// lock.
func (cs *chatService) historyFor(ctx context.Context, sessionId uuid.UUID) ([]llm.Message, error) {
	unlock := cs.locks.Lock(sessionId)
	defer unlock()

	cached, found := cs.sessionRepo.Get(sessionId.String())
	if found && cached.HistoryLoaded {
		return historyToLLM(cached.History), nil
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	messages, err := cs.loadMessages(ctx, uow, sessionId)
	if err != nil {
		return nil, err
	}

	if !found {
		cached = &store.Session{ID: sessionId.String()}
	}
	cached.History = historyFromMessages(messages)
	cached.HistoryLoaded = true
	cs.sessionRepo.Save(cached)

	return historyToLLM(cached.History), nil
}

func (cs *chatService) loadMessages(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]*entity.ChatMessage, error) {
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBySeq{},
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to load chat history", err)
	}
	return messages, nil
}

// turnOptions carries the per-turn overrides of a send request.
type turnOptions struct {
	persona  *entity.Persona
	forceRAG bool
}

// dispatch routes one classified turn to its handler and returns the
// assistant reply plus the metadata recorded with it.
func (cs *chatService) dispatch(
	ctx context.Context,
	session *entity.ChatSession,
	turnIntent *intent.Intent,
	history []llm.Message,
	userMessage string,
	opts turnOptions,
) (string, map[string]interface{}, error) {

	// Hint/solution requests that name no exercise first fall back to the
	// exercise in play, then degrade to chat so the user can be prompted.
	if (turnIntent.Kind == intent.KindGetHint || turnIntent.Kind == intent.KindGetSolution) && turnIntent.Ref != nil {
		if turnIntent.Ref.ExerciseID == "" {
			turnIntent.Ref.ExerciseID = cs.activeExerciseId(session.Id)
		}
		if turnIntent.Ref.ExerciseID == "" {
			reply, err := cs.chatReply(ctx, session, turnIntent, history, userMessage, opts)
			return reply, map[string]interface{}{"missing_exercise_id": true}, err
		}
	}

	switch turnIntent.Kind {
	case intent.KindGenerateExercise:
		ex, err := cs.exerciseManager.Create(ctx, session.Id, turnIntent.Generate)
		if err != nil {
			return "", nil, err
		}
		cs.rememberActiveExercise(session.Id, ex.Id.String())
		return exercise.FormatExercise(ex), map[string]interface{}{
			constant.MetadataKeyType:       constant.MetadataTypeExercise,
			constant.MetadataKeyExerciseId: ex.Id.String(),
		}, nil

	case intent.KindEvaluateAnswers:
		if turnIntent.Evaluate.ExerciseID == "" {
			turnIntent.Evaluate.ExerciseID = cs.activeExerciseId(session.Id)
		}
		eval, err := cs.exerciseManager.Evaluate(ctx, session.Id, turnIntent.Evaluate)
		if err != nil {
			return "", nil, err
		}
		return exercise.FormatEvaluation(eval), map[string]interface{}{
			constant.MetadataKeyType:         constant.MetadataTypeEvaluation,
			constant.MetadataKeyEvaluationId: eval.Id.String(),
			constant.MetadataKeyExerciseId:   eval.ExerciseId.String(),
		}, nil

	case intent.KindGetHint:
		hint, err := cs.exerciseManager.Hint(ctx, turnIntent.Ref)
		if err != nil {
			return "", nil, err
		}
		return hint, map[string]interface{}{
			constant.MetadataKeyType:           constant.MetadataTypeHint,
			constant.MetadataKeyExerciseId:     turnIntent.Ref.ExerciseID,
			constant.MetadataKeyQuestionNumber: turnIntent.Ref.QuestionNumber,
		}, nil

	case intent.KindGetSolution:
		solution, err := cs.exerciseManager.RevealSolution(ctx, turnIntent.Ref)
		if err != nil {
			return "", nil, err
		}
		return solution, map[string]interface{}{
			constant.MetadataKeyType:           constant.MetadataTypeSolution,
			constant.MetadataKeyExerciseId:     turnIntent.Ref.ExerciseID,
			constant.MetadataKeyQuestionNumber: turnIntent.Ref.QuestionNumber,
		}, nil

	default:
		reply, err := cs.chatReply(ctx, session, turnIntent, history, userMessage, opts)
		return reply, nil, err
	}
}

// chatReply answers a plain chat turn: resolve the system context (persona
// wins over RAG, RAG falls back to the default prompt on empty retrieval)
// and replay the bounded history.
func (cs *chatService) chatReply(
	ctx context.Context,
	session *entity.ChatSession,
	turnIntent *intent.Intent,
	history []llm.Message,
	userMessage string,
	opts turnOptions,
) (string, error) {
	systemPrompt := cs.resolveSystemPrompt(ctx, session, turnIntent, userMessage, opts)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: userMessage})

	started := time.Now()
	reply, err := cs.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.7))
	cs.llmLogger.Info("chat", "completion", map[string]interface{}{
		"session_id": session.Id.String(),
		"messages":   len(messages),
		"system_len": len(systemPrompt),
		"elapsed_ms": time.Since(started).Milliseconds(),
		"failed":     err != nil,
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

// resolveSystemPrompt picks the generation context for a chat turn.
// Precedence: the turn's persona override, then the session persona, then
// retrieved documents, then the default prompt. An empty retrieval never
// produces an empty context.
func (cs *chatService) resolveSystemPrompt(
	ctx context.Context,
	session *entity.ChatSession,
	turnIntent *intent.Intent,
	query string,
	opts turnOptions,
) string {
	if opts.persona != nil {
		return opts.persona.SystemPrompt
	}

	if session.PersonaId != nil {
		uow := cs.uowFactory.NewUnitOfWork(ctx)
		persona, err := uow.PersonaRepository().FindOne(ctx, specification.ByID{ID: *session.PersonaId})
		if err != nil || persona == nil {
			cs.logger.Warn("chat", "session persona unavailable, using default prompt", map[string]interface{}{
				"session_id": session.Id.String(),
			})
			return constant.DefaultSystemPrompt
		}
		return persona.SystemPrompt
	}

	if opts.forceRAG || turnIntent.UseDocuments {
		assembled, err := cs.assembler.Assemble(ctx, query)
		if err != nil {
			cs.logger.Warn("chat", "retrieval failed, using default prompt", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
			return constant.DefaultSystemPrompt
		}
		if assembled.OK {
			return assembled.SystemPrompt
		}
	}

	return constant.DefaultSystemPrompt
}

// recordTurn appends the user and assistant messages with consecutive seq
// numbers in one transaction. It is the only write path into a session's
// transcript, and it holds the session lock for its whole duration.
func (cs *chatService) recordTurn(
	ctx context.Context,
	session *entity.ChatSession,
	userText string,
	replyText string,
	replyMetadata map[string]interface{},
) (*entity.ChatMessage, *entity.ChatMessage, error) {
	unlock := cs.locks.Lock(session.Id)
	defer unlock()

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer uow.Rollback()

	maxSeq, err := uow.ChatMessageRepository().MaxSeq(ctx, session.Id)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.KindStorage, "failed to read message sequence", err)
	}

	now := time.Now()
	userMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Seq:           maxSeq + 1,
		Role:          constant.ChatMessageRoleUser,
		Content:       userText,
		CreatedAt:     now,
	}
	assistantMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Seq:           maxSeq + 2,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       replyText,
		Metadata:      replyMetadata,
		CreatedAt:     now,
	}

	if err := uow.ChatMessageRepository().CreateBulk(ctx, []*entity.ChatMessage{userMessage, assistantMessage}); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.KindStorage, "failed to append turn", err)
	}

	// Every turn bumps the session's recency; the first one also titles
	// it after the user's opening message.
	if maxSeq == 0 {
		session.Title = titleFromMessage(userText)
	}
	session.UpdatedAt = &now
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.KindStorage, "failed to update session", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, nil, err
	}

	cs.appendCachedTurn(session.Id, userMessage, assistantMessage)
	return userMessage, assistantMessage, nil
}

// appendCachedTurn keeps the warm transcript cache in step with the
// store. Callers hold the session lock.
func (cs *chatService) appendCachedTurn(sessionId uuid.UUID, turn ...*entity.ChatMessage) {
	cached, found := cs.sessionRepo.Get(sessionId.String())
	if !found || !cached.HistoryLoaded {
		return
	}
	for _, m := range turn {
		cached.History = append(cached.History, store.Message{Role: m.Role, Content: m.Content})
	}
	if len(cached.History) > maxHistoryMessages {
		cached.History = cached.History[len(cached.History)-maxHistoryMessages:]
	}
	cs.sessionRepo.Save(cached)
}

// rememberTurn refreshes the cached conversational state after a turn.
func (cs *chatService) rememberTurn(session *entity.ChatSession, turnIntent *intent.Intent, query string) {
	unlock := cs.locks.Lock(session.Id)
	defer unlock()

	cached, found := cs.sessionRepo.Get(session.Id.String())
	if !found {
		cached = &store.Session{ID: session.Id.String()}
		if session.PersonaId != nil {
			cached.PersonaID = session.PersonaId.String()
		}
	}
	cached.LastIntent = string(turnIntent.Kind)
	cached.LastQuery = query
	cs.sessionRepo.Save(cached)
}

func (cs *chatService) rememberActiveExercise(sessionId uuid.UUID, exerciseId string) {
	unlock := cs.locks.Lock(sessionId)
	defer unlock()

	cached, found := cs.sessionRepo.Get(sessionId.String())
	if !found {
		cached = &store.Session{ID: sessionId.String()}
	}
	cached.ActiveExerciseID = exerciseId
	cs.sessionRepo.Save(cached)
}

func (cs *chatService) activeExerciseId(sessionId uuid.UUID) string {
	unlock := cs.locks.Lock(sessionId)
	defer unlock()

	if cached, found := cs.sessionRepo.Get(sessionId.String()); found {
		return cached.ActiveExerciseID
	}
	return ""
}

func historyFromMessages(messages []*entity.ChatMessage) []store.Message {
	if len(messages) > maxHistoryMessages {
		messages = messages[len(messages)-maxHistoryMessages:]
	}
	history := make([]store.Message, len(messages))
	for i, m := range messages {
		history[i] = store.Message{Role: m.Role, Content: m.Content}
	}
	return history
}

func historyToLLM(history []store.Message) []llm.Message {
	out := make([]llm.Message, len(history))
	for i, m := range history {
		out[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

func titleFromMessage(text string) string {
	title := strings.TrimSpace(text)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	if title == "" {
		return constant.DefaultSessionTitle
	}
	runes := []rune(title)
	if len(runes) > maxTitleRunes {
		title = string(runes[:maxTitleRunes]) + "…"
	}
	return title
}

// errorKindOf renders an error's kind for the response envelope. Foreign
// errors count as upstream storage-layer noise, not user mistakes.
func errorKindOf(err error) string {
	if kind := apperrors.KindOf(err); kind != "" {
		return string(kind)
	}
	return "internal"
}

// friendlyReply turns an internal failure into the natural-language reply
// the user sees. The typed detail stays in the envelope and the logs.
func friendlyReply(err error) string {
	switch apperrors.KindOf(err) {
	case apperrors.KindUpstreamTimeout:
		return "That took longer than I'm allowed to wait. Please try again in a moment."
	case apperrors.KindUpstream:
		return "I couldn't reach the tutoring model just now. Please try again."
	case apperrors.KindNotFound:
		return "I couldn't find that exercise. Generate one first, or double-check the exercise id."
	case apperrors.KindNoSolution:
		return "There's no stored solution for that one, so I can't reveal or grade it."
	case apperrors.KindGeneration:
		return "I had trouble putting that exercise together. Mind asking again?"
	case apperrors.KindEvaluationParse:
		return "I graded your answers but couldn't make sense of the result. Please submit them again."
	case apperrors.KindValidation:
		return "That request didn't quite add up: " + err.Error()
	default:
		return "Something went wrong on my side while handling that. Please try again."
	}
}
