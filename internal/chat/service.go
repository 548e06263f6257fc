package chat

import (
	"context"
	"log"
	"time"

	"github.com/bakaevs/cs-gpt/internal/ai"
	"github.com/bakaevs/cs-gpt/internal/index"
)

// ToolDispatcher turns a model-issued tool call into answer text. It never
// fails: every failure mode is rendered as a user-readable string.
type ToolDispatcher interface {
	Dispatch(ctx context.Context, userID string, call ai.ToolCall) string
}

// Answer is what a question resolves to. Failures are encoded in the answer
// text rather than surfaced as transport errors, so the user always gets a
// response and the thread stays replayable.
type Answer struct {
	Answer        string        `json:"answer"`
	ThreadID      uint64        `json:"thread_id"`
	Raw           string        `json:"raw,omitempty"`
	SystemMessage string        `json:"system_message,omitempty"`
	Payload       []ai.ToolCall `json:"payload,omitempty"`
}

type Service struct {
	repo       *Repo
	embedder   ai.Embedder
	provider   ai.ToolProvider
	dispatcher ToolDispatcher
	idx        *index.Index
	tools      []ai.ToolDefinition
	topK       int
}

func NewService(repo *Repo, embedder ai.Embedder, provider ai.ToolProvider, dispatcher ToolDispatcher, idx *index.Index, tools []ai.ToolDefinition, topK int) *Service {
	if topK <= 0 {
		topK = index.DefaultTopK
	}
	return &Service{
		repo:       repo,
		embedder:   embedder,
		provider:   provider,
		dispatcher: dispatcher,
		idx:        idx,
		tools:      tools,
		topK:       topK,
	}
}

// Ask answers one question: resolve the thread, persist the user message,
// retrieve context, call the model, dispatch a tool call if the model asked
// for one, persist the assistant message, return the answer.
func (s *Service) Ask(ctx context.Context, userID string, threadID uint64, question string) (*Answer, error) {
	if threadID == 0 {
		t := &Thread{
			UserID: userID,
			Name:   "Chat - " + time.Now().Format("2006-01-02 15:04"),
		}
		if err := s.repo.CreateThread(ctx, t); err != nil {
			return nil, err
		}
		threadID = t.ID
	} else {
		t, err := s.repo.GetThread(ctx, threadID)
		if err != nil {
			return nil, err
		}
		if t.UserID != userID {
			return nil, ErrThreadNotFound
		}
	}

	history, err := s.repo.ListMessages(ctx, threadID)
	if err != nil {
		log.Printf("chat: loading history for thread %d failed, continuing without it: %v", threadID, err)
		history = nil
	}

	if err := s.repo.InsertMessage(ctx, &Message{
		ThreadID: threadID,
		UserID:   userID,
		Role:     RoleUser,
		Content:  question,
	}); err != nil {
		return nil, err
	}

	queryVec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return s.errorAnswer(ctx, userID, threadID, err), nil
	}
	contextBlock := index.Combine(s.idx.Search(ctx, queryVec, s.topK))

	msgs := make([]ai.Message, 0, len(history)+1)
	for _, m := range history {
		msgs = append(msgs, ai.Message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, ai.Message{
		Role:    RoleUser,
		Content: "Context:\n" + contextBlock + "\n\nQuestion:\n" + question,
	})

	comp, err := s.provider.ChatWithTools(ctx, msgs, s.tools)
	if err != nil {
		return s.errorAnswer(ctx, userID, threadID, err), nil
	}

	answer := comp.Content
	var payload []ai.ToolCall
	if len(comp.ToolCalls) > 0 {
		// Only the first tool call is acted on; the full list rides along
		// in the payload for diagnostics.
		answer = s.dispatcher.Dispatch(ctx, userID, comp.ToolCalls[0])
		payload = comp.ToolCalls
	}

	if err := s.repo.InsertMessage(ctx, &Message{
		ThreadID: threadID,
		UserID:   userID,
		Role:     RoleAssistant,
		Content:  answer,
	}); err != nil {
		return nil, err
	}

	return &Answer{
		Answer:   answer,
		ThreadID: threadID,
		Raw:      comp.Raw,
		Payload:  payload,
	}, nil
}

// errorAnswer renders an external failure as the assistant's reply and
// persists it so the conversation stays consistent.
func (s *Service) errorAnswer(ctx context.Context, userID string, threadID uint64, cause error) *Answer {
	text := "Error calling Assistant API: " + cause.Error()
	if err := s.repo.InsertMessage(ctx, &Message{
		ThreadID: threadID,
		UserID:   userID,
		Role:     RoleAssistant,
		Content:  text,
	}); err != nil {
		log.Printf("chat: persisting error answer for thread %d failed: %v", threadID, err)
	}
	return &Answer{
		Answer:        text,
		ThreadID:      threadID,
		SystemMessage: cause.Error(),
	}
}

func (s *Service) CreateThread(ctx context.Context, userID, name string) (*Thread, error) {
	if name == "" {
		name = "Chat - " + time.Now().Format("2006-01-02 15:04")
	}
	t := &Thread{UserID: userID, Name: name}
	if err := s.repo.CreateThread(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Threads(ctx context.Context, userID string) ([]Thread, error) {
	return s.repo.ListThreads(ctx, userID)
}

func (s *Service) ThreadMessages(ctx context.Context, userID string, threadID uint64) ([]Message, error) {
	if err := s.ownThread(ctx, userID, threadID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, threadID)
}

func (s *Service) RenameThread(ctx context.Context, userID string, threadID uint64, name string) error {
	if err := s.ownThread(ctx, userID, threadID); err != nil {
		return err
	}
	return s.repo.RenameThread(ctx, threadID, name)
}

func (s *Service) DeleteThread(ctx context.Context, userID string, threadID uint64) error {
	if err := s.ownThread(ctx, userID, threadID); err != nil {
		return err
	}
	return s.repo.DeleteThread(ctx, threadID)
}

// Reset wipes a user's entire conversation history.
func (s *Service) Reset(ctx context.Context, userID string) error {
	return s.repo.DeleteByUser(ctx, userID)
}

func (s *Service) ownThread(ctx context.Context, userID string, threadID uint64) error {
	t, err := s.repo.GetThread(ctx, threadID)
	if err != nil {
		return err
	}
	if t.UserID != userID {
		return ErrThreadNotFound
	}
	return nil
}
