// Package chat runs persona-driven conversations on top of a completion client.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/futig/genai-toolkit/internal/config"
	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Completer interface {
	Complete(ctx context.Context, messages []entity.ChatMessage) (string, error)
}

// Service owns the conversation flow of one persona.
type Service struct {
	storage     Storage
	completer   Completer
	personaName string
	persona     config.Persona

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

// sessionLock is dropped from Service.locks once no caller holds or waits on it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(storage Storage, completer Completer, personaName string, persona config.Persona) *Service {
	return &Service{
		storage:     storage,
		completer:   completer,
		personaName: personaName,
		persona:     persona,
		locks:       make(map[string]*sessionLock),
	}
}

func (s *Service) PersonaName() string {
	return s.personaName
}

// Start resets the session to the persona's system prompt and returns the greeting.
func (s *Service) Start(ctx context.Context, sessionID string) (string, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	now := time.Now()
	session := &entity.ChatSession{
		ID:        sessionID,
		Persona:   s.personaName,
		History:   s.initialHistory(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.Set(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	ctxzap.Info(ctx, "chat session started", zap.String("session_id", sessionID), zap.String("persona", s.personaName))

	return s.persona.Greeting, nil
}

// Session returns the stored session or entity.ErrSessionNotFound.
func (s *Service) Session(ctx context.Context, sessionID string) (*entity.ChatSession, error) {
	return s.storage.Get(ctx, sessionID)
}

// HandleMessage processes one user turn and returns the replies to show, in order.
// Completion failures become a "no response: ..." reply instead of an error.
func (s *Service) HandleMessage(ctx context.Context, sessionID string, msg entity.IncomingMessage) ([]string, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	session, err := s.storage.Get(ctx, sessionID)
	if errors.Is(err, entity.ErrSessionNotFound) {
		now := time.Now()
		session = &entity.ChatSession{ID: sessionID, Persona: s.personaName, CreatedAt: now}
	} else if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(session.History) == 0 {
		session.History = s.initialHistory()
	}

	replies := make([]string, 0, len(msg.Attachments)+1)
	for _, a := range msg.Attachments {
		session.History = append(session.History, entity.UserMessage(a.Content))
		replies = append(replies, "Uploaded file: "+a.Name)
	}

	session.History = append(session.History, entity.UserMessage(msg.Content))

	reply := s.respond(ctx, session.History, msg.Content)
	if reply.ok {
		session.History = append(session.History, entity.AssistantMessage(reply.text))
	}
	replies = append(replies, reply.text)

	session.UpdatedAt = time.Now()
	if err := s.storage.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return replies, nil
}

type response struct {
	text string
	ok   bool
}

func (s *Service) respond(ctx context.Context, history []entity.ChatMessage, content string) response {
	if s.persona.Responder == config.ResponderEcho {
		return response{text: "Received: " + content, ok: true}
	}

	text, err := s.completer.Complete(ctx, history)
	if err != nil {
		ctxzap.Warn(ctx, "completion failed", zap.Error(err))
		return response{text: fmt.Sprintf("no response: %v", err)}
	}
	return response{text: text, ok: true}
}

func (s *Service) initialHistory() []entity.ChatMessage {
	if s.persona.SystemPrompt == "" {
		return []entity.ChatMessage{}
	}
	return []entity.ChatMessage{entity.SystemMessage(s.persona.SystemPrompt)}
}

func (s *Service) lock(sessionID string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.locksMu.Unlock()
	}
}
