package chat

import (
	"context"
	"time"

	"github.com/futig/genai-toolkit/internal/entity"
	"github.com/patrickmn/go-cache"
)

// Storage keeps chat sessions for as long as they are in use
type Storage interface {
	// Get returns entity.ErrSessionNotFound for unknown or expired sessions
	Get(ctx context.Context, sessionID string) (*entity.ChatSession, error)
	Set(ctx context.Context, session *entity.ChatSession) error
	Delete(ctx context.Context, sessionID string) error
}

// CacheStorage is an in-process Storage whose entries expire after a period of inactivity
type CacheStorage struct {
	cache *cache.Cache
}

func NewCacheStorage(ttl time.Duration) *CacheStorage {
	return &CacheStorage{
		cache: cache.New(ttl, ttl/2+time.Minute),
	}
}

func (s *CacheStorage) Get(_ context.Context, sessionID string) (*entity.ChatSession, error) {
	v, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}

	stored := v.(*entity.ChatSession)
	session := *stored
	session.History = append([]entity.ChatMessage(nil), stored.History...)
	return &session, nil
}

// Set stores a copy of session and restarts its expiry.
func (s *CacheStorage) Set(_ context.Context, session *entity.ChatSession) error {
	stored := *session
	stored.History = append([]entity.ChatMessage(nil), session.History...)
	s.cache.SetDefault(session.ID, &stored)
	return nil
}

func (s *CacheStorage) Delete(_ context.Context, sessionID string) error {
	s.cache.Delete(sessionID)
	return nil
}

// Len reports how many sessions are live, expired entries not yet swept included.
func (s *CacheStorage) Len() int {
	return s.cache.ItemCount()
}
