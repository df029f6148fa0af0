package targeting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store persists targeting sessions keyed by notice ID. A missing session
// is not an error: Get returns a fresh empty session so callers never
// branch on existence.
type Store interface {
	Get(ctx context.Context, noticeID uuid.UUID) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, noticeID uuid.UUID) error
}

// RedisStore keeps sessions as JSON blobs with a TTL, so abandoned
// targeting work expires on its own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(noticeID uuid.UUID) string {
	return "newsroom:ciblage:" + noticeID.String()
}

func (s *RedisStore) Get(ctx context.Context, noticeID uuid.UUID) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(noticeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewSession(noticeID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load targeting session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		// A corrupt blob should not poison targeting; start over.
		return NewSession(noticeID), nil
	}
	if session.Facets == nil {
		session.Facets = make(State)
	}
	return &session, nil
}

func (s *RedisStore) Save(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode targeting session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(session.NoticeID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save targeting session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, noticeID uuid.UUID) error {
	if err := s.client.Del(ctx, sessionKey(noticeID)).Err(); err != nil {
		return fmt.Errorf("failed to delete targeting session: %w", err)
	}
	return nil
}

// MemoryStore is a process-local Store for development setups without
// Redis.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID]*Session)}
}

func (s *MemoryStore) Get(_ context.Context, noticeID uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[noticeID]
	if !ok {
		return NewSession(noticeID), nil
	}
	return cloneSession(session), nil
}

func (s *MemoryStore) Save(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.NoticeID] = cloneSession(session)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, noticeID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, noticeID)
	return nil
}

func cloneSession(in *Session) *Session {
	out := &Session{
		NoticeID: in.NoticeID,
		Facets:   make(State, len(in.Facets)),
		Selected: append([]uuid.UUID(nil), in.Selected...),
	}
	for k, v := range in.Facets {
		out.Facets[k] = append([]string(nil), v...)
	}
	return out
}
