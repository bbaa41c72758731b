package guestauth

import (
	"context"
	"errors"
	"time"

	"darshan/pkg/cache"
)

// Channel is the OTP delivery channel
type Channel string

const (
	ChannelMobile Channel = "MOBILE"
	ChannelEmail  Channel = "EMAIL"
)

// ErrSessionNotFound is returned when a session id has no stored session
// (expired, torn down, or never created)
var ErrSessionNotFound = errors.New("session not found")

// Session is a verified guest session: the upstream bearer token together
// with the contact it was issued for. It lives in session-scoped storage
// and is destroyed on teardown or upstream 401/403.
type Session struct {
	ID          string    `json:"id"`
	Contact     string    `json:"contact"`
	Channel     Channel   `json:"channel"`
	Token       string    `json:"token"`
	TokenExpiry int64     `json:"token_expiry"` // epoch millis, as issued upstream
	CreatedAt   time.Time `json:"created_at"`
}

// SessionStore holds verified sessions with a bounded lifetime
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type redisSessionStore struct {
	cache cache.Service
	ttl   time.Duration
}

// NewSessionStore creates a Redis-backed session store
func NewSessionStore(cacheSvc cache.Service, ttl time.Duration) SessionStore {
	return &redisSessionStore{cache: cacheSvc, ttl: ttl}
}

func sessionKey(id string) string {
	return "darshan:session:" + id
}

func (s *redisSessionStore) Save(ctx context.Context, session *Session) error {
	return s.cache.Set(ctx, sessionKey(session.ID), session, s.ttl)
}

func (s *redisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	var session Session
	err := s.cache.Get(ctx, sessionKey(id), &session)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, sessionKey(id))
}
