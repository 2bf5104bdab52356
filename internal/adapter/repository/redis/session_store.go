package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/infrastructure/metrics"
)

// SessionStore implements usecase.SessionStore using Redis.
// Each session is one JSON value whose TTL is refreshed on every read.
type SessionStore struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	retrier *Retrier
	metrics *metrics.Metrics
}

// NewSessionStore creates a new SessionStore. m may be nil.
func NewSessionStore(client *redis.Client, ttl time.Duration, retrier *Retrier, m *metrics.Metrics) *SessionStore {
	return &SessionStore{
		client:  client,
		prefix:  "session:",
		ttl:     ttl,
		retrier: retrier,
		metrics: m,
	}
}

// Get retrieves a session and extends its TTL.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	var raw []byte
	err := s.do(ctx, "get", func() error {
		var err error
		raw, err = s.client.Get(ctx, s.prefix+id).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	if err := s.do(ctx, "expire", func() error {
		return s.client.Expire(ctx, s.prefix+id, s.ttl).Err()
	}); err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}

	return &session, nil
}

// Save stores a session, replacing any previous value.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.do(ctx, "set", func() error {
		return s.client.Set(ctx, s.prefix+session.ID, raw, s.ttl).Err()
	})
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.do(ctx, "del", func() error {
		return s.client.Del(ctx, s.prefix+id).Err()
	})
}

// Ping checks the connection.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) do(ctx context.Context, op string, fn func() error) error {
	if s.metrics != nil {
		s.metrics.RedisOperations.WithLabelValues(op).Inc()
	}

	var err error
	if s.retrier != nil {
		err = s.retrier.Retry(ctx, fn)
	} else {
		err = fn()
	}

	if err != nil && !errors.Is(err, redis.Nil) && s.metrics != nil {
		s.metrics.RedisErrors.WithLabelValues(op).Inc()
	}
	return err
}
