package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/logger"
)

// Compile-time interface check.
var _ domain.SessionStore = (*RedisStore)(nil)

// DefaultSessionTTL bounds how long an idle session survives in Redis.
const DefaultSessionTTL = 24 * time.Hour

const redisKeyPrefix = "nutriplan:session:"

// RedisOption configures the RedisStore.
type RedisOption func(*RedisStore)

// WithTTL overrides the session expiry. Zero disables expiry.
func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = d }
}

// WithKeyPrefix namespaces keys, e.g. per test run.
func WithKeyPrefix(p string) RedisOption {
	return func(s *RedisStore) { s.prefix = p }
}

// RedisStore keeps sessions as JSON values with a sliding TTL: every Save
// pushes the expiry forward.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	log    *logger.Logger
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr string, log *logger.Logger, opts ...RedisOption) (*RedisStore, error) {
	s := &RedisStore{
		rdb:    redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    DefaultSessionTTL,
		prefix: redisKeyPrefix,
		log:    log,
	}
	for _, o := range opts {
		o(s)
	}
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		s.rdb.Close()
		return nil, fmt.Errorf("storage: redis ping %s: %w", addr, err)
	}
	log.Info("redis session store ready at %s (ttl=%s)", addr, s.ttl)
	return s, nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.rdb.Close() }

func (s *RedisStore) key(id string) string { return s.prefix + id }

// Save stores the session and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, session *domain.Session) error {
	b, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("storage: encode session %s: %w", session.ID, err)
	}
	if err := s.rdb.Set(ctx, s.key(session.ID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("storage: redis set %s: %w", session.ID, err)
	}
	s.log.Debug("saved session %s (%d bytes)", session.ID, len(b))
	return nil
}

// Load retrieves a session by ID.
func (s *RedisStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	b, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: redis get %s: %w", id, err)
	}
	var sess domain.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("storage: decode session %s: %w", id, err)
	}
	return &sess, nil
}

// Delete removes a session by ID.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.rdb.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("storage: redis del %s: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns every live session. Sessions that expire mid-scan are
// skipped.
func (s *RedisStore) List(ctx context.Context) ([]*domain.Session, error) {
	var out []*domain.Session
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		id := iter.Val()[len(s.prefix):]
		sess, err := s.Load(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("storage: redis scan: %w", err)
	}
	return out, nil
}
