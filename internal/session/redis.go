package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agora/internal/cache"
	"agora/internal/models"
	"agora/internal/observability"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so they survive restarts and are shared
// across replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a RedisStore. A zero ttl stores sessions without expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return cache.SessionKey(token)
}

func (r *RedisStore) Create(ctx context.Context, user models.User) (Session, error) {
	s, err := newSession(user, r.ttl, time.Now().UTC())
	if err != nil {
		return Session{}, err
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return Session{}, fmt.Errorf("encode session: %w", err)
	}
	ok, err := r.client.SetNX(ctx, sessionKey(s.Token), payload, r.ttl).Result()
	if err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return Session{}, errors.New("session token collision")
	}
	observability.SessionEvents.WithLabelValues("created").Inc()
	return s, nil
}

func (r *RedisStore) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	payload, err := r.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Expired(time.Now().UTC()) {
		return nil, nil
	}
	return &s, nil
}

func (r *RedisStore) Revoke(ctx context.Context, token string) error {
	n, err := r.client.Del(ctx, sessionKey(token)).Result()
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	observability.SessionEvents.WithLabelValues("revoked").Inc()
	return nil
}
