package guard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"
)

var _ SessionStore = &RedisSessionStore{}

// RedisSessionStore persists session state in Redis, one key space per
// client session. Deployments that render server-side use it so that the
// guard's view of the session survives process restarts.
type RedisSessionStore struct {
	client    redis.UniversalClient
	cfg       Config
	sessionID string
	ttl       time.Duration
}

// RedisStoreOption customizes store construction.
type RedisStoreOption func(*RedisSessionStore)

// WithRedisTTL bounds how long untouched session keys survive.
func WithRedisTTL(ttl time.Duration) RedisStoreOption {
	return func(s *RedisSessionStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisSessionStore builds a store scoped to one client session.
func NewRedisSessionStore(client redis.UniversalClient, cfg Config, sessionID string, opts ...RedisStoreOption) *RedisSessionStore {
	s := &RedisSessionStore{
		client:    client,
		cfg:       cfg,
		sessionID: sessionID,
		ttl:       24 * time.Hour,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

func (s *RedisSessionStore) key(name string) string {
	return "guard:session:" + s.sessionID + ":" + name
}

func (s *RedisSessionStore) ephemeralKey() string {
	return "guard:ephemeral:" + s.sessionID
}

func (s *RedisSessionStore) AccessToken(ctx context.Context) (string, bool) {
	token, err := s.client.Get(ctx, s.key(s.cfg.GetAccessTokenKey())).Result()
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

func (s *RedisSessionStore) SetAccessToken(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key(s.cfg.GetAccessTokenKey()), token, s.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to persist access token")
	}
	return nil
}

func (s *RedisSessionStore) Role(ctx context.Context) (Role, bool) {
	role, err := s.client.Get(ctx, s.key(s.cfg.GetRoleKey())).Result()
	if err != nil || role == "" {
		return "", false
	}
	return Role(role), true
}

func (s *RedisSessionStore) SetRole(ctx context.Context, role Role) error {
	if err := s.client.Set(ctx, s.key(s.cfg.GetRoleKey()), string(role), s.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to persist role marker")
	}
	return nil
}

func (s *RedisSessionStore) UserInfo(ctx context.Context) (map[string]any, bool) {
	raw, err := s.client.Get(ctx, s.key(s.cfg.GetUserInfoKey())).Result()
	if err != nil || raw == "" {
		return nil, false
	}

	info := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil, false
	}

	return info, true
}

func (s *RedisSessionStore) SetUserInfo(ctx context.Context, info map[string]any) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to encode user info")
	}

	if err := s.client.Set(ctx, s.key(s.cfg.GetUserInfoKey()), raw, s.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to persist user info")
	}

	return nil
}

func (s *RedisSessionStore) ClearSession(ctx context.Context) error {
	keys := []string{
		s.key(s.cfg.GetAccessTokenKey()),
		s.key(s.cfg.GetRoleKey()),
		s.key(s.cfg.GetUserInfoKey()),
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to clear session keys")
	}

	return nil
}

func (s *RedisSessionStore) ClearEphemeral(ctx context.Context) error {
	if err := s.client.Del(ctx, s.ephemeralKey()).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to clear ephemeral store")
	}
	return nil
}

// PutEphemeral stores a session-scoped value in the ephemeral hash.
func (s *RedisSessionStore) PutEphemeral(ctx context.Context, key string, value string) error {
	if err := s.client.HSet(ctx, s.ephemeralKey(), key, value).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to store ephemeral value")
	}
	return nil
}

// Ephemeral reads a session-scoped value from the ephemeral hash.
func (s *RedisSessionStore) Ephemeral(ctx context.Context, key string) (string, bool) {
	value, err := s.client.HGet(ctx, s.ephemeralKey(), key).Result()
	if err != nil {
		return "", false
	}
	return value, true
}
