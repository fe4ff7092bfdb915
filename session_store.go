package guard

import (
	"context"
	"sync"
)

var _ SessionStore = &MemorySessionStore{}

// MemorySessionStore keeps session state in process memory, mirroring a
// browser tab's storage split: a persistent key space that survives
// navigation and an ephemeral one wiped wholesale on forced logout.
type MemorySessionStore struct {
	cfg Config

	mu         sync.RWMutex
	persistent map[string]any
	ephemeral  map[string]any
}

// NewMemorySessionStore builds an empty store keyed by the configured
// storage key names.
func NewMemorySessionStore(cfg Config) *MemorySessionStore {
	return &MemorySessionStore{
		cfg:        cfg,
		persistent: map[string]any{},
		ephemeral:  map[string]any{},
	}
}

func (s *MemorySessionStore) AccessToken(_ context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.persistent[s.cfg.GetAccessTokenKey()].(string)
	return token, ok && token != ""
}

func (s *MemorySessionStore) SetAccessToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistent[s.cfg.GetAccessTokenKey()] = token
	return nil
}

func (s *MemorySessionStore) Role(_ context.Context) (Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.persistent[s.cfg.GetRoleKey()].(string)
	return Role(role), ok && role != ""
}

func (s *MemorySessionStore) SetRole(_ context.Context, role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistent[s.cfg.GetRoleKey()] = string(role)
	return nil
}

func (s *MemorySessionStore) UserInfo(_ context.Context) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.persistent[s.cfg.GetUserInfoKey()].(map[string]any)
	return info, ok
}

func (s *MemorySessionStore) SetUserInfo(_ context.Context, info map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistent[s.cfg.GetUserInfoKey()] = info
	return nil
}

// ClearSession removes the session keys (token, role, user info) but
// leaves unrelated persistent entries alone.
func (s *MemorySessionStore) ClearSession(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.persistent, s.cfg.GetAccessTokenKey())
	delete(s.persistent, s.cfg.GetRoleKey())
	delete(s.persistent, s.cfg.GetUserInfoKey())
	return nil
}

// ClearEphemeral wipes the session-scoped key space wholesale.
func (s *MemorySessionStore) ClearEphemeral(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ephemeral = map[string]any{}
	return nil
}

// PutEphemeral stores a session-scoped value.
func (s *MemorySessionStore) PutEphemeral(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ephemeral[key] = value
}

// Ephemeral reads a session-scoped value.
func (s *MemorySessionStore) Ephemeral(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.ephemeral[key]
	return value, ok
}
