package guard

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// SessionStore is the persisted session state: the access token, the role
// marker, and any cached user info. Only RefreshCoordinator and
// ForceLogoutHandler write the access token; writes are last-write-wins.
type SessionStore interface {
	AccessToken(ctx context.Context) (string, bool)
	SetAccessToken(ctx context.Context, token string) error
	Role(ctx context.Context) (Role, bool)
	SetRole(ctx context.Context, role Role) error
	UserInfo(ctx context.Context) (map[string]any, bool)
	SetUserInfo(ctx context.Context, info map[string]any) error
	// ClearSession removes the persistent session keys (token, role, user info).
	ClearSession(ctx context.Context) error
	// ClearEphemeral wipes the session-scoped store wholesale.
	ClearEphemeral(ctx context.Context) error
}

// CookieSource exposes ambient transport-level cookies by name. Presence
// probing only needs the textual value; HTTP-only credentials surface
// through whatever jar the host application wires in.
type CookieSource interface {
	Cookie(name string) (string, bool)
}

// CookieSourceFunc adapts a function into a CookieSource.
type CookieSourceFunc func(name string) (string, bool)

func (f CookieSourceFunc) Cookie(name string) (string, bool) {
	if f == nil {
		return "", false
	}
	return f(name)
}

// Navigator performs client-side navigation. Navigate may silently no-op
// when invoked outside an active routing context; Replace is the hard
// location replacement used as a fallback.
type Navigator interface {
	Navigate(path string, state map[string]any) error
	Replace(path string) error
	Location() string
}

// RenewalResult is the renewal endpoint response.
type RenewalResult struct {
	AccessToken      string `json:"accessToken"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
}

// RenewalClient calls the renewal endpoint. The request carries the
// ambient refresh credential automatically; there is no explicit body.
type RenewalClient interface {
	Renew(ctx context.Context) (*RenewalResult, error)
}

// ProfileService fetches the role-appropriate domain profile. Absence of
// expected structural fields decodes to an incomplete profile, not an
// error; errors are reserved for transport failures.
type ProfileService interface {
	FetchProfile(ctx context.Context, role Role) (Profile, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GUARD "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GUARD "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GUARD "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
