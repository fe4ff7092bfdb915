package guard

import (
	"context"
	"time"
)

// ForceLogoutHandler tears the session down unconditionally and returns
// the visitor to login. Only authentication-path failures trigger it:
// absent renewal credential, failed renewal, explicit logout.
type ForceLogoutHandler struct {
	store  SessionStore
	nav    Navigator
	cfg    Config
	logger Logger
	sleep  func(time.Duration)
}

// ForceLogoutOption customizes handler construction.
type ForceLogoutOption func(*ForceLogoutHandler)

// WithLogoutLogger overrides the handler logger.
func WithLogoutLogger(logger Logger) ForceLogoutOption {
	return func(h *ForceLogoutHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithLogoutSleep injects the wait used before the navigation fallback
// check (useful for tests).
func WithLogoutSleep(sleep func(time.Duration)) ForceLogoutOption {
	return func(h *ForceLogoutHandler) {
		if sleep != nil {
			h.sleep = sleep
		}
	}
}

// NewForceLogoutHandler wires the handler to the session store and the
// host application's navigator.
func NewForceLogoutHandler(store SessionStore, nav Navigator, cfg Config, opts ...ForceLogoutOption) *ForceLogoutHandler {
	h := &ForceLogoutHandler{
		store:  store,
		nav:    nav,
		cfg:    cfg,
		logger: defLogger{},
		sleep:  time.Sleep,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	return h
}

// ForceLogout clears the persisted session keys and the session-scoped
// store, then navigates to login carrying the attempted path as
// redirect-back state. If the client-side navigation has not taken
// effect within the configured fallback delay, it escalates to a hard
// location replace. Every failure along the way is logged and swallowed:
// forced logout never surfaces an error to the caller.
func (h *ForceLogoutHandler) ForceLogout(ctx context.Context, reason, attemptedPath string) {
	h.logger.Info("forcing logout", "reason", reason, "from", attemptedPath)

	if err := h.store.ClearSession(ctx); err != nil {
		h.logger.Error("failed clearing persistent session keys", "error", err)
	}

	if err := h.store.ClearEphemeral(ctx); err != nil {
		h.logger.Error("failed clearing session-scoped store", "error", err)
	}

	login := h.cfg.GetLoginPath()
	state := map[string]any{"notice": reason}
	if attemptedPath != "" {
		state["from"] = attemptedPath
	}

	if err := h.nav.Navigate(login, state); err != nil {
		h.logger.Error("login navigation errored", "error", err)
	}

	// Navigation calls can silently no-op outside an active routing
	// context. Observe the resulting location and fall back hard.
	h.sleep(h.cfg.GetNavigationFallbackDelay())

	if h.nav.Location() == login {
		return
	}

	h.logger.Error("login navigation did not take effect, replacing location",
		"error", ErrNavigationFailed, "reason", reason)

	if err := h.nav.Replace(login); err != nil {
		h.logger.Error("hard location replace failed", "error", err)
	}
}
