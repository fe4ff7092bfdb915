package guard

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-errors"
)

// RefreshCoordinator orchestrates access token renewal. At most one
// renewal call is in flight at any time: overlapping triggers (two
// guarded routes mounting concurrently) share the first caller's result
// instead of racing to hit the endpoint twice.
type RefreshCoordinator struct {
	client RenewalClient
	store  SessionStore
	logger Logger

	mu       sync.Mutex
	inflight *renewalCall

	attempts atomic.Int64
	failures atomic.Int64
	shared   atomic.Int64
}

type renewalCall struct {
	done  chan struct{}
	token string
	err   error
}

// RefreshCoordinatorOption customizes coordinator construction.
type RefreshCoordinatorOption func(*RefreshCoordinator)

// WithRefreshLogger overrides the coordinator logger.
func WithRefreshLogger(logger Logger) RefreshCoordinatorOption {
	return func(rc *RefreshCoordinator) {
		if logger != nil {
			rc.logger = logger
		}
	}
}

// NewRefreshCoordinator wires a renewal client to the session store.
func NewRefreshCoordinator(client RenewalClient, store SessionStore, opts ...RefreshCoordinatorOption) *RefreshCoordinator {
	rc := &RefreshCoordinator{
		client: client,
		store:  store,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(rc)
		}
	}

	return rc
}

// Renew obtains a fresh access token and persists it, replacing the old
// token in a single store write so there is no intermediate state where
// neither token is readable. Every failure maps to ErrRenewalFailed; the
// transport status rides along as metadata for diagnostics but does not
// change the escalation: any renewal failure forces logout.
func (rc *RefreshCoordinator) Renew(ctx context.Context) (string, error) {
	rc.mu.Lock()
	if call := rc.inflight; call != nil {
		rc.mu.Unlock()
		rc.shared.Add(1)
		select {
		case <-call.done:
			return call.token, call.err
		case <-ctx.Done():
			return "", errors.Wrap(ctx.Err(), ErrRenewalFailed.Category, ErrRenewalFailed.Message).
				WithTextCode(ErrRenewalFailed.TextCode)
		}
	}

	call := &renewalCall{done: make(chan struct{})}
	rc.inflight = call
	rc.mu.Unlock()

	call.token, call.err = rc.renew(ctx)
	close(call.done)

	rc.mu.Lock()
	rc.inflight = nil
	rc.mu.Unlock()

	return call.token, call.err
}

func (rc *RefreshCoordinator) renew(ctx context.Context) (string, error) {
	rc.attempts.Add(1)

	result, err := rc.client.Renew(ctx)
	if err != nil {
		rc.failures.Add(1)
		rc.logger.Error("token renewal call failed", "error", err, "status", RenewalStatus(err))
		return "", renewalFailure(err, RenewalStatus(err))
	}

	if result == nil || result.AccessToken == "" {
		rc.failures.Add(1)
		rc.logger.Error("token renewal returned no access token")
		return "", renewalFailure(nil, 0)
	}

	if err := rc.store.SetAccessToken(ctx, result.AccessToken); err != nil {
		rc.failures.Add(1)
		rc.logger.Error("failed to persist renewed access token", "error", err)
		return "", renewalFailure(err, 0)
	}

	rc.logger.Debug("access token renewed", "expires_in", resultExpiry(result))

	return result.AccessToken, nil
}

// Stats reports renewal counters for diagnostics.
func (rc *RefreshCoordinator) Stats() (attempts, failures, shared int64) {
	return rc.attempts.Load(), rc.failures.Load(), rc.shared.Load()
}

func renewalFailure(cause error, status int) error {
	if cause == nil {
		err := ErrRenewalFailed.Clone()
		if err == nil {
			return ErrRenewalFailed
		}
		return err
	}

	failure := errors.Wrap(cause, ErrRenewalFailed.Category, ErrRenewalFailed.Message).
		WithTextCode(ErrRenewalFailed.TextCode)

	if status > 0 {
		failure = failure.WithMetadata(map[string]any{"status": status})
	}

	return failure
}

func resultExpiry(result *RenewalResult) int {
	if result == nil {
		return 0
	}
	return result.ExpiresInSeconds
}
