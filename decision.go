package guard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// GuardState identifies where an evaluation cycle currently is.
type GuardState string

const (
	StateInit            GuardState = "init"
	StateTokenChecking   GuardState = "token_checking"
	StateRefreshing      GuardState = "refreshing"
	StateProfileChecking GuardState = "profile_checking"
	StateResolved        GuardState = "resolved"
	StateDenied          GuardState = "denied"
)

// OutcomeStatus is the terminal classification of an evaluation cycle.
type OutcomeStatus string

const (
	OutcomePending  OutcomeStatus = "pending"
	OutcomeDenied   OutcomeStatus = "denied"
	OutcomeRedirect OutcomeStatus = "redirect"
	OutcomeAllow    OutcomeStatus = "allow"
)

// GuardOutcome is the access decision for one navigation. Outcomes are
// produced once per cycle and replaced, never mutated. Protected content
// renders iff Status is OutcomeAllow; every other status renders nothing,
// a loading indicator, or a redirect, and never both.
type GuardOutcome struct {
	Status OutcomeStatus
	// Path is the redirect target for OutcomeRedirect.
	Path string
	// State carries navigation state, notably the originally requested
	// path under "from" so login can bounce the visitor back.
	State map[string]any
	// Reason is set for OutcomeDenied, for diagnostics and the
	// user-visible notice.
	Reason string
}

// Allowed reports whether protected children may render.
func (o GuardOutcome) Allowed() bool {
	return o.Status == OutcomeAllow
}

func allowOutcome() GuardOutcome {
	return GuardOutcome{Status: OutcomeAllow}
}

func pendingOutcome() GuardOutcome {
	return GuardOutcome{Status: OutcomePending}
}

func deniedOutcome(reason string) GuardOutcome {
	return GuardOutcome{Status: OutcomeDenied, Reason: reason}
}

func redirectOutcome(path, from string) GuardOutcome {
	out := GuardOutcome{Status: OutcomeRedirect, Path: path}
	if from != "" {
		out.State = map[string]any{"from": from}
	}
	return out
}

// GuardRequest is what a route declares about itself. Immutable per
// route definition.
type GuardRequest struct {
	// Path is the requested navigation target, preserved as
	// redirect-back state on login redirects.
	Path string

	RequireAuth      bool
	RequiredUserType Role

	CheckProfile            bool
	RedirectIfProfileExists bool
	RedirectIfNoProfile     bool

	// Redirect overrides; when empty the configured role-specific
	// defaults apply.
	ProfileExistsTarget string
	ProfileSetupTarget  string
}

type evaluationCycle struct {
	id    uuid.UUID
	path  string
	state GuardState
	live  atomic.Bool
}

func (c *evaluationCycle) alive() bool {
	return c != nil && c.live.Load()
}

// RouteGuard is the top-level access decision state machine. One
// instance governs one tab's navigation; evaluations for a new path
// cancel the previous cycle, and late-arriving asynchronous results from
// a cancelled cycle are discarded rather than applied.
type RouteGuard struct {
	cfg       Config
	store     SessionStore
	inspector *TokenInspector
	probe     *RefreshTokenProbe
	refresher *RefreshCoordinator
	evaluator *ProfileEvaluator
	logout    *ForceLogoutHandler
	logger    Logger
	now       func() time.Time

	mu          sync.Mutex
	cycle       *evaluationCycle
	lastOutcome GuardOutcome
	lastPath    string
	evaluations atomic.Int64
}

// RouteGuardOption customizes guard construction.
type RouteGuardOption func(*RouteGuard)

// WithGuardClock injects a custom clock (useful for tests).
func WithGuardClock(clock func() time.Time) RouteGuardOption {
	return func(g *RouteGuard) {
		if clock != nil {
			g.now = clock
		}
	}
}

// WithGuardLogger overrides the guard logger.
func WithGuardLogger(logger Logger) RouteGuardOption {
	return func(g *RouteGuard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewRouteGuard wires the guard components together.
func NewRouteGuard(
	cfg Config,
	store SessionStore,
	inspector *TokenInspector,
	probe *RefreshTokenProbe,
	refresher *RefreshCoordinator,
	evaluator *ProfileEvaluator,
	logout *ForceLogoutHandler,
	opts ...RouteGuardOption,
) *RouteGuard {
	g := &RouteGuard{
		cfg:       cfg,
		store:     store,
		inspector: inspector,
		probe:     probe,
		refresher: refresher,
		evaluator: evaluator,
		logout:    logout,
		logger:    defLogger{},
		now:       time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Evaluate runs one full decision cycle for the given route and returns
// the outcome. ProfileChecking never begins before the token phase has
// reached a non-pending state; the only suspension points are the
// renewal call and the profile fetch. A new Evaluate cancels any cycle
// still in flight.
func (g *RouteGuard) Evaluate(ctx context.Context, req GuardRequest) GuardOutcome {
	cycle := g.beginCycle(req.Path)
	g.evaluations.Add(1)

	outcome := g.evaluate(ctx, cycle, req)

	g.mu.Lock()
	defer g.mu.Unlock()
	if !cycle.alive() {
		// torn down mid-flight: discard, leave the previous outcome.
		return pendingOutcome()
	}
	cycle.live.Store(false)
	g.lastOutcome = outcome
	g.lastPath = req.Path
	return outcome
}

// Cancel tears down the in-flight cycle, if any. Late-arriving renewal
// or profile results for that cycle are discarded.
func (g *RouteGuard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cycle != nil {
		g.cycle.live.Store(false)
	}
}

// LastOutcome returns the most recently applied outcome and its path.
func (g *RouteGuard) LastOutcome() (GuardOutcome, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastOutcome, g.lastPath
}

func (g *RouteGuard) beginCycle(path string) *evaluationCycle {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cycle != nil {
		g.cycle.live.Store(false)
	}

	cycle := &evaluationCycle{
		id:    uuid.New(),
		path:  path,
		state: StateInit,
	}
	cycle.live.Store(true)
	g.cycle = cycle

	return cycle
}

func (g *RouteGuard) evaluate(ctx context.Context, cycle *evaluationCycle, req GuardRequest) GuardOutcome {
	// Public routes short-circuit: no token reads, no network calls,
	// regardless of token state.
	if !req.RequireAuth {
		cycle.state = StateResolved
		return allowOutcome()
	}

	cycle.state = StateTokenChecking
	now := g.now()

	token, ok := g.store.AccessToken(ctx)
	if !ok || token == "" {
		g.logger.Info("no access token, redirecting to login", "path", req.Path, "cycle", cycle.id)
		cycle.state = StateResolved
		return redirectOutcome(g.cfg.GetLoginPath(), req.Path)
	}

	// A token written moments ago skips the plausibility probe and the
	// renewal entirely; the ambient credential may not have propagated
	// yet and probing now would race into a spurious forced logout.
	if !g.inspector.IsFreshlyIssued(token, now) && g.inspector.NeedsRenewal(token, now) {
		if !g.probe.Present() {
			g.logger.Error("renewal needed but no refresh credential present",
				"path", req.Path, "cycle", cycle.id, "error", ErrRefreshCredentialAbsent)
			cycle.state = StateDenied
			g.logout.ForceLogout(ctx, ErrRefreshCredentialAbsent.Message, req.Path)
			return deniedOutcome(ErrRefreshCredentialAbsent.Message)
		}

		cycle.state = StateRefreshing
		renewed, err := g.refresher.Renew(ctx)
		if !cycle.alive() {
			return pendingOutcome()
		}
		if err != nil {
			g.logger.Error("token renewal failed", "path", req.Path, "status", RenewalStatus(err), "error", err)
			cycle.state = StateDenied
			g.logout.ForceLogout(ctx, "renewal failed", req.Path)
			return deniedOutcome("renewal failed")
		}
		token = renewed
	}

	role := g.currentRole(ctx, token)

	if req.CheckProfile {
		cycle.state = StateProfileChecking
		outcome := g.checkProfile(ctx, cycle, req, role)
		if outcome.Status == OutcomePending {
			return outcome
		}
		return g.applyRoleOverride(req, role, outcome)
	}

	cycle.state = StateResolved
	return g.applyRoleOverride(req, role, allowOutcome())
}

func (g *RouteGuard) checkProfile(ctx context.Context, cycle *evaluationCycle, req GuardRequest, role Role) GuardOutcome {
	complete, fetched := g.evaluator.Evaluate(ctx, role)
	if !cycle.alive() {
		return pendingOutcome()
	}

	// Fetch failure fails open: both redirect rules are skipped and the
	// navigation proceeds. Incompleteness is a soft redirect, never an
	// authentication failure.
	if !fetched {
		cycle.state = StateResolved
		return allowOutcome()
	}

	if req.RedirectIfProfileExists && complete {
		cycle.state = StateResolved
		target := req.ProfileExistsTarget
		if target == "" {
			target = DefaultHome(g.cfg, role)
		}
		return redirectOutcome(target, "")
	}

	if req.RedirectIfNoProfile && !complete {
		cycle.state = StateResolved
		target := req.ProfileSetupTarget
		if target == "" {
			target = SetupPath(g.cfg, role)
		}
		return redirectOutcome(target, "")
	}

	cycle.state = StateResolved
	return allowOutcome()
}

// applyRoleOverride enforces the declared user type after resolution.
// Role mismatch always overrides profile-completeness redirects: the
// visitor lands on their own role's default home.
func (g *RouteGuard) applyRoleOverride(req GuardRequest, role Role, outcome GuardOutcome) GuardOutcome {
	if req.RequiredUserType == "" || role == req.RequiredUserType {
		return outcome
	}

	g.logger.Info("role mismatch, redirecting to role home",
		"required", req.RequiredUserType, "actual", role)

	return redirectOutcome(DefaultHome(g.cfg, role), "")
}

// currentRole prefers the persisted role marker and falls back to the
// unverified token role claim.
func (g *RouteGuard) currentRole(ctx context.Context, token string) Role {
	if role, ok := g.store.Role(ctx); ok && role != "" {
		return role
	}

	claims, err := g.inspector.Claims(token)
	if err != nil {
		return ""
	}

	return claims.Role()
}
