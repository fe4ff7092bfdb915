package guard

import (
	"net/http"
	"time"

	"github.com/goliatone/go-router"
)

// ContextOutcomeKey is the router-locals key under which the resolved
// outcome is stored for downstream handlers.
const ContextOutcomeKey = "guard_outcome"

// GuardedRoutes exposes the RouteGuard as go-router middleware for
// server-rendered deployments. A RouteGuard instance governs one client
// session; hosts that serve many sessions build one GuardedRoutes per
// session store scope.
type GuardedRoutes struct {
	guard  *RouteGuard
	cfg    Config
	Logger Logger
}

// NewGuardedRoutes builds the middleware adapter.
func NewGuardedRoutes(guard *RouteGuard, cfg Config) *GuardedRoutes {
	return &GuardedRoutes{
		guard:  guard,
		cfg:    cfg,
		Logger: defLogger{},
	}
}

// Protected runs a full guard evaluation per request and maps the
// outcome onto the response: Allow continues the chain, Redirect and
// Denied issue a client redirect carrying the rejected route, Pending
// (a superseded cycle) renders nothing.
func (a *GuardedRoutes) Protected(req GuardRequest) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			routeReq := req
			if routeReq.Path == "" {
				routeReq.Path = ctx.OriginalURL()
			}

			outcome := a.guard.Evaluate(ctx.Context(), routeReq)

			switch outcome.Status {
			case OutcomeAllow:
				ctx.Locals(ContextOutcomeKey, outcome)
				ctx.SetContext(WithOutcomeContext(ctx.Context(), outcome))
				return ctx.Next()
			case OutcomeRedirect:
				a.SetRedirect(ctx)
				return ctx.Redirect(outcome.Path, a.redirectStatus(ctx))
			case OutcomeDenied:
				a.Logger.Info("access denied, redirecting to login",
					"reason", outcome.Reason, "path", routeReq.Path)
				a.SetRedirect(ctx)
				return ctx.Redirect(a.cfg.GetLoginPath(), a.redirectStatus(ctx))
			default:
				// superseded cycle: neither content nor redirect.
				return nil
			}
		}
	}
}

func (a *GuardedRoutes) redirectStatus(ctx router.Context) int {
	if ctx.Method() == string(router.GET) {
		return http.StatusFound
	}
	return http.StatusSeeOther
}

// SetRedirect remembers the rejected route so login can bounce the
// visitor back after authentication.
func (a *GuardedRoutes) SetRedirect(ctx router.Context) {
	rejectedRoute := a.cfg.GetRejectedRouteKey()

	a.Logger.Info("Setting redirect cookie", "key", rejectedRoute, "path", ctx.OriginalURL())

	ctx.Cookie(&router.Cookie{
		Name:     rejectedRoute,
		Value:    ctx.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// GetRedirect consumes the rejected-route cookie, returning def when
// none was set.
func (a *GuardedRoutes) GetRedirect(ctx router.Context, def ...string) string {
	rejectedRoute := a.cfg.GetRejectedRouteKey()
	r := ctx.Cookies(rejectedRoute)
	if r == "" {
		if len(def) > 0 {
			return def[0]
		}
		return a.cfg.GetHomePath()
	}
	a.cookieDel(ctx, rejectedRoute)
	return r
}

func (a *GuardedRoutes) cookieDel(ctx router.Context, name string) {
	ctx.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// RequestCookieSource adapts the inbound request cookies into a
// CookieSource so the presence probe can run server-side.
func RequestCookieSource(ctx router.Context) CookieSource {
	return CookieSourceFunc(func(name string) (string, bool) {
		value := ctx.Cookies(name)
		return value, value != ""
	})
}
