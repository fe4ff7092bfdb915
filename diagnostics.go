package guard

import (
	"github.com/goliatone/go-print"
)

// Diagnostics snapshots the guard's current evaluation state. This is
// the explicit replacement for the old debug helper that attached the
// guard's internals to the global scope in non-production builds.
func (g *RouteGuard) Diagnostics() map[string]any {
	g.mu.Lock()
	defer g.mu.Unlock()

	snapshot := map[string]any{
		"evaluations":  g.evaluations.Load(),
		"last_path":    g.lastPath,
		"last_outcome": string(g.lastOutcome.Status),
	}

	if g.lastOutcome.Reason != "" {
		snapshot["last_reason"] = g.lastOutcome.Reason
	}

	if g.cycle != nil {
		snapshot["cycle_id"] = g.cycle.id.String()
		snapshot["cycle_path"] = g.cycle.path
		snapshot["cycle_state"] = string(g.cycle.state)
		snapshot["cycle_live"] = g.cycle.live.Load()
	}

	if g.refresher != nil {
		attempts, failures, shared := g.refresher.Stats()
		snapshot["renewal_attempts"] = attempts
		snapshot["renewal_failures"] = failures
		snapshot["renewal_shared"] = shared
	}

	return snapshot
}

// DebugString renders the diagnostics snapshot for log output.
func (g *RouteGuard) DebugString() string {
	return print.MaybePrettyJSON(g.Diagnostics())
}
