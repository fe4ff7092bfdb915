package guard

import "context"

var outcomeCtxKey = &contextKey{"outcome"}
var roleCtxKey = &contextKey{"role"}

type contextKey struct {
	name string
}

// WithOutcomeContext sets the resolved GuardOutcome in the given context.
func WithOutcomeContext(ctx context.Context, outcome GuardOutcome) context.Context {
	return context.WithValue(ctx, outcomeCtxKey, outcome)
}

// OutcomeFromContext finds the guard outcome from the context.
func OutcomeFromContext(ctx context.Context) (GuardOutcome, bool) {
	outcome, ok := ctx.Value(outcomeCtxKey).(GuardOutcome)
	return outcome, ok
}

// WithRoleContext sets the authenticated role in the given context.
func WithRoleContext(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleCtxKey, role)
}

// RoleFromContext finds the authenticated role from the context.
func RoleFromContext(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(roleCtxKey).(Role)
	return role, ok
}
