// Package guard implements a client-session and route-access guard: a
// single access decision per navigation that combines token-lifecycle
// evaluation, refresh coordination, forced-logout escalation, and
// profile-completeness gating.
//
// Access decisions:
//   - RouteGuard is the top-level state machine. Every protected
//     navigation runs Init -> TokenChecking -> [Refreshing] ->
//     ProfileChecking -> Resolved, with a terminal Denied state on
//     authentication failures. Protected content is rendered iff the
//     outcome is Allow; every other outcome yields nothing, a loading
//     indicator, or a redirect.
//
// Token lifecycle:
//   - TokenInspector reads the unverified claims segment of the access
//     token for UX timing only (issued-at, expiry). The server remains
//     the authority; a token that cannot be decoded is treated as
//     needing renewal, never as trusted.
//   - RefreshTokenProbe infers whether renewal is even possible by
//     checking the presence of the ambient refresh credential under its
//     historical cookie names. The credential value is never read.
//   - RefreshCoordinator serializes renewal calls (at most one in
//     flight) and replaces the persisted access token atomically. Any
//     renewal failure escalates to forced logout.
//
// Profile gating:
//   - ProfileEvaluator applies role-tagged completeness predicates over
//     ConsumerProfile, ManagerProfile, and UnknownProfile. A failing
//     profile fetch is a soft condition: navigation proceeds as if the
//     check passed, it never strands an authenticated user.
//
// Session state lives behind SessionStore (in-memory or Redis backed)
// and is written only by RefreshCoordinator and ForceLogoutHandler.
package guard
