package guard

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenClaims is the decoded, UNVERIFIED claims segment of the access
// token. It exists for UX timing (renewal scheduling, freshness checks)
// and role hints only; nothing here is treated as server-verified.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserRole string `json:"role,omitempty"`
}

// Expires returns the expiration time, zero when the claim is absent.
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// Issued returns the issued-at time, zero when the claim is absent.
func (c *TokenClaims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Role returns the role claim.
func (c *TokenClaims) Role() Role {
	return Role(c.UserRole)
}

// TokenInspector decodes and inspects bearer token claims. Pure, no I/O.
type TokenInspector struct {
	skew        time.Duration
	freshWindow time.Duration
	parser      *jwt.Parser
}

// TokenInspectorOption customizes inspector construction.
type TokenInspectorOption func(*TokenInspector)

// WithRenewalSkew overrides the lead time before expiry at which a token
// counts as needing renewal.
func WithRenewalSkew(skew time.Duration) TokenInspectorOption {
	return func(ti *TokenInspector) {
		if skew >= 0 {
			ti.skew = skew
		}
	}
}

// WithFreshWindow overrides the post-issuance window in which a token
// counts as freshly issued.
func WithFreshWindow(window time.Duration) TokenInspectorOption {
	return func(ti *TokenInspector) {
		if window >= 0 {
			ti.freshWindow = window
		}
	}
}

// NewTokenInspector returns an inspector using the configured skew and
// freshness window. A nil cfg falls back to the defaults (300s skew,
// 10s window); options override either value.
func NewTokenInspector(cfg Config, opts ...TokenInspectorOption) *TokenInspector {
	ti := &TokenInspector{
		skew:        defaultRenewalSkewSeconds * time.Second,
		freshWindow: defaultFreshWindowSeconds * time.Second,
		parser:      jwt.NewParser(),
	}

	if cfg != nil {
		ti.skew = time.Duration(cfg.GetRenewalSkewSeconds()) * time.Second
		ti.freshWindow = time.Duration(cfg.GetFreshWindowSeconds()) * time.Second
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ti)
		}
	}

	return ti
}

// Claims decodes the claims segment without verifying the signature.
// The server is the authority on token validity; this decode only feeds
// UX timing decisions.
func (ti *TokenInspector) Claims(token string) (*TokenClaims, error) {
	if token == "" {
		return nil, ErrMalformedToken
	}

	claims := &TokenClaims{}
	if _, _, err := ti.parser.ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, ErrMalformedToken.Category, ErrMalformedToken.Message).
			WithTextCode(ErrMalformedToken.TextCode)
	}

	return claims, nil
}

// NeedsRenewal reports whether the token expires within the renewal skew
// of now. Decode failure and a missing expiry claim both count as
// needing renewal: we fail toward re-authentication.
func (ti *TokenInspector) NeedsRenewal(token string, now time.Time) bool {
	claims, err := ti.Claims(token)
	if err != nil {
		return true
	}

	expires := claims.Expires()
	if expires.IsZero() {
		return true
	}

	return !expires.After(now.Add(ti.skew))
}

// IsFreshlyIssued reports whether the token was issued within the
// freshness window of now. Used to skip the renewal-plausibility probe
// immediately after login, before ambient credential propagation has
// completed, which would otherwise race into a spurious forced logout.
func (ti *TokenInspector) IsFreshlyIssued(token string, now time.Time) bool {
	claims, err := ti.Claims(token)
	if err != nil {
		return false
	}

	issued := claims.Issued()
	if issued.IsZero() {
		return false
	}

	age := now.Sub(issued)
	return age >= 0 && age < ti.freshWindow
}
