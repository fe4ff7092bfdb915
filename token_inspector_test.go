package guard_test

import (
	"testing"
	"time"

	guard "github.com/goliatone/go-sessionguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenInspectorClaims(t *testing.T) {
	inspector := guard.NewTokenInspector(nil)
	now := time.Now().Truncate(time.Second)

	t.Run("decodes role and timing claims", func(t *testing.T) {
		token := signedToken(t, guard.RoleManager, now, now.Add(time.Hour))

		claims, err := inspector.Claims(token)
		require.NoError(t, err)

		assert.Equal(t, guard.RoleManager, claims.Role())
		assert.Equal(t, now.Unix(), claims.Issued().Unix())
		assert.Equal(t, now.Add(time.Hour).Unix(), claims.Expires().Unix())
	})

	t.Run("empty token is malformed", func(t *testing.T) {
		_, err := inspector.Claims("")
		assert.Error(t, err)
	})

	t.Run("garbage token is malformed", func(t *testing.T) {
		_, err := inspector.Claims("not.a.token")
		assert.Error(t, err)
	})
}

func TestNeedsRenewal(t *testing.T) {
	inspector := guard.NewTokenInspector(nil)
	now := time.Now()

	tests := []struct {
		name     string
		token    string
		expected bool
	}{
		{
			name:     "expires within skew",
			token:    signedToken(t, guard.RoleConsumer, now.Add(-time.Hour), now.Add(60*time.Second)),
			expected: true,
		},
		{
			name:     "already expired",
			token:    signedToken(t, guard.RoleConsumer, now.Add(-2*time.Hour), now.Add(-time.Hour)),
			expected: true,
		},
		{
			name:     "expires beyond skew",
			token:    signedToken(t, guard.RoleConsumer, now.Add(-time.Hour), now.Add(400*time.Second)),
			expected: false,
		},
		{
			name:     "malformed token fails toward renewal",
			token:    "broken",
			expected: true,
		},
		{
			name:     "absent token fails toward renewal",
			token:    "",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, inspector.NeedsRenewal(tt.token, now))
		})
	}
}

func TestNeedsRenewalCustomSkew(t *testing.T) {
	inspector := guard.NewTokenInspector(nil, guard.WithRenewalSkew(30*time.Second))
	now := time.Now()

	token := signedToken(t, guard.RoleConsumer, now.Add(-time.Hour), now.Add(60*time.Second))
	assert.False(t, inspector.NeedsRenewal(token, now))
}

func TestInspectorUsesConfiguredTiming(t *testing.T) {
	cfg := guard.DefaultGuardConfig()
	cfg.RenewalSkewSeconds = 30
	cfg.FreshWindowSeconds = 120

	inspector := guard.NewTokenInspector(cfg)
	now := time.Now()

	t.Run("configured skew", func(t *testing.T) {
		token := signedToken(t, guard.RoleConsumer, now.Add(-time.Hour), now.Add(60*time.Second))
		assert.False(t, inspector.NeedsRenewal(token, now))

		token = signedToken(t, guard.RoleConsumer, now.Add(-time.Hour), now.Add(20*time.Second))
		assert.True(t, inspector.NeedsRenewal(token, now))
	})

	t.Run("configured fresh window", func(t *testing.T) {
		token := signedToken(t, guard.RoleConsumer, now.Add(-time.Minute), now.Add(time.Hour))
		assert.True(t, inspector.IsFreshlyIssued(token, now))
	})

	t.Run("options override the configuration", func(t *testing.T) {
		custom := guard.NewTokenInspector(cfg, guard.WithRenewalSkew(300*time.Second))
		token := signedToken(t, guard.RoleConsumer, now.Add(-time.Hour), now.Add(60*time.Second))
		assert.True(t, custom.NeedsRenewal(token, now))
	})
}

func TestIsFreshlyIssued(t *testing.T) {
	inspector := guard.NewTokenInspector(nil)
	now := time.Now()

	t.Run("issued moments ago", func(t *testing.T) {
		token := signedToken(t, guard.RoleConsumer, now.Add(-2*time.Second), now.Add(time.Hour))
		assert.True(t, inspector.IsFreshlyIssued(token, now))
	})

	t.Run("issued outside the window", func(t *testing.T) {
		token := signedToken(t, guard.RoleConsumer, now.Add(-time.Minute), now.Add(time.Hour))
		assert.False(t, inspector.IsFreshlyIssued(token, now))
	})

	t.Run("issued in the future", func(t *testing.T) {
		token := signedToken(t, guard.RoleConsumer, now.Add(time.Minute), now.Add(time.Hour))
		assert.False(t, inspector.IsFreshlyIssued(token, now))
	})

	t.Run("malformed token is never fresh", func(t *testing.T) {
		assert.False(t, inspector.IsFreshlyIssued("broken", now))
	})

	t.Run("fresh even when expiry sits within the renewal skew", func(t *testing.T) {
		token := signedToken(t, guard.RoleConsumer, now.Add(-1*time.Second), now.Add(60*time.Second))
		assert.True(t, inspector.IsFreshlyIssued(token, now))
		assert.True(t, inspector.NeedsRenewal(token, now))
	})
}
