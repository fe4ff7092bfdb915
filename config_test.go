package guard_test

import (
	"testing"
	"time"

	guard "github.com/goliatone/go-sessionguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGuardConfig(t *testing.T) {
	cfg := guard.DefaultGuardConfig()

	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/login", cfg.GetLoginPath())
	assert.Equal(t, 300, cfg.GetRenewalSkewSeconds())
	assert.Equal(t, 10, cfg.GetFreshWindowSeconds())
	assert.Equal(t, 150*time.Millisecond, cfg.GetNavigationFallbackDelay())
	assert.Equal(t,
		[]string{"refreshToken", "refresh_token", "REFRESH_TOKEN"},
		cfg.GetRefreshCookieNames())
}

func TestGuardConfigZeroValuesFallBack(t *testing.T) {
	cfg := &guard.GuardConfig{
		LoginPath: "/signin",
	}

	assert.Equal(t, "/signin", cfg.GetLoginPath())
	assert.Equal(t, 300, cfg.GetRenewalSkewSeconds())
	assert.Equal(t, 10, cfg.GetFreshWindowSeconds())
	assert.Equal(t, 150*time.Millisecond, cfg.GetNavigationFallbackDelay())
	assert.NotEmpty(t, cfg.GetRefreshCookieNames())
	assert.Equal(t, "rejected_route", cfg.GetRejectedRouteKey())
}

func TestGuardConfigValidate(t *testing.T) {
	t.Run("missing login path", func(t *testing.T) {
		cfg := guard.DefaultGuardConfig()
		cfg.LoginPath = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing storage keys", func(t *testing.T) {
		cfg := guard.DefaultGuardConfig()
		cfg.AccessTokenKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("no refresh cookie names", func(t *testing.T) {
		cfg := guard.DefaultGuardConfig()
		cfg.RefreshCookieNames = nil
		assert.Error(t, cfg.Validate())
	})
}
