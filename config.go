package guard

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Config holds guard options. Redirect targets are logical paths the
// guard consumes, never computes.
type Config interface {
	GetLoginPath() string
	GetHomePath() string
	GetConsumerHomePath() string
	GetManagerHomePath() string
	GetConsumerSetupPath() string
	GetManagerSetupPath() string
	// GetRenewalSkewSeconds is the lead time before actual expiry at
	// which renewal is proactively triggered.
	GetRenewalSkewSeconds() int
	// GetFreshWindowSeconds bounds the post-login window in which the
	// renewal-plausibility probe is skipped entirely.
	GetFreshWindowSeconds() int
	// GetNavigationFallbackDelay bounds how long a client-side redirect
	// may take before the hard location replace kicks in.
	GetNavigationFallbackDelay() time.Duration
	// GetRefreshCookieNames lists the historical spellings under which
	// the refresh credential may be present.
	GetRefreshCookieNames() []string
	GetAccessTokenKey() string
	GetRoleKey() string
	GetUserInfoKey() string
	GetRejectedRouteKey() string
}

const (
	defaultRenewalSkewSeconds = 300
	defaultFreshWindowSeconds = 10
	defaultNavigationFallback = 150 * time.Millisecond
)

// Historical refresh-cookie spellings, newest first. Older clients wrote
// snake_case and upper-case variants that may still be live.
var defaultRefreshCookieNames = []string{
	"refreshToken",
	"refresh_token",
	"REFRESH_TOKEN",
}

var _ Config = &GuardConfig{}

// GuardConfig is the concrete Config implementation.
type GuardConfig struct {
	LoginPath          string        `json:"login_path"`
	HomePath           string        `json:"home_path"`
	ConsumerHomePath   string        `json:"consumer_home_path"`
	ManagerHomePath    string        `json:"manager_home_path"`
	ConsumerSetupPath  string        `json:"consumer_setup_path"`
	ManagerSetupPath   string        `json:"manager_setup_path"`
	RenewalSkewSeconds int           `json:"renewal_skew_seconds"`
	FreshWindowSeconds int           `json:"fresh_window_seconds"`
	NavigationFallback time.Duration `json:"navigation_fallback"`
	RefreshCookieNames []string      `json:"refresh_cookie_names"`
	AccessTokenKey     string        `json:"access_token_key"`
	RoleKey            string        `json:"role_key"`
	UserInfoKey        string        `json:"user_info_key"`
	RejectedRouteKey   string        `json:"rejected_route_key"`
}

// DefaultGuardConfig returns a GuardConfig with the marketplace defaults
// filled in.
func DefaultGuardConfig() *GuardConfig {
	return &GuardConfig{
		LoginPath:          "/login",
		HomePath:           "/",
		ConsumerHomePath:   "/consumer",
		ManagerHomePath:    "/manager",
		ConsumerSetupPath:  "/consumer/profile/setup",
		ManagerSetupPath:   "/manager/profile/setup",
		RenewalSkewSeconds: defaultRenewalSkewSeconds,
		FreshWindowSeconds: defaultFreshWindowSeconds,
		NavigationFallback: defaultNavigationFallback,
		RefreshCookieNames: defaultRefreshCookieNames,
		AccessTokenKey:     "accessToken",
		RoleKey:            "userType",
		UserInfoKey:        "userInfo",
		RejectedRouteKey:   "rejected_route",
	}
}

// Validate checks the configuration is usable.
func (c GuardConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.LoginPath, validation.Required),
		validation.Field(&c.HomePath, validation.Required),
		validation.Field(&c.ConsumerSetupPath, validation.Required),
		validation.Field(&c.ManagerSetupPath, validation.Required),
		validation.Field(&c.RenewalSkewSeconds, validation.Min(0)),
		validation.Field(&c.FreshWindowSeconds, validation.Min(0)),
		validation.Field(&c.RefreshCookieNames, validation.Required, validation.Length(1, 0)),
		validation.Field(&c.AccessTokenKey, validation.Required),
		validation.Field(&c.RoleKey, validation.Required),
		validation.Field(&c.UserInfoKey, validation.Required),
	)
}

func (c *GuardConfig) GetLoginPath() string         { return c.LoginPath }
func (c *GuardConfig) GetHomePath() string          { return c.HomePath }
func (c *GuardConfig) GetConsumerHomePath() string  { return c.ConsumerHomePath }
func (c *GuardConfig) GetManagerHomePath() string   { return c.ManagerHomePath }
func (c *GuardConfig) GetConsumerSetupPath() string { return c.ConsumerSetupPath }
func (c *GuardConfig) GetManagerSetupPath() string  { return c.ManagerSetupPath }

func (c *GuardConfig) GetRenewalSkewSeconds() int {
	if c.RenewalSkewSeconds <= 0 {
		return defaultRenewalSkewSeconds
	}
	return c.RenewalSkewSeconds
}

func (c *GuardConfig) GetFreshWindowSeconds() int {
	if c.FreshWindowSeconds <= 0 {
		return defaultFreshWindowSeconds
	}
	return c.FreshWindowSeconds
}

func (c *GuardConfig) GetNavigationFallbackDelay() time.Duration {
	if c.NavigationFallback <= 0 {
		return defaultNavigationFallback
	}
	return c.NavigationFallback
}

func (c *GuardConfig) GetRefreshCookieNames() []string {
	if len(c.RefreshCookieNames) == 0 {
		return defaultRefreshCookieNames
	}
	return c.RefreshCookieNames
}

func (c *GuardConfig) GetAccessTokenKey() string { return c.AccessTokenKey }
func (c *GuardConfig) GetRoleKey() string        { return c.RoleKey }
func (c *GuardConfig) GetUserInfoKey() string    { return c.UserInfoKey }

func (c *GuardConfig) GetRejectedRouteKey() string {
	if c.RejectedRouteKey == "" {
		return "rejected_route"
	}
	return c.RejectedRouteKey
}
