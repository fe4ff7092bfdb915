package guard_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	guard "github.com/goliatone/go-sessionguard"
	"github.com/stretchr/testify/mock"
)

// MockRenewalClient implements guard.RenewalClient
type MockRenewalClient struct {
	mock.Mock
}

func (m *MockRenewalClient) Renew(ctx context.Context) (*guard.RenewalResult, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).(*guard.RenewalResult)
	return result, args.Error(1)
}

// MockProfileService implements guard.ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) FetchProfile(ctx context.Context, role guard.Role) (guard.Profile, error) {
	args := m.Called(ctx, role)
	profile, _ := args.Get(0).(guard.Profile)
	return profile, args.Error(1)
}

// FakeNavigator records navigations. Silent mode models a Navigate call
// that no-ops outside an active routing context.
type FakeNavigator struct {
	mu       sync.Mutex
	location string
	silent   bool

	NavigateCalls []string
	ReplaceCalls  []string
	LastState     map[string]any
}

func NewFakeNavigator(location string) *FakeNavigator {
	return &FakeNavigator{location: location}
}

func (n *FakeNavigator) Silence() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.silent = true
}

func (n *FakeNavigator) Navigate(path string, state map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.NavigateCalls = append(n.NavigateCalls, path)
	n.LastState = state
	if !n.silent {
		n.location = path
	}
	return nil
}

func (n *FakeNavigator) Replace(path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ReplaceCalls = append(n.ReplaceCalls, path)
	n.location = path
	return nil
}

func (n *FakeNavigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

func mapCookies(cookies map[string]string) guard.CookieSource {
	return guard.CookieSourceFunc(func(name string) (string, bool) {
		value, ok := cookies[name]
		return value, ok
	})
}

const testSigningKey = "test-signing-key"

func signedToken(t *testing.T, role guard.Role, issuedAt, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"uid":  "user-1",
		"role": string(role),
		"iat":  jwt.NewNumericDate(issuedAt),
		"exp":  jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSigningKey))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	return signed
}
