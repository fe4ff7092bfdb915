package guard_test

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	guard "github.com/goliatone/go-sessionguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRenewalClient(t *testing.T) {
	ctx := context.Background()

	t.Run("successful renewal", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"accessToken":"renewed","expiresInSeconds":900}`))
		}))
		defer server.Close()

		client := guard.NewHTTPRenewalClient(server.URL, nil)
		result, err := client.Renew(ctx)
		require.NoError(t, err)
		assert.Equal(t, "renewed", result.AccessToken)
		assert.Equal(t, 900, result.ExpiresInSeconds)
	})

	t.Run("401 is a renewal failure with status metadata", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := guard.NewHTTPRenewalClient(server.URL, nil)
		_, err := client.Renew(ctx)
		require.Error(t, err)
		assert.True(t, guard.IsAuthFailure(err))
		assert.Equal(t, http.StatusUnauthorized, guard.RenewalStatus(err))
	})

	t.Run("missing token in response is a failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := guard.NewHTTPRenewalClient(server.URL, nil)
		_, err := client.Renew(ctx)
		require.Error(t, err)
		assert.True(t, guard.IsAuthFailure(err))
	})

	t.Run("unreachable endpoint is a failure", func(t *testing.T) {
		client := guard.NewHTTPRenewalClient("http://127.0.0.1:1/renew", nil)
		_, err := client.Renew(ctx)
		require.Error(t, err)
		assert.True(t, guard.IsAuthFailure(err))
	})
}

func TestHTTPProfileService(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes a manager profile", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"m-1","services":["cleaning"],"regions":["Seoul"],"schedules":[{"day":"MON","startTime":"09:00","endTime":"17:00"}]}`))
		}))
		defer server.Close()

		service := guard.NewHTTPProfileService(map[guard.Role]string{guard.RoleManager: server.URL}, nil)
		profile, err := service.FetchProfile(ctx, guard.RoleManager)
		require.NoError(t, err)
		assert.True(t, guard.Complete(profile))
	})

	t.Run("missing fields decode incomplete", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"c-1"}`))
		}))
		defer server.Close()

		service := guard.NewHTTPProfileService(map[guard.Role]string{guard.RoleConsumer: server.URL}, nil)
		profile, err := service.FetchProfile(ctx, guard.RoleConsumer)
		require.NoError(t, err)
		assert.False(t, guard.Complete(profile))
	})

	t.Run("fallback endpoint serves unknown roles", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"userId":"u-1"}`))
		}))
		defer server.Close()

		service := guard.NewHTTPProfileService(map[guard.Role]string{"": server.URL}, nil)
		profile, err := service.FetchProfile(ctx, "ADMIN")
		require.NoError(t, err)
		assert.True(t, guard.Complete(profile))
	})

	t.Run("non-2xx is a soft fetch error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		service := guard.NewHTTPProfileService(map[guard.Role]string{guard.RoleConsumer: server.URL}, nil)
		_, err := service.FetchProfile(ctx, guard.RoleConsumer)
		require.Error(t, err)
		assert.True(t, guard.IsProfileFetchError(err))
		assert.False(t, guard.IsAuthFailure(err))
	})

	t.Run("no endpoint configured for role", func(t *testing.T) {
		service := guard.NewHTTPProfileService(map[guard.Role]string{}, nil)
		_, err := service.FetchProfile(ctx, guard.RoleConsumer)
		require.Error(t, err)
		assert.True(t, guard.IsProfileFetchError(err))
	})
}

func TestJarCookieSource(t *testing.T) {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	origin := "https://api.example.com"
	parsed, err := url.Parse(origin)
	require.NoError(t, err)
	jar.SetCookies(parsed, []*http.Cookie{{Name: "refreshToken", Value: "opaque"}})

	source, err := guard.NewJarCookieSource(jar, origin)
	require.NoError(t, err)

	value, ok := source.Cookie("refreshToken")
	require.True(t, ok)
	assert.Equal(t, "opaque", value)

	_, ok = source.Cookie("missing")
	assert.False(t, ok)

	probe := guard.NewRefreshTokenProbe(nil, source)
	assert.True(t, probe.Present())
}
