package guard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/goliatone/go-errors"
)

var _ RenewalClient = &HTTPRenewalClient{}
var _ ProfileService = &HTTPProfileService{}

// HTTPRenewalClient calls the renewal endpoint. The request body is
// empty by contract: the refresh credential travels in the ambient
// cookie jar attached to the underlying http.Client.
type HTTPRenewalClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPRenewalClient builds a renewal client. When httpClient is nil a
// default client with a 10s timeout is used; callers that rely on the
// ambient refresh cookie must pass a client whose Jar carries it.
func NewHTTPRenewalClient(endpoint string, httpClient *http.Client) *HTTPRenewalClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPRenewalClient{endpoint: endpoint, client: httpClient}
}

// Renew posts to the renewal endpoint. Any non-2xx status or a response
// without an access token is a renewal failure.
func (c *HTTPRenewalClient) Renew(ctx context.Context) (*RenewalResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, ErrRenewalFailed.Category, ErrRenewalFailed.Message).
			WithTextCode(ErrRenewalFailed.TextCode)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, ErrRenewalFailed.Category, ErrRenewalFailed.Message).
			WithTextCode(ErrRenewalFailed.TextCode)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New("renewal endpoint returned non-2xx status", ErrRenewalFailed.Category).
			WithTextCode(ErrRenewalFailed.TextCode).
			WithCode(errors.CodeUnauthorized).
			WithMetadata(map[string]any{"status": resp.StatusCode})
	}

	result := &RenewalResult{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, errors.Wrap(err, ErrRenewalFailed.Category, "renewal response undecodable").
			WithTextCode(ErrRenewalFailed.TextCode)
	}

	if result.AccessToken == "" {
		return nil, errors.New("renewal response missing access token", ErrRenewalFailed.Category).
			WithTextCode(ErrRenewalFailed.TextCode).
			WithCode(errors.CodeUnauthorized)
	}

	return result, nil
}

// HTTPProfileService fetches role-shaped profiles, one endpoint per
// role. Missing structural fields decode to zero values, which the
// evaluator reads as incomplete; only transport failures error.
type HTTPProfileService struct {
	endpoints map[Role]string
	client    *http.Client
}

// NewHTTPProfileService builds a profile service over per-role endpoints.
func NewHTTPProfileService(endpoints map[Role]string, httpClient *http.Client) *HTTPProfileService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProfileService{endpoints: endpoints, client: httpClient}
}

func (s *HTTPProfileService) FetchProfile(ctx context.Context, role Role) (Profile, error) {
	endpoint, ok := s.endpoints[role]
	if !ok {
		if endpoint, ok = s.endpoints[""]; !ok {
			return nil, errors.New("no profile endpoint for role", ErrProfileFetchFailed.Category).
				WithTextCode(ErrProfileFetchFailed.TextCode).
				WithMetadata(map[string]any{"role": role})
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, profileFetchFailure(err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, profileFetchFailure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New("profile endpoint returned non-2xx status", ErrProfileFetchFailed.Category).
			WithTextCode(ErrProfileFetchFailed.TextCode).
			WithMetadata(map[string]any{"status": resp.StatusCode, "role": role})
	}

	return decodeProfile(role, resp)
}

func decodeProfile(role Role, resp *http.Response) (Profile, error) {
	switch role {
	case RoleConsumer:
		profile := ConsumerProfile{}
		if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
			return nil, profileFetchFailure(err)
		}
		return profile, nil
	case RoleManager:
		profile := ManagerProfile{}
		if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
			return nil, profileFetchFailure(err)
		}
		return profile, nil
	default:
		profile := UnknownProfile{}
		if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
			return nil, profileFetchFailure(err)
		}
		return profile, nil
	}
}

func profileFetchFailure(cause error) error {
	return errors.Wrap(cause, ErrProfileFetchFailed.Category, ErrProfileFetchFailed.Message).
		WithTextCode(ErrProfileFetchFailed.TextCode)
}

// JarCookieSource adapts an http.CookieJar into a CookieSource so the
// presence probe can observe the ambient credential without the guard
// ever reading its value off the wire.
type JarCookieSource struct {
	jar http.CookieJar
	url *url.URL
}

// NewJarCookieSource scopes a cookie jar to the API origin.
func NewJarCookieSource(jar http.CookieJar, origin string) (*JarCookieSource, error) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "invalid cookie origin")
	}
	return &JarCookieSource{jar: jar, url: parsed}, nil
}

func (s *JarCookieSource) Cookie(name string) (string, bool) {
	if s == nil || s.jar == nil {
		return "", false
	}

	for _, cookie := range s.jar.Cookies(s.url) {
		if cookie.Name == name {
			return cookie.Value, true
		}
	}

	return "", false
}
