package guard

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeMalformedToken   = "guard_malformed_token"
	TextCodeCredentialAbsent = "guard_refresh_credential_absent"
	TextCodeRenewalFailed    = "guard_renewal_failed"
	TextCodeProfileFetch     = "guard_profile_fetch_failed"
	TextCodeNavigation       = "guard_navigation_failed"
)

// ErrMalformedToken is returned when the claims segment cannot be decoded.
// Callers treat it as "needs renewal": we fail toward re-authentication,
// never toward trusting a broken token.
var ErrMalformedToken = errors.New("access token claims undecodable", errors.CategoryAuth).
	WithTextCode(TextCodeMalformedToken).
	WithCode(errors.CodeUnauthorized)

// ErrRefreshCredentialAbsent marks the denial when no plausible renewal
// path exists. Fatal for the session: its message travels as the denial
// reason and the forced-logout notice.
var ErrRefreshCredentialAbsent = errors.New("no refresh credential present", errors.CategoryAuth).
	WithTextCode(TextCodeCredentialAbsent).
	WithCode(errors.CodeUnauthorized)

// ErrRenewalFailed is returned for any renewal endpoint failure. The
// transport status is kept in metadata for diagnostics only; every
// renewal failure forces logout regardless of status.
var ErrRenewalFailed = errors.New("access token renewal failed", errors.CategoryAuth).
	WithTextCode(TextCodeRenewalFailed).
	WithCode(errors.CodeUnauthorized)

// ErrProfileFetchFailed is returned by profile transports. Non-fatal:
// the guard proceeds as though the completeness check passed.
var ErrProfileFetchFailed = errors.New("profile fetch failed", errors.CategoryOperation).
	WithTextCode(TextCodeProfileFetch).
	WithCode(errors.CodeInternal)

// ErrNavigationFailed is returned when a redirect did not change the
// location within the bounded window and the hard fallback kicked in.
var ErrNavigationFailed = errors.New("client navigation did not take effect", errors.CategoryInternal).
	WithTextCode(TextCodeNavigation).
	WithCode(errors.CodeInternal)

// IsAuthFailure reports whether err belongs to the authentication error
// path, which always escalates to forced logout.
func IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		switch richErr.TextCode {
		case TextCodeMalformedToken, TextCodeCredentialAbsent, TextCodeRenewalFailed:
			return true
		}
	}
	return false
}

// IsProfileFetchError reports whether err is the soft, non-escalating
// profile transport failure.
func IsProfileFetchError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeProfileFetch {
		return true
	}
	return strings.Contains(err.Error(), "profile fetch failed")
}

// RenewalStatus extracts the transport status recorded on a renewal
// failure, or 0 when none was captured.
func RenewalStatus(err error) int {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return 0
	}
	if richErr.Metadata == nil {
		return 0
	}
	if status, ok := richErr.Metadata["status"].(int); ok {
		return status
	}
	return 0
}
