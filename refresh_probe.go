package guard

import "strings"

// RefreshTokenProbe infers whether a renewal credential appears present
// in the ambient cookie store. Presence is the only question it can
// answer; the probe never reads, logs, or returns the credential value.
type RefreshTokenProbe struct {
	source CookieSource
	names  []string
}

// NewRefreshTokenProbe builds a probe over the given cookie source.
// Explicit names win; otherwise the configured cookie-name list is
// checked, falling back to the historical default spellings.
func NewRefreshTokenProbe(cfg Config, source CookieSource, names ...string) *RefreshTokenProbe {
	if len(names) == 0 && cfg != nil {
		names = cfg.GetRefreshCookieNames()
	}
	if len(names) == 0 {
		names = defaultRefreshCookieNames
	}
	return &RefreshTokenProbe{source: source, names: names}
}

// Present reports whether a renewal credential appears present under any
// of the known cookie names. Empty strings and the textual artifacts
// "undefined" and "null" that older clients persisted count as absent.
func (p *RefreshTokenProbe) Present() bool {
	if p == nil || p.source == nil {
		return false
	}

	for _, name := range p.names {
		value, ok := p.source.Cookie(name)
		if !ok {
			continue
		}
		if credentialValuePresent(value) {
			return true
		}
	}

	return false
}

func credentialValuePresent(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	switch strings.ToLower(trimmed) {
	case "undefined", "null":
		return false
	}
	return true
}
