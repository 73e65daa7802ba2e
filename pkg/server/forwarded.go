package server

import (
	"net/http"
	"strings"

	"github.com/vango-dev/starter/pkg/nav"
)

// ForwardedPrefixHeader carries the path prefix a reverse proxy stripped
// before forwarding the request.
const ForwardedPrefixHeader = "X-Forwarded-Prefix"

// RequestBase returns the base path as seen by the browser: the configured
// BasePath, preceded by the forwarded prefix when the config trusts it.
// Unusable header values are ignored.
func RequestBase(r *http.Request, config *SessionConfig) string {
	base := config.BasePath
	if !config.TrustForwardedPrefix {
		return base
	}
	raw, _, _ := strings.Cut(r.Header.Get(ForwardedPrefixHeader), ",")
	prefix, err := nav.NormalizeBase(strings.TrimSpace(raw))
	if err != nil || prefix == "" {
		return base
	}
	return prefix + base
}
