package shared

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the request's source address: the first entry of
// X-Forwarded-For when present, otherwise the direct remote address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := forwarded
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			first = forwarded[:idx]
		}
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// UserAgent returns the request's user agent, truncated to the audit
// column limit.
func UserAgent(r *http.Request) string {
	ua := r.UserAgent()
	if len(ua) > 500 {
		ua = ua[:500]
	}
	return ua
}
