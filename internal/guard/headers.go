package guard

import (
	"net/http"
	"strings"

	"github.com/unrolled/secure"
)

// defaultCSP is applied when nothing downstream set its own policy. The
// allow-list covers the CDN origins the templates load scripts, styles
// and fonts from.
var defaultCSP = strings.Join([]string{
	"default-src 'self'",
	"script-src 'self' 'unsafe-inline' 'unsafe-eval' https://cdn.tailwindcss.com https://cdnjs.cloudflare.com https://cdn.jsdelivr.net",
	"style-src 'self' 'unsafe-inline' https://cdnjs.cloudflare.com https://cdn.jsdelivr.net",
	"img-src 'self' data: https:",
	"font-src 'self' https://cdnjs.cloudflare.com",
	"connect-src 'self'",
	"frame-ancestors 'none'",
	"form-action 'self'",
	"base-uri 'self'",
}, "; ")

// SecurityHeaders stamps the fixed security header set on every
// response, error responses included. HSTS is emitted only outside
// development mode; the Content-Security-Policy default is applied only
// when the downstream handler left the header unset.
type SecurityHeaders struct {
	secure *secure.Secure
}

// NewSecurityHeaders constructs the header stage. production controls
// whether Strict-Transport-Security is emitted.
func NewSecurityHeaders(production bool) *SecurityHeaders {
	opts := secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if production {
		opts.STSSeconds = 31536000
		opts.STSIncludeSubdomains = true
		opts.ForceSTSHeader = true
	}
	return &SecurityHeaders{secure: secure.New(opts)}
}

// Intercept applies the fixed headers up front and defers the CSP
// default until the response is committed, so a downstream policy wins.
func (sh *SecurityHeaders) Intercept(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if err := sh.secure.Process(w, r); err != nil {
		return
	}
	next.ServeHTTP(&cspWriter{ResponseWriter: w}, r)
}

// cspWriter injects the default Content-Security-Policy at commit time
// unless the handler already set one.
type cspWriter struct {
	http.ResponseWriter
	headerWritten bool
}

func (w *cspWriter) WriteHeader(statusCode int) {
	if !w.headerWritten {
		w.headerWritten = true
		if w.Header().Get("Content-Security-Policy") == "" {
			w.Header().Set("Content-Security-Policy", defaultCSP)
		}
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *cspWriter) Write(data []byte) (int, error) {
	if !w.headerWritten {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}
