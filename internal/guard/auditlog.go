package guard

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/eventosys/eventosys/internal/audit"
	"github.com/eventosys/eventosys/internal/shared"
)

// skipPrefixes lists paths never audited: static assets and browser
// noise.
var skipPrefixes = []string{"/static/", "/media/", "/favicon.ico"}

// sensitiveFragments marks operations worth an extra operator-visible
// log line alongside the stored record.
var sensitiveFragments = []string{
	"admin",
	"user_management",
	"monitoring",
	"reports",
	"event_delete",
	"user_delete",
}

// slowRequestThreshold is when a guarded request gets flagged in the log.
const slowRequestThreshold = 5 * time.Second

// Recorder is the append side of the audit sink.
type Recorder interface {
	Record(ctx context.Context, rec audit.AccessRecord)
}

// AuditLogger records one AccessRecord per completed, non-excluded
// request from an authenticated principal. Recording is best-effort and
// never affects the response.
type AuditLogger struct {
	sink   Recorder
	logger *slog.Logger
}

// NewAuditLogger constructs the audit stage.
func NewAuditLogger(sink Recorder, logger *slog.Logger) *AuditLogger {
	return &AuditLogger{sink: sink, logger: logger}
}

// Intercept runs the request to completion, then classifies and records
// it. Outcome is success when the final status is in [200, 400).
func (al *AuditLogger) Intercept(w http.ResponseWriter, r *http.Request, next http.Handler) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal.IsAnonymous() || shouldSkip(r) {
		next.ServeHTTP(w, r)
		return
	}

	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w}
	next.ServeHTTP(rec, r)
	elapsed := time.Since(start)

	action, resource := Classify(r.Method, r.URL.Path)
	ip := shared.ClientIP(r)

	al.sink.Record(r.Context(), audit.AccessRecord{
		UserID:    principal.ID,
		Action:    action,
		Resource:  resource,
		IPAddress: ip,
		UserAgent: shared.UserAgent(r),
		Success:   rec.statusCode() >= 200 && rec.statusCode() < 400,
	})

	if isSensitive(r.URL.Path) {
		al.logger.Info("sensitive operation",
			slog.Int64("user_id", principal.ID),
			slog.String("action", action),
			slog.String("resource", resource),
			slog.String("ip", ip))
	}
	if elapsed > slowRequestThreshold {
		al.logger.Warn("slow request",
			slog.String("action", action),
			slog.String("resource", resource),
			slog.Duration("elapsed", elapsed),
			slog.Int64("user_id", principal.ID))
	}
}

func shouldSkip(r *http.Request) bool {
	path := r.URL.Path
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	// Frequent notification polling calls.
	if r.Method == http.MethodGet && strings.Contains(path, "notification") {
		return true
	}
	return strings.Contains(path, "/admin/jsi18n/")
}

func isSensitive(path string) bool {
	for _, fragment := range sensitiveFragments {
		if strings.Contains(path, fragment) {
			return true
		}
	}
	return false
}
