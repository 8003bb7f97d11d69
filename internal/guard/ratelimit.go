package guard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/eventosys/eventosys/internal/counter"
	"github.com/eventosys/eventosys/internal/platform/httpx"
	"github.com/eventosys/eventosys/internal/shared"
)

// DefaultRateWindow is the sliding window for the anonymous limiter.
const DefaultRateWindow = time.Hour

// RateLimiter throttles unauthenticated traffic per source address.
// Authenticated requests pass through untouched. When the counter store
// is unreachable the limiter fails open.
type RateLimiter struct {
	store  counter.Store
	logger *slog.Logger
	limit  int64
	window time.Duration
}

// NewRateLimiter constructs a RateLimiter allowing limit requests per
// window from one anonymous source.
func NewRateLimiter(store counter.Store, logger *slog.Logger, limit int64, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &RateLimiter{store: store, logger: logger, limit: limit, window: window}
}

// Intercept rejects the request with 429 once the window count reaches
// the ceiling: requests 1..limit pass, request limit+1 is rejected.
func (rl *RateLimiter) Intercept(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if !shared.PrincipalFromContext(r.Context()).IsAnonymous() {
		next.ServeHTTP(w, r)
		return
	}

	ip := shared.ClientIP(r)
	key := "rate_limit_" + ip

	count, err := rl.store.Get(r.Context(), key)
	if err != nil {
		rl.logger.Warn("rate limiter unavailable", slog.Any("error", err))
		next.ServeHTTP(w, r)
		return
	}
	if count >= rl.limit {
		rl.logger.Warn("rate limit exceeded", slog.String("ip", ip))
		httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "")
		return
	}
	if _, err := rl.store.Incr(r.Context(), key, rl.window); err != nil {
		rl.logger.Warn("rate limiter increment failed", slog.Any("error", err))
	}
	next.ServeHTTP(w, r)
}
