package guard

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/eventosys/eventosys/internal/counter"
	"github.com/eventosys/eventosys/internal/platform/httpx"
	"github.com/eventosys/eventosys/internal/shared"
)

// BruteForceGuard locks out a source address after repeated failed login
// submissions. Only POSTs to the login path are inspected; all other
// requests pass through. A counter store outage fails open.
type BruteForceGuard struct {
	store       counter.Store
	logger      *slog.Logger
	loginPath   string
	maxAttempts int64
	lockout     time.Duration
}

// NewBruteForceGuard constructs a BruteForceGuard watching loginPath.
func NewBruteForceGuard(store counter.Store, logger *slog.Logger, loginPath string, maxAttempts int64, lockout time.Duration) *BruteForceGuard {
	return &BruteForceGuard{
		store:       store,
		logger:      logger,
		loginPath:   strings.TrimSuffix(loginPath, "/"),
		maxAttempts: maxAttempts,
		lockout:     lockout,
	}
}

// Intercept rejects a login attempt with 429 once maxAttempts failures
// accumulated from the same address. A successful login clears the
// counter; a failure increments it and refreshes the lockout window. The
// rejection body carries no detail that distinguishes its cause.
func (bf *BruteForceGuard) Intercept(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if r.Method != http.MethodPost || strings.TrimSuffix(r.URL.Path, "/") != bf.loginPath {
		next.ServeHTTP(w, r)
		return
	}

	ip := shared.ClientIP(r)
	key := "login_attempts_" + ip

	attempts, err := bf.store.Get(r.Context(), key)
	if err != nil {
		bf.logger.Warn("lockout store unavailable", slog.Any("error", err))
		next.ServeHTTP(w, r)
		return
	}
	if attempts >= bf.maxAttempts {
		bf.logger.Warn("login blocked", slog.String("ip", ip), slog.Int64("attempts", attempts))
		httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "")
		return
	}

	rec := &statusRecorder{ResponseWriter: w}
	next.ServeHTTP(rec, r)

	if rec.statusCode() < 400 {
		if err := bf.store.Reset(r.Context(), key); err != nil {
			bf.logger.Warn("lockout reset failed", slog.Any("error", err))
		}
		return
	}
	n, err := bf.store.Incr(r.Context(), key, bf.lockout)
	if err != nil {
		bf.logger.Warn("lockout increment failed", slog.Any("error", err))
		return
	}
	bf.logger.Warn("failed login attempt", slog.String("ip", ip), slog.Int64("attempt", n))
}
