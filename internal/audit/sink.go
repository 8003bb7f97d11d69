package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultWriteTimeout bounds how long a request may wait on an audit
// append before the record is dropped.
const DefaultWriteTimeout = 250 * time.Millisecond

// Execer is the single write the sink needs; satisfied by *pgxpool.Pool.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Sink appends access records. Appends are best-effort: a slow or failing
// store drops the record with a warning and never fails the request that
// triggered it.
type Sink struct {
	db      Execer
	logger  *slog.Logger
	timeout time.Duration
}

// NewSink constructs a Sink. A non-positive timeout falls back to
// DefaultWriteTimeout.
func NewSink(db Execer, logger *slog.Logger, timeout time.Duration) *Sink {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{db: db, logger: logger, timeout: timeout}
}

// Record appends the access record within the write timeout. Failures are
// swallowed after a warning.
func (s *Sink) Record(ctx context.Context, rec AccessRecord) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	at := rec.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := s.db.Exec(writeCtx, `
		INSERT INTO access_logs (user_id, action, resource, ip_address, user_agent, success, created_at)
		VALUES (NULLIF($1, 0::bigint), $2, $3, $4, $5, $6, $7)`,
		rec.UserID, rec.Action, rec.Resource, rec.IPAddress, rec.UserAgent, rec.Success, at)
	if err != nil {
		s.logger.Warn("audit record dropped",
			slog.String("action", rec.Action),
			slog.String("resource", rec.Resource),
			slog.Any("error", err),
		)
	}
}
