package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// suspiciousFailureFloor is how many failures from one address mark it
// suspicious within the scan window.
const suspiciousFailureFloor = 5

// SecurityScanJob sweeps the access log for signals the per-request
// guards cannot see: failure clusters per address, activity on
// deactivated accounts and accounts missing a profile.
type SecurityScanJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
	clock  func() time.Time
}

// NewSecurityScanJob initialises the scan handler.
func NewSecurityScanJob(pool *pgxpool.Pool, logger *slog.Logger) *SecurityScanJob {
	return &SecurityScanJob{
		Pool:   pool,
		Logger: logger,
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

type suspiciousAddress struct {
	IPAddress string
	Failures  int64
}

type scanReport struct {
	FailedLogins     int64
	Suspicious       []suspiciousAddress
	InactiveActivity int64
	MissingProfiles  int64
}

// Handle executes one scan run.
func (j *SecurityScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("security scan: handler not configured")
	}
	var payload SecurityScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Days <= 0 {
		payload.Days = 7
	}

	start := j.clock()
	cutoff := start.AddDate(0, 0, -payload.Days)
	logger := j.Logger.With(slog.Int("days", payload.Days))
	logger.Info("starting security scan")

	report, err := j.scan(ctx, cutoff)
	if err != nil {
		logger.Error("security scan failed", slog.Any("error", err))
		return err
	}

	if report.FailedLogins > 10 {
		logger.Warn("elevated failed login volume", slog.Int64("failed_logins", report.FailedLogins))
	}
	if len(report.Suspicious) > 0 {
		logger.Warn("addresses with repeated failures", slog.Int("count", len(report.Suspicious)))
		if payload.Detailed {
			for _, s := range report.Suspicious {
				logger.Warn("suspicious address",
					slog.String("ip", s.IPAddress),
					slog.Int64("failures", s.Failures))
			}
		}
	}
	if report.InactiveActivity > 0 {
		logger.Warn("deactivated accounts with recent activity", slog.Int64("accounts", report.InactiveActivity))
	}
	if report.MissingProfiles > 0 {
		logger.Warn("accounts without profiles", slog.Int64("accounts", report.MissingProfiles))
	}

	logger.Info("completed security scan",
		slog.Int64("failed_logins", report.FailedLogins),
		slog.Int("suspicious_addresses", len(report.Suspicious)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *SecurityScanJob) scan(ctx context.Context, cutoff time.Time) (scanReport, error) {
	var report scanReport

	err := j.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM access_logs
		WHERE action = 'login' AND NOT success AND created_at >= $1`, cutoff).
		Scan(&report.FailedLogins)
	if err != nil {
		return report, err
	}

	rows, err := j.Pool.Query(ctx, `
		SELECT ip_address, COUNT(*) AS failures
		FROM access_logs
		WHERE NOT success AND created_at >= $1
		GROUP BY ip_address
		HAVING COUNT(*) >= $2
		ORDER BY failures DESC`, cutoff, suspiciousFailureFloor)
	if err != nil {
		return report, err
	}
	defer rows.Close()
	for rows.Next() {
		var s suspiciousAddress
		if err := rows.Scan(&s.IPAddress, &s.Failures); err != nil {
			return report, err
		}
		report.Suspicious = append(report.Suspicious, s)
	}
	if err := rows.Err(); err != nil {
		return report, err
	}

	err = j.Pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT l.user_id)
		FROM access_logs l
		JOIN users u ON u.id = l.user_id
		WHERE NOT u.is_active AND l.created_at >= $1`, cutoff).
		Scan(&report.InactiveActivity)
	if err != nil {
		return report, err
	}

	err = j.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE p.user_id IS NULL`).
		Scan(&report.MissingProfiles)
	if err != nil {
		return report, err
	}

	return report, nil
}
