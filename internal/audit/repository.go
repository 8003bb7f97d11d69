package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads access_logs for the query API.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Window returns up to limit records matching the filters, newest first,
// skipping offset rows.
func (r *Repository) Window(ctx context.Context, filters QueryFilters, offset, limit int) ([]AccessRecord, error) {
	where := []string{"TRUE"}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filters.From.IsZero() {
		where = append(where, "created_at >= "+arg(filters.From))
	}
	if !filters.To.IsZero() {
		where = append(where, "created_at <= "+arg(filters.To))
	}
	if filters.UserID != 0 {
		where = append(where, "user_id = "+arg(filters.UserID))
	}
	if filters.Action != "" {
		where = append(where, "action = "+arg(filters.Action))
	}
	if filters.Success != nil {
		where = append(where, "success = "+arg(*filters.Success))
	}

	query := fmt.Sprintf(`
		SELECT id, COALESCE(user_id, 0), action, resource, ip_address, user_agent, success, created_at
		FROM access_logs
		WHERE %s
		ORDER BY created_at DESC, id DESC
		OFFSET %s LIMIT %s`,
		strings.Join(where, " AND "), arg(offset), arg(limit))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]AccessRecord, 0, limit)
	for rows.Next() {
		var rec AccessRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Action, &rec.Resource, &rec.IPAddress, &rec.UserAgent, &rec.Success, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
