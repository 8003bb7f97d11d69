package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventosys/eventosys/internal/policy"
	"github.com/eventosys/eventosys/internal/shared"
)

const eventColumns = `id, title, description, COALESCE(department_id, 0), owner_id, responsible_id, is_public, starts_at, ends_at, created_at, updated_at`

// Repository persists events in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get fetches one event.
func (r *Repository) Get(ctx context.Context, id int64) (*Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

// ListAccessible returns the events visible under the filter, soonest
// first. The visibility clause is pushed into SQL so filtering happens
// in the database rather than row by row in memory.
func (r *Repository) ListAccessible(ctx context.Context, filter policy.Filter, limit, offset int) ([]Event, error) {
	where, args := filter.Where(1)
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE %s
		ORDER BY starts_at ASC, id ASC
		LIMIT $%d OFFSET $%d`,
		eventColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Event, 0, limit)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *event)
	}
	return out, rows.Err()
}

// Create inserts the event and returns its assigned id.
func (r *Repository) Create(ctx context.Context, e *Event) (int64, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (title, description, department_id, owner_id, responsible_id, is_public, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, 0::bigint), $4, $5, $6, $7, $8, now(), now())
		RETURNING id`,
		e.Title, e.Description, e.DepartmentID, e.OwnerID, e.ResponsibleID, e.IsPublic, e.StartsAt, e.EndsAt)
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Update overwrites the mutable fields of the event.
func (r *Repository) Update(ctx context.Context, e *Event) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE events
		SET title = $2, description = $3, department_id = NULLIF($4, 0::bigint),
		    responsible_id = $5, is_public = $6, starts_at = $7, ends_at = $8, updated_at = now()
		WHERE id = $1`,
		e.ID, e.Title, e.Description, e.DepartmentID, e.ResponsibleID, e.IsPublic, e.StartsAt, e.EndsAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the event.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListDepartments returns all departments ordered by name.
func (r *Repository) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CreateDepartment inserts a department.
func (r *Repository) CreateDepartment(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO departments (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	return id, err
}

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.DepartmentID, &e.OwnerID, &e.ResponsibleID,
		&e.IsPublic, &e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
