package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventosys/eventosys/internal/policy"
	"github.com/eventosys/eventosys/internal/shared"
)

// Repository provides PostgreSQL backed persistence for profiles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Provision inserts the profile for a freshly created account. Calling it
// again for the same account is a no-op that returns the stored profile.
func (r *Repository) Provision(ctx context.Context, userID int64, role string, departmentID int64) (Profile, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, role, department_id)
		VALUES ($1, $2, NULLIF($3, 0))
		RETURNING user_id, role, COALESCE(department_id, 0), created_at, updated_at`,
		userID, role, departmentID)

	profile, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return r.Get(ctx, userID)
		}
		return Profile{}, err
	}
	return profile, nil
}

// Get fetches the profile for an account.
func (r *Repository) Get(ctx context.Context, userID int64) (Profile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, role, COALESCE(department_id, 0), created_at, updated_at
		FROM profiles WHERE user_id = $1`, userID)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, shared.ErrNotFound
		}
		return Profile{}, err
	}
	return profile, nil
}

// SetRole updates the stored role for an account.
func (r *Repository) SetRole(ctx context.Context, userID int64, role string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE profiles SET role = $2, updated_at = NOW() WHERE user_id = $1`, userID, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetDepartment updates the department assignment for an account.
func (r *Repository) SetDepartment(ctx context.Context, userID int64, departmentID int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE profiles SET department_id = NULLIF($2, 0), updated_at = NOW() WHERE user_id = $1`, userID, departmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Snapshot loads the immutable per-request principal view for an account.
// An account without a profile row yields a principal with no role.
func (r *Repository) Snapshot(ctx context.Context, userID int64) (policy.Principal, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT u.id, u.is_active, COALESCE(p.role, ''), COALESCE(p.department_id, 0)
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1`, userID)

	var (
		id         int64
		active     bool
		role       string
		department int64
	)
	if err := row.Scan(&id, &active, &role, &department); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return policy.Principal{}, shared.ErrNotFound
		}
		return policy.Principal{}, err
	}
	return policy.Principal{
		ID:         id,
		Role:       policy.ParseRole(role),
		Department: department,
		Active:     active,
	}, nil
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	if err := row.Scan(&p.UserID, &p.Role, &p.Department, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Profile{}, err
	}
	return p, nil
}
