package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventosys/eventosys/internal/platform/db"
	"github.com/eventosys/eventosys/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	CreateAccount(ctx context.Context, username, passwordHash string) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByUsername fetches a user by username.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, is_active, created_at, updated_at
		FROM users
		WHERE username = $1`, username)

	var user User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)

// ErrUsernameTaken reports a registration conflict.
var ErrUsernameTaken = errors.New("auth: username already taken")

// CreateAccount inserts the user row and its viewer profile in one
// transaction so no account ever exists without a profile.
func (r *PGRepository) CreateAccount(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO users (username, password_hash, is_active, created_at, updated_at)
			VALUES ($1, $2, TRUE, now(), now())
			RETURNING id`, username, passwordHash)
		if err := row.Scan(&id); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrUsernameTaken
			}
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO profiles (user_id, role, created_at, updated_at)
			VALUES ($1, 'viewer', now(), now())`, id)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}
