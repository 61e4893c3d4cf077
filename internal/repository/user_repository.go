package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/auth-service/internal/domain"
)

// UserRepository is the credential store: account rows plus the reset-token
// columns that live on them. The boolean-returning mutations report whether
// a row was actually written, leaving the policy for a miss to the caller.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, passwordHash string, userID int64) (bool, error)
	UpdateResetToken(ctx context.Context, user *domain.User) (bool, error)
	ResetPassword(ctx context.Context, token, passwordHash string) (bool, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, status, reset_token, reset_token_expires_at, created_at, updated_at
        FROM users WHERE email=$1`

	return r.scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, status, reset_token, reset_token_expires_at, created_at, updated_at
        FROM users WHERE id=$1`

	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Status,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) UpdatePassword(ctx context.Context, passwordHash string, userID int64) (bool, error) {
	const query = `
        UPDATE users SET password_hash=$1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *userRepository) UpdateResetToken(ctx context.Context, user *domain.User) (bool, error) {
	const query = `
        UPDATE users SET reset_token=$1, reset_token_expires_at=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, user.ResetToken, user.ResetTokenExpiresAt, user.ID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// ResetPassword consumes a matching, non-expired reset token in a single
// statement: the token match and the invalidation commit together, so a
// second call with the same token finds no row.
func (r *userRepository) ResetPassword(ctx context.Context, token, passwordHash string) (bool, error) {
	const query = `
        UPDATE users
        SET password_hash=$2, reset_token=NULL, reset_token_expires_at=NULL, updated_at=NOW()
        WHERE reset_token=$1 AND reset_token_expires_at > NOW()`

	cmd, err := r.pool.Exec(ctx, query, token, passwordHash)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *userRepository) scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Status,
		&user.ResetToken,
		&user.ResetTokenExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
