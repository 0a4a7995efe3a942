package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/woorical/apiserver/types"
)

// UserRepository handles persistence for the fixed user roster.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	const query = `
		SELECT id, key, name, color, passcode_hash, created_at, updated_at
		FROM users
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]types.User, 0, 3)
	for rows.Next() {
		var user types.User
		if err := rows.Scan(
			&user.ID,
			&user.Key,
			&user.Name,
			&user.Color,
			&user.PasscodeHash,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) GetByKey(ctx context.Context, key string) (types.User, error) {
	const query = `
		SELECT id, key, name, color, passcode_hash, created_at, updated_at
		FROM users
		WHERE key = $1`
	var user types.User
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&user.ID,
		&user.Key,
		&user.Name,
		&user.Color,
		&user.PasscodeHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// Seed inserts a roster row or refreshes its display fields. An existing
// passcode hash is never overwritten: the passcodes are already distributed,
// so a redeploy must not silently invalidate them. Only an empty hash (row
// seeded before the secret existed) picks up the new one.
func (r *UserRepository) Seed(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (key, name, color, passcode_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE
		SET name = EXCLUDED.name,
			color = EXCLUDED.color,
			passcode_hash = CASE
				WHEN users.passcode_hash = '' THEN EXCLUDED.passcode_hash
				ELSE users.passcode_hash
			END,
			updated_at = EXCLUDED.updated_at
		RETURNING id, passcode_hash, created_at`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.Key,
		user.Name,
		user.Color,
		user.PasscodeHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID, &user.PasscodeHash, &user.CreatedAt); err != nil {
		return types.User{}, err
	}
	return user, nil
}
