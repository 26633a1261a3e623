package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/filedrop/filedrop/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// UpsertUserByGoogleID resolves a Google identity to an internal user,
// creating the record on first resolution. One atomic statement keyed
// on the google_id uniqueness constraint, so concurrent first-time
// resolutions of the same identity yield exactly one row and the same
// internal id.
//
// The no-op DO UPDATE makes the conflict path lock and return the
// winning row even when it committed after this statement's snapshot;
// DO NOTHING plus a re-select sees zero rows there under READ
// COMMITTED. Identity fields stay untouched after creation.
func (r *Repository) UpsertUserByGoogleID(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (id, google_id, email, name, picture, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (google_id) DO UPDATE SET google_id = EXCLUDED.google_id
		RETURNING id, google_id, email, name, picture, created_at
	`

	var resolved model.User
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.GoogleID,
		user.Email,
		user.Name,
		user.Picture,
		user.CreatedAt,
	).Scan(
		&resolved.ID,
		&resolved.GoogleID,
		&resolved.Email,
		&resolved.Name,
		&resolved.Picture,
		&resolved.CreatedAt,
	)

	if err != nil {
		// A different google_id with an already-registered email trips the
		// email uniqueness constraint.
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return &resolved, nil
}

// GetUserByID retrieves a user by their internal ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, google_id, email, name, picture, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.GoogleID,
		&user.Email,
		&user.Name,
		&user.Picture,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// GetUserByGoogleID retrieves a user by their external identity id.
func (r *Repository) GetUserByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	query := `
		SELECT id, google_id, email, name, picture, created_at
		FROM users
		WHERE google_id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, googleID).Scan(
		&user.ID,
		&user.GoogleID,
		&user.Email,
		&user.Name,
		&user.Picture,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by google ID: %w", err)
	}

	return &user, nil
}

// DeleteUser removes a user. Files owned by the user are removed in the
// same statement by the owner_id foreign key's ON DELETE CASCADE, so the
// ownership lifecycle invariant holds without application-level traversal.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
