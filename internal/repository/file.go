package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/filedrop/filedrop/internal/model"
)

// Common errors for file repository operations.
var (
	ErrFileNotFound = errors.New("file not found")
	ErrSlugExists   = errors.New("slug already exists")
)

// CreateFile inserts a new file pointer. Slug uniqueness is enforced by
// the database constraint; a losing racer gets ErrSlugExists and the
// caller regenerates.
func (r *Repository) CreateFile(ctx context.Context, file *model.File) error {
	query := `
		INSERT INTO files (id, slug, file_name, suffix, storage_url, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		file.ID,
		file.Slug,
		file.FileName,
		file.Suffix,
		file.StorageURL,
		file.OwnerID,
		file.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugExists
		}
		return fmt.Errorf("failed to create file: %w", err)
	}

	return nil
}

// GetFileByID retrieves a file by its internal ID.
func (r *Repository) GetFileByID(ctx context.Context, id string) (*model.File, error) {
	query := `
		SELECT id, slug, file_name, suffix, storage_url, owner_id, created_at
		FROM files
		WHERE id = $1
	`

	file, err := scanFile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file by ID: %w", err)
	}

	return file, nil
}

// GetFileBySlug retrieves a file by its public slug.
// This is the hot path for redirects.
func (r *Repository) GetFileBySlug(ctx context.Context, slug string) (*model.File, error) {
	query := `
		SELECT id, slug, file_name, suffix, storage_url, owner_id, created_at
		FROM files
		WHERE slug = $1
	`

	file, err := scanFile(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file by slug: %w", err)
	}

	return file, nil
}

// ListFilesByOwner retrieves all files owned by a user, newest first.
func (r *Repository) ListFilesByOwner(ctx context.Context, ownerID string) ([]*model.File, error) {
	query := `
		SELECT id, slug, file_name, suffix, storage_url, owner_id, created_at
		FROM files
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []*model.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating files: %w", err)
	}

	return files, nil
}

// DeleteFile removes a file pointer. The owner is unaffected.
func (r *Repository) DeleteFile(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrFileNotFound
	}

	return nil
}

// SlugExists checks if a slug is already taken.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM files WHERE slug = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}

	return exists, nil
}

// scanFile scans a single row into a File model.
func scanFile(row pgx.Row) (*model.File, error) {
	var file model.File
	err := row.Scan(
		&file.ID,
		&file.Slug,
		&file.FileName,
		&file.Suffix,
		&file.StorageURL,
		&file.OwnerID,
		&file.CreatedAt,
	)
	return &file, err
}
