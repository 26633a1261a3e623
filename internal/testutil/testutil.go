// Package testutil provides helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/filedrop/filedrop/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 731731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates all tables for tests. Files reference
// users, so the files schema is torn down first and built last.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	steps := []string{
		filepath.Join("migrations", "000002_files.down.sql"),
		filepath.Join("migrations", "000001_users.down.sql"),
		filepath.Join("migrations", "000001_users.up.sql"),
		filepath.Join("migrations", "000002_files.up.sql"),
	}

	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	for _, step := range steps {
		sql, err := os.ReadFile(filepath.Join(root, step))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", step, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", step, err)
		}
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, googleID string) *model.User {
	t.Helper()
	return &model.User{
		ID:       ulid.Make().String(),
		GoogleID: googleID,
		Email:    googleID + "@example.com",
		Name:     "Test User " + googleID,
		Picture:  "https://lh3.example.com/" + googleID + ".png",
	}
}

// NewTestFile creates a test file owned by ownerID with sensible defaults.
func NewTestFile(t testing.TB, ownerID, slug string) *model.File {
	t.Helper()
	return &model.File{
		ID:         ulid.Make().String(),
		Slug:       slug,
		FileName:   "report.pdf",
		Suffix:     "pdf",
		StorageURL: "https://bucket.example.com/" + slug + ".pdf",
		OwnerID:    ownerID,
		CreatedAt:  time.Now().UTC(),
	}
}

// UniqueSlug generates a unique slug for tests.
func UniqueSlug(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano())
}
