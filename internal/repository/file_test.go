package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/filedrop/filedrop/internal/model"
	"github.com/filedrop/filedrop/internal/testutil"
)

func createTestOwner(t *testing.T, repo *Repository, ctx context.Context, googleID string) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, googleID)
	user.CreatedAt = time.Now().UTC()
	created, err := repo.UpsertUserByGoogleID(ctx, user)
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	return created
}

func TestCreateAndGetFile(t *testing.T) {
	repo, ctx := setupTestRepo(t)
	owner := createTestOwner(t, repo, ctx, "google-files")

	file := testutil.NewTestFile(t, owner.ID, testutil.UniqueSlug("get"))
	if err := repo.CreateFile(ctx, file); err != nil {
		t.Fatalf("create file: %v", err)
	}

	bySlug, err := repo.GetFileBySlug(ctx, file.Slug)
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if bySlug.ID != file.ID || bySlug.OwnerID != owner.ID || bySlug.StorageURL != file.StorageURL {
		t.Errorf("got %+v, want id %q owner %q", bySlug, file.ID, owner.ID)
	}

	byID, err := repo.GetFileByID(ctx, file.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Slug != file.Slug {
		t.Errorf("slug = %q, want %q", byID.Slug, file.Slug)
	}

	if _, err := repo.GetFileBySlug(ctx, "nosuchslug"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("missing slug error = %v, want %v", err, ErrFileNotFound)
	}
}

func TestCreateFileSlugUnique(t *testing.T) {
	repo, ctx := setupTestRepo(t)
	owner := createTestOwner(t, repo, ctx, "google-dup")

	slug := testutil.UniqueSlug("dup")
	first := testutil.NewTestFile(t, owner.ID, slug)
	if err := repo.CreateFile(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}

	second := testutil.NewTestFile(t, owner.ID, slug)
	if err := repo.CreateFile(ctx, second); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("duplicate slug error = %v, want %v", err, ErrSlugExists)
	}

	exists, err := repo.SlugExists(ctx, slug)
	if err != nil {
		t.Fatalf("slug exists: %v", err)
	}
	if !exists {
		t.Error("SlugExists = false for stored slug")
	}
}

func TestListFilesByOwnerOrdering(t *testing.T) {
	repo, ctx := setupTestRepo(t)
	owner := createTestOwner(t, repo, ctx, "google-list")
	other := createTestOwner(t, repo, ctx, "google-other")

	base := time.Now().UTC().Add(-time.Hour)
	var slugs []string
	for i := 0; i < 3; i++ {
		file := testutil.NewTestFile(t, owner.ID, testutil.UniqueSlug("list"))
		file.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := repo.CreateFile(ctx, file); err != nil {
			t.Fatalf("create file %d: %v", i, err)
		}
		slugs = append(slugs, file.Slug)
	}
	if err := repo.CreateFile(ctx, testutil.NewTestFile(t, other.ID, testutil.UniqueSlug("noise"))); err != nil {
		t.Fatalf("create noise file: %v", err)
	}

	files, err := repo.ListFilesByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("list returned %d files, want 3", len(files))
	}

	// Newest first
	for i := 0; i < len(files); i++ {
		if want := slugs[len(slugs)-1-i]; files[i].Slug != want {
			t.Errorf("files[%d].Slug = %q, want %q", i, files[i].Slug, want)
		}
	}
}

func TestDeleteFile(t *testing.T) {
	repo, ctx := setupTestRepo(t)
	owner := createTestOwner(t, repo, ctx, "google-delete")

	file := testutil.NewTestFile(t, owner.ID, testutil.UniqueSlug("del"))
	if err := repo.CreateFile(ctx, file); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.DeleteFile(ctx, file.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetFileByID(ctx, file.ID); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("get after delete error = %v, want %v", err, ErrFileNotFound)
	}
	if err := repo.DeleteFile(ctx, file.ID); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("second delete error = %v, want %v", err, ErrFileNotFound)
	}
}
