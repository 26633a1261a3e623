package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/filedrop/filedrop/internal/cache"
	"github.com/filedrop/filedrop/internal/metrics"
	"github.com/filedrop/filedrop/internal/model"
	"github.com/filedrop/filedrop/internal/repository"
)

// File service errors.
var (
	ErrFileNotFound      = errors.New("file not found")
	ErrNotOwner          = errors.New("file is owned by another user")
	ErrMissingFileName   = errors.New("file_name is required")
	ErrInvalidSuffix     = errors.New("suffix is not allowed")
	ErrInvalidStorageURL = errors.New("invalid storage URL")
	ErrURLTooLong        = errors.New("storage URL too long")
	ErrConflict          = errors.New("slug conflict, retry the request")
)

const (
	maxStorageURLLength = 2048
	slugLength          = 20
	slugAlphabet        = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	maxSlugAttempts     = 2
)

// fileStore persists file pointer records.
type fileStore interface {
	CreateFile(ctx context.Context, file *model.File) error
	GetFileByID(ctx context.Context, id string) (*model.File, error)
	GetFileBySlug(ctx context.Context, slug string) (*model.File, error)
	ListFilesByOwner(ctx context.Context, ownerID string) ([]*model.File, error)
	DeleteFile(ctx context.Context, id string) error
}

// fileCache caches slug lookups for the redirect hot path.
type fileCache interface {
	GetFile(ctx context.Context, slug string) (*model.CachedFile, error)
	SetFile(ctx context.Context, slug string, file *model.File) error
	DeleteFile(ctx context.Context, slug string) error
	IsNegativelyCached(ctx context.Context, slug string) (bool, error)
	SetNegativeCache(ctx context.Context, slug string) error
}

// FileService handles file pointer registration, listing, deletion and slug
// resolution. It owns the access control decision for every file: the caller
// must already be authenticated, the target must exist, and the caller must
// own it, checked in that order.
type FileService struct {
	repo            fileStore
	cache           fileCache
	allowedSuffixes map[string]struct{}
	metrics         metrics.Recorder
}

// NewFileService creates a new FileService. allowedSuffixes is the set of
// file extensions that may be registered, without leading dots.
func NewFileService(repo fileStore, cache fileCache, allowedSuffixes []string, recorder metrics.Recorder) *FileService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	suffixes := make(map[string]struct{}, len(allowedSuffixes))
	for _, s := range allowedSuffixes {
		s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
		if s != "" {
			suffixes[s] = struct{}{}
		}
	}
	return &FileService{
		repo:            repo,
		cache:           cache,
		allowedSuffixes: suffixes,
		metrics:         recorder,
	}
}

// RegisterFileInput defines input for registering a file pointer.
type RegisterFileInput struct {
	FileName   string
	Suffix     string
	StorageURL string
}

// Register stores a new file pointer for ownerID and assigns it a unique
// public slug. On a slug collision the slug is regenerated and the insert
// retried once before the conflict is surfaced.
func (s *FileService) Register(ctx context.Context, ownerID string, input RegisterFileInput) (*model.File, error) {
	if strings.TrimSpace(input.FileName) == "" {
		return nil, ErrMissingFileName
	}

	suffix := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(input.Suffix), "."))
	if _, ok := s.allowedSuffixes[suffix]; !ok {
		return nil, ErrInvalidSuffix
	}

	if err := s.validateStorageURL(input.StorageURL); err != nil {
		return nil, err
	}

	file := &model.File{
		ID:         ulid.Make().String(),
		FileName:   strings.TrimSpace(input.FileName),
		Suffix:     suffix,
		StorageURL: input.StorageURL,
		OwnerID:    ownerID,
		CreatedAt:  time.Now().UTC(),
	}

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		file.Slug = generateSlug()
		err := s.repo.CreateFile(ctx, file)
		if err == nil {
			s.metrics.IncFileRegistered()
			return file, nil
		}
		if !errors.Is(err, repository.ErrSlugExists) {
			return nil, fmt.Errorf("create file: %w", err)
		}
		s.metrics.IncSlugCollision()
	}

	return nil, ErrConflict
}

// List returns all files owned by ownerID, newest first.
func (s *FileService) List(ctx context.Context, ownerID string) ([]*model.File, error) {
	files, err := s.repo.ListFilesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// Resolve looks up the file behind a public slug for a redirect. suffix is
// optional; when present it must match the stored record or the file is
// treated as missing. Only the owner may resolve a file.
//
// This is the hot path: cache-first lookup with a negative cache for
// repeated misses. The second return value reports whether the lookup was
// served from cache.
func (s *FileService) Resolve(ctx context.Context, userID, slug, suffix string) (*model.File, bool, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRedirectDuration(time.Since(start))
	}()

	cacheHit := false

	cached, err := s.cache.GetFile(ctx, slug)
	if err == nil {
		cacheHit = true
		s.metrics.IncRedirectCacheHit()
		file, err := s.authorize(userID, cached.ToFile(slug), suffix)
		return file, cacheHit, err
	}

	if errors.Is(err, cache.ErrCacheMiss) {
		s.metrics.IncRedirectCacheMiss()
		if isNegative, _ := s.cache.IsNegativelyCached(ctx, slug); isNegative {
			return nil, cacheHit, ErrFileNotFound
		}
	}
	// Redis errors fall through to the database.

	file, err := s.repo.GetFileBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			_ = s.cache.SetNegativeCache(ctx, slug)
			return nil, cacheHit, ErrFileNotFound
		}
		return nil, cacheHit, fmt.Errorf("get file by slug: %w", err)
	}

	if err := s.cache.SetFile(ctx, slug, file); err != nil {
		_ = err // backfill failure is tolerable
	}

	authorized, err := s.authorize(userID, file, suffix)
	return authorized, cacheHit, err
}

// Delete removes a file pointer by internal id. Only the owner may delete.
func (s *FileService) Delete(ctx context.Context, userID, fileID string) error {
	file, err := s.repo.GetFileByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("get file: %w", err)
	}

	if file.OwnerID != userID {
		return ErrNotOwner
	}

	if err := s.repo.DeleteFile(ctx, fileID); err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("delete file: %w", err)
	}

	s.metrics.IncFileDeleted()

	if err := s.cache.DeleteFile(ctx, file.Slug); err != nil {
		_ = err // stale entry expires with its TTL
	}

	return nil
}

// authorize enforces the access checks on a resolved file. Existence is
// settled before ownership: a suffix mismatch reads as a missing file, and
// only files that truly exist can yield ErrNotOwner.
func (s *FileService) authorize(userID string, file *model.File, suffix string) (*model.File, error) {
	if suffix != "" && !strings.EqualFold(suffix, file.Suffix) {
		return nil, ErrFileNotFound
	}
	if file.OwnerID != userID {
		return nil, ErrNotOwner
	}
	return file, nil
}

// validateStorageURL validates an external storage pointer.
func (s *FileService) validateStorageURL(raw string) error {
	if raw == "" {
		return ErrInvalidStorageURL
	}
	if len(raw) > maxStorageURLLength {
		return ErrURLTooLong
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidStorageURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidStorageURL
	}
	if parsed.Host == "" {
		return ErrInvalidStorageURL
	}
	return nil
}

// generateSlug generates a random public slug using crypto/rand.
func generateSlug() string {
	b := make([]byte, slugLength)
	for i := range b {
		idx, err := cryptoRandInt(len(slugAlphabet))
		if err != nil {
			idx = 0
		}
		b[i] = slugAlphabet[idx]
	}
	return string(b)
}

// cryptoRandInt returns a cryptographically secure random integer in [0, max).
func cryptoRandInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
