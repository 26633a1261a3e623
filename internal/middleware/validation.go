package middleware

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// Validation limits.
const (
	// MaxSlugLength bounds the slug route parameter.
	MaxSlugLength = 64

	// MaxStorageURLLength is the maximum length for storage pointers.
	MaxStorageURLLength = 2048

	// MaxSuffixLength bounds a file extension.
	MaxSuffixLength = 10
)

// Validation errors.
var (
	ErrSlugInvalid       = errors.New("slug contains invalid characters")
	ErrSlugTooLong       = errors.New("slug exceeds maximum length")
	ErrSuffixInvalid     = errors.New("suffix contains invalid characters")
	ErrStorageURLTooLong = errors.New("storage URL exceeds maximum length")
	ErrStorageURLUnsafe  = errors.New("storage URL uses unsafe scheme")
)

// validSlugPattern matches valid slug characters: a-z, A-Z, 0-9.
var validSlugPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// validSuffixPattern matches valid file extension characters.
var validSuffixPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// SplitPublicName splits a public file name of the form "slug.suffix" into
// its parts. A name without a dot is a bare slug with an empty suffix.
func SplitPublicName(name string) (slug, suffix string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

// ValidateSlug validates a slug route parameter before any lookup happens.
func ValidateSlug(slug string) error {
	if slug == "" || !validSlugPattern.MatchString(slug) {
		return ErrSlugInvalid
	}
	if len(slug) > MaxSlugLength {
		return ErrSlugTooLong
	}
	return nil
}

// ValidateSuffix validates a file extension taken from a public name.
// An empty suffix is valid: the bare slug form omits it.
func ValidateSuffix(suffix string) error {
	if suffix == "" {
		return nil
	}
	if len(suffix) > MaxSuffixLength || !validSuffixPattern.MatchString(suffix) {
		return ErrSuffixInvalid
	}
	return nil
}

// ValidateStorageURL screens a storage pointer for dangerous schemes
// before it reaches the registry. Only the parsed scheme is checked:
// a path or query that merely contains "data:" or "file:" is a legal
// pointer. Structural validation is the service's job.
func ValidateStorageURL(raw string) error {
	if len(raw) > MaxStorageURLLength {
		return ErrStorageURLTooLong
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		// Unparseable pointers fall through to the service's check.
		return nil
	}

	switch strings.ToLower(parsed.Scheme) {
	case "javascript", "data", "vbscript", "file":
		return ErrStorageURLUnsafe
	}

	return nil
}
