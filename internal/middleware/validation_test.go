package middleware

import (
	"errors"
	"strings"
	"testing"
)

func TestSplitPublicName(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantSlug   string
		wantSuffix string
	}{
		{name: "bare slug", input: "aB3xY9kLm2QwErTy5uIo", wantSlug: "aB3xY9kLm2QwErTy5uIo", wantSuffix: ""},
		{name: "slug with suffix", input: "aB3xY9kLm2QwErTy5uIo.pdf", wantSlug: "aB3xY9kLm2QwErTy5uIo", wantSuffix: "pdf"},
		{name: "multiple dots split on last", input: "a.b.pdf", wantSlug: "a.b", wantSuffix: "pdf"},
		{name: "trailing dot", input: "abc.", wantSlug: "abc", wantSuffix: ""},
		{name: "empty", input: "", wantSlug: "", wantSuffix: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, suffix := SplitPublicName(tt.input)
			if slug != tt.wantSlug || suffix != tt.wantSuffix {
				t.Errorf("SplitPublicName(%q) = (%q, %q), want (%q, %q)",
					tt.input, slug, suffix, tt.wantSlug, tt.wantSuffix)
			}
		})
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr error
	}{
		{name: "valid", slug: "aB3xY9kLm2QwErTy5uIo"},
		{name: "empty", slug: "", wantErr: ErrSlugInvalid},
		{name: "path traversal", slug: "../etc/passwd", wantErr: ErrSlugInvalid},
		{name: "hyphen", slug: "abc-def", wantErr: ErrSlugInvalid},
		{name: "unicode", slug: "abcé", wantErr: ErrSlugInvalid},
		{name: "too long", slug: strings.Repeat("a", MaxSlugLength+1), wantErr: ErrSlugTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSlug(%q) = %v, want %v", tt.slug, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSuffix(t *testing.T) {
	tests := []struct {
		name    string
		suffix  string
		wantErr error
	}{
		{name: "empty is valid", suffix: ""},
		{name: "valid", suffix: "pdf"},
		{name: "numeric", suffix: "7z"},
		{name: "dotted", suffix: "tar.gz", wantErr: ErrSuffixInvalid},
		{name: "too long", suffix: strings.Repeat("x", MaxSuffixLength+1), wantErr: ErrSuffixInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSuffix(tt.suffix)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSuffix(%q) = %v, want %v", tt.suffix, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStorageURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{name: "https", url: "https://bucket.s3.amazonaws.com/key"},
		{name: "http", url: "http://storage.internal/key"},
		{name: "javascript scheme", url: "javascript:alert(1)", wantErr: ErrStorageURLUnsafe},
		{name: "file scheme", url: "file:///etc/passwd", wantErr: ErrStorageURLUnsafe},
		{name: "uppercase data scheme", url: "DATA:text/html,x", wantErr: ErrStorageURLUnsafe},
		{name: "scheme word in query is fine", url: "https://bucket/x?tag=profile:1&u=data:text/html"},
		{name: "scheme word in path is fine", url: "https://bucket/exports/file:2024/report.pdf"},
		{name: "too long", url: "https://b/" + strings.Repeat("x", MaxStorageURLLength), wantErr: ErrStorageURLTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStorageURL(tt.url)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateStorageURL(%q) = %v, want %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
