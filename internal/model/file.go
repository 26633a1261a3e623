package model

import (
	"strconv"
	"time"
)

// File is a metadata pointer to bytes held in external blob storage.
// The service never proxies content; StorageURL is an opaque pointer
// trusted verbatim at redirect time. Slug is the external-facing
// identifier, decoupled from the internal ID. Ownership is immutable
// after creation.
type File struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	FileName   string    `json:"file_name"`
	Suffix     string    `json:"suffix"`
	StorageURL string    `json:"aws_url"`
	OwnerID    string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// PublicName returns the external path segment, "<slug>.<suffix>".
func (f *File) PublicName() string {
	return f.Slug + "." + f.Suffix
}

// CachedFile represents file data stored in Redis.
// Uses string types for Redis hash compatibility.
type CachedFile struct {
	ID         string `redis:"id"`
	FileName   string `redis:"file_name"`
	Suffix     string `redis:"suffix"`
	StorageURL string `redis:"storage_url"`
	OwnerID    string `redis:"owner_id"`
	CreatedAt  string `redis:"created_at"` // Unix timestamp
}

// ToFile converts CachedFile to the File domain model.
func (c *CachedFile) ToFile(slug string) *File {
	file := &File{
		ID:         c.ID,
		Slug:       slug,
		FileName:   c.FileName,
		Suffix:     c.Suffix,
		StorageURL: c.StorageURL,
		OwnerID:    c.OwnerID,
	}

	if c.CreatedAt != "" {
		if ts, err := strconv.ParseInt(c.CreatedAt, 10, 64); err == nil {
			file.CreatedAt = time.Unix(ts, 0).UTC()
		}
	}

	return file
}

// ToCachedFile converts the File domain model to its Redis representation.
func (f *File) ToCachedFile() *CachedFile {
	return &CachedFile{
		ID:         f.ID,
		FileName:   f.FileName,
		Suffix:     f.Suffix,
		StorageURL: f.StorageURL,
		OwnerID:    f.OwnerID,
		CreatedAt:  strconv.FormatInt(f.CreatedAt.Unix(), 10),
	}
}
