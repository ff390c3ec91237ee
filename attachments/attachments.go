// Package attachments provides pluggable storage for task file
// attachments. Attachments are addressed by opaque URL; tasks only ever
// carry the URL, never the bytes.
package attachments

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a URL resolves to no stored attachment.
var ErrNotFound = errors.New("attachment not found")

// Metadata describes an uploaded file.
type Metadata struct {
	Name     string
	MimeType string
}

// Storage persists attachment bytes and resolves opaque URLs back to
// them. Implementations decide durability; the board core only sees
// URLs.
type Storage interface {
	Store(ctx context.Context, data []byte, meta Metadata) (string, error)
	Fetch(ctx context.Context, url string) ([]byte, Metadata, error)
}

var allowedTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"application/pdf": {},
}

// Allowed reports whether the mime type is accepted for upload. The set
// mirrors the validation the board UI applies before submitting a file.
func Allowed(mimeType string) bool {
	_, ok := allowedTypes[mimeType]
	return ok
}
