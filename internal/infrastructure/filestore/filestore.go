// Package filestore keeps uploaded product images on the local filesystem.
//
// Files are written under a single upload directory with generated names;
// the name returned by Store is what products reference and what the
// static /images route serves.
package filestore

import (
	"context"
	"mime/multipart"
	"time"
)

// ImageStore owns the lifecycle of stored image files.
type ImageStore interface {
	// Store writes the uploaded file and returns its generated name.
	Store(ctx context.Context, file *multipart.FileHeader) (string, error)
	// Delete removes the named file. A missing file is not an error.
	Delete(ctx context.Context, name string) error
	// List returns every stored file. A missing upload directory yields no files.
	List(ctx context.Context) ([]StoredImage, error)
	Dir() string
}

type StoredImage struct {
	Name    string
	Size    int64
	ModTime time.Time
}
