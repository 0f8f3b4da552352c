package model

import (
	"context"
	"io"
)

// Uploader pushes a local file to remote object storage.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (UploadResult, error)
}

// UploadResult holds the public reference of an uploaded object.
type UploadResult struct {
	URL string
}

// Usable reports whether the upload produced a reference that can be stored.
func (r UploadResult) Usable() bool {
	return r.URL != ""
}

// ObjectBackend stores an object under key and returns its public URL.
type ObjectBackend interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}
