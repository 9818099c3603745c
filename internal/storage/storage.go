// Package storage persists validated image blobs and serves them back.
//
// Three backends share the BlobStore interface: an in-process map for
// development and tests, MongoDB GridFS, and any S3-compatible bucket. Keys are
// slash-separated paths such as "dishes/<uuid>.png".
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrBlobNotFound is returned when no blob is stored under a key.
var ErrBlobNotFound = errors.New("blob not found")

// Blob is a stored object opened for reading.
type Blob struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// BlobStore is the durable storage collaborator for uploaded images.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) (*Blob, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}
