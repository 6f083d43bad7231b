// Package blobstore provides drivers that read and write a single opaque document.
package blobstore

import "context"

// Store holds one document. Get returns (nil, nil) when nothing has been written yet.
type Store interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, data []byte) error
}
