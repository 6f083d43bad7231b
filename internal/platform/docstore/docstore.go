// Package docstore layers named JSON collections over a single blob document.
//
// Every call reads the whole document. Updates are read-modify-write cycles that are
// serialized within one process only; concurrent writers in other processes can
// overwrite each other.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"auratrack_backend/internal/platform/blobstore"
)

// Collection names inside the document.
const (
	CollectionEntries = "migraine_entries"
	CollectionUsers   = "app_users"
)

// ErrBackend wraps failures of the underlying blob store or of document encoding.
var ErrBackend = errors.New("document store failure")

// Store reads and rewrites collections of one document.
type Store struct {
	blob blobstore.Store
	mu   sync.Mutex
}

// New creates a Store over blob.
func New(blob blobstore.Store) *Store {
	return &Store{blob: blob}
}

// Read decodes collection into out. A missing collection leaves out untouched.
func (s *Store) Read(ctx context.Context, collection string, out any) error {
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	return decode(doc, collection, out)
}

// Update decodes collection into out, calls fn, and writes the document back
// with out re-encoded under collection. Errors returned by fn abort the write
// and are returned unchanged.
func (s *Store) Update(ctx context.Context, collection string, out any, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := decode(doc, collection, out); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrBackend, collection, err)
	}
	doc[collection] = raw

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode document: %w", ErrBackend, err)
	}
	if err := s.blob.Put(ctx, b); err != nil {
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) (map[string]json.RawMessage, error) {
	b, err := s.blob.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}
	doc := map[string]json.RawMessage{}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode document: %w", ErrBackend, err)
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	return doc, nil
}

func decode(doc map[string]json.RawMessage, collection string, out any) error {
	raw, ok := doc[collection]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrBackend, collection, err)
	}
	return nil
}
