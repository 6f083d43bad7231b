package adapters

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"auratrack_backend/internal/feature/entries/domain/entity"
	"auratrack_backend/internal/feature/entries/usecase"
	"auratrack_backend/internal/platform/docstore"
)

// entryDocument implements EntryRepository over a single JSON document.
// Every call loads the whole collection and filters in memory, so cost grows with
// the total number of entries across all users.
type entryDocument struct {
	store *docstore.Store
	now   func() time.Time
}

// Compile-time check to ensure entryDocument implements EntryRepository.
var _ usecase.EntryRepository = (*entryDocument)(nil)

// NewEntryDocument creates a new instance of entryDocument.
func NewEntryDocument(store *docstore.Store) *entryDocument {
	return &entryDocument{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Create appends the entry to the collection.
func (r *entryDocument) Create(ctx context.Context, e entity.Entry) (string, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = r.now()
	e.UpdatedAt = nil
	e.Normalize()

	var all []entity.Entry
	err := r.store.Update(ctx, docstore.CollectionEntries, &all, func() error {
		all = append(all, e)
		return nil
	})
	if err != nil {
		return "", docErr(err)
	}
	return e.ID, nil
}

// ListByRange filters and sorts the whole collection in memory.
func (r *entryDocument) ListByRange(ctx context.Context, f entity.Filter) ([]entity.Entry, error) {
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	f.From, f.To = f.From.UTC(), f.To.UTC()

	out := make([]entity.Entry, 0)
	for i := range all {
		if f.Matches(&all[i]) {
			out = append(out, all[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return entity.Less(&out[i], &out[j]) })
	return out, nil
}

// GetByID retrieves an entry scoped to its owner.
func (r *entryDocument) GetByID(ctx context.Context, id, owner string) (*entity.Entry, error) {
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id && all[i].Username == owner {
			e := all[i]
			return &e, nil
		}
	}
	return nil, usecase.ErrEntryNotFound
}

// Update merges patch over the stored entry and rewrites the document.
func (r *entryDocument) Update(ctx context.Context, id, owner string, patch entity.EntryPatch) (*entity.Entry, error) {
	var (
		all     []entity.Entry
		updated entity.Entry
	)
	err := r.store.Update(ctx, docstore.CollectionEntries, &all, func() error {
		for i := range all {
			if all[i].ID != id || all[i].Username != owner {
				continue
			}
			all[i].Apply(patch)
			now := r.now()
			all[i].UpdatedAt = &now
			all[i].Normalize()
			updated = all[i]
			return nil
		}
		return usecase.ErrEntryNotFound
	})
	if err != nil {
		return nil, docErr(err)
	}
	return &updated, nil
}

// Delete removes the entry from the collection.
func (r *entryDocument) Delete(ctx context.Context, id, owner string) error {
	var all []entity.Entry
	err := r.store.Update(ctx, docstore.CollectionEntries, &all, func() error {
		kept := all[:0]
		for _, e := range all {
			if e.ID == id && e.Username == owner {
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == len(all) {
			return usecase.ErrEntryNotFound
		}
		all = kept
		return nil
	})
	return docErr(err)
}

func (r *entryDocument) readAll(ctx context.Context) ([]entity.Entry, error) {
	var all []entity.Entry
	if err := r.store.Read(ctx, docstore.CollectionEntries, &all); err != nil {
		return nil, docErr(err)
	}
	for i := range all {
		all[i].Normalize()
	}
	return all, nil
}

func docErr(err error) error {
	if err == nil || errors.Is(err, usecase.ErrEntryNotFound) {
		return err
	}
	return storageErr(err)
}
