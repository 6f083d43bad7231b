package usecase

import (
	"context"

	"auratrack_backend/internal/feature/entries/domain/entity"
)

// entriesUsecase serves reads and owner-scoped mutations of existing entries.
type entriesUsecase struct {
	entries EntryRepository
}

// NewEntriesUsecase creates a new instance of entriesUsecase.
func NewEntriesUsecase(entries EntryRepository) *entriesUsecase {
	return &entriesUsecase{entries: entries}
}

// List returns the entries matching f. It has no side effects.
func (u *entriesUsecase) List(ctx context.Context, f entity.Filter) ([]entity.Entry, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}
	out, err := u.entries.ListByRange(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Entry{}
	}
	return out, nil
}

// Get returns a single entry owned by owner.
func (u *entriesUsecase) Get(ctx context.Context, id, owner string) (*entity.Entry, error) {
	if id == "" || owner == "" {
		return nil, ErrEntryNotFound
	}
	return u.entries.GetByID(ctx, id, owner)
}

// Update validates patch and merges it into the owner's entry.
func (u *entriesUsecase) Update(ctx context.Context, id, owner string, patch entity.EntryPatch) (*entity.Entry, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if id == "" || owner == "" {
		return nil, ErrEntryNotFound
	}
	return u.entries.Update(ctx, id, owner, patch)
}

// Delete removes the owner's entry.
func (u *entriesUsecase) Delete(ctx context.Context, id, owner string) error {
	if id == "" || owner == "" {
		return ErrEntryNotFound
	}
	return u.entries.Delete(ctx, id, owner)
}
