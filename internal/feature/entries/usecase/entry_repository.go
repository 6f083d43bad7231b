package usecase

import (
	"context"

	"auratrack_backend/internal/feature/entries/domain/entity"
)

// EntryRepository abstracts the persistence of entries.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
// Every implementation must produce identical filtering and ordering.
type EntryRepository interface {
	// Create assigns a new id and creation time, persists the entry and returns the id.
	Create(ctx context.Context, e entity.Entry) (string, error)

	// ListByRange returns the owner's entries matching every predicate of f,
	// ordered by started_at descending (ties by id ascending).
	// An empty result is not an error.
	ListByRange(ctx context.Context, f entity.Filter) ([]entity.Entry, error)

	// GetByID returns ErrEntryNotFound unless an entry matches both id and owner.
	GetByID(ctx context.Context, id, owner string) (*entity.Entry, error)

	// Update merges patch over the stored entry, refreshes updated_at and returns the result.
	Update(ctx context.Context, id, owner string, patch entity.EntryPatch) (*entity.Entry, error)

	// Delete returns ErrEntryNotFound if nothing matched before deletion.
	Delete(ctx context.Context, id, owner string) error
}
