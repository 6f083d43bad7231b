package usecase

import (
	"context"
	"sync"

	"auratrack_backend/internal/feature/entries/domain/entity"
)

// mockEntryRepository is a func-field implementation of EntryRepository.
type mockEntryRepository struct {
	CreateFunc      func(ctx context.Context, e entity.Entry) (string, error)
	ListByRangeFunc func(ctx context.Context, f entity.Filter) ([]entity.Entry, error)
	GetByIDFunc     func(ctx context.Context, id, owner string) (*entity.Entry, error)
	UpdateFunc      func(ctx context.Context, id, owner string, patch entity.EntryPatch) (*entity.Entry, error)
	DeleteFunc      func(ctx context.Context, id, owner string) error

	createCalls int
}

func (m *mockEntryRepository) Create(ctx context.Context, e entity.Entry) (string, error) {
	m.createCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	return "entry-1", nil
}

func (m *mockEntryRepository) ListByRange(ctx context.Context, f entity.Filter) ([]entity.Entry, error) {
	if m.ListByRangeFunc != nil {
		return m.ListByRangeFunc(ctx, f)
	}
	return nil, nil
}

func (m *mockEntryRepository) GetByID(ctx context.Context, id, owner string) (*entity.Entry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, owner)
	}
	return nil, ErrEntryNotFound
}

func (m *mockEntryRepository) Update(ctx context.Context, id, owner string, patch entity.EntryPatch) (*entity.Entry, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, owner, patch)
	}
	return nil, ErrEntryNotFound
}

func (m *mockEntryRepository) Delete(ctx context.Context, id, owner string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, owner)
	}
	return ErrEntryNotFound
}

type trackedEvent struct {
	name  string
	props map[string]any
}

// mockTracker records every event it receives.
type mockTracker struct {
	mu     sync.Mutex
	err    error
	events []trackedEvent
}

func (m *mockTracker) Track(_ context.Context, name string, props map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, trackedEvent{name: name, props: props})
	return m.err
}

// mockLister returns a fixed result set.
type mockLister struct {
	entries []entity.Entry
	err     error
	got     entity.Filter
}

func (m *mockLister) List(_ context.Context, f entity.Filter) ([]entity.Entry, error) {
	m.got = f
	return m.entries, m.err
}

func ptr[T any](v T) *T { return &v }
