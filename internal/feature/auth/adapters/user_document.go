package adapters

import (
	"context"
	"errors"
	"fmt"

	"auratrack_backend/internal/feature/auth/domain/entity"
	"auratrack_backend/internal/feature/auth/usecase"
	"auratrack_backend/internal/platform/docstore"
)

// userDocument keeps users in the "app_users" collection of the document store.
type userDocument struct {
	store *docstore.Store
}

var _ usecase.UserRepository = (*userDocument)(nil)

// NewUserDocument creates a UserRepository over the document store.
func NewUserDocument(store *docstore.Store) *userDocument {
	return &userDocument{store: store}
}

// Create appends the user unless the username is already present.
func (r *userDocument) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	var users []entity.User
	err := r.store.Update(ctx, docstore.CollectionUsers, &users, func() error {
		for i := range users {
			if users[i].Username == u.Username {
				return usecase.ErrUsernameTaken
			}
		}
		users = append(users, *u)
		return nil
	})
	if errors.Is(err, usecase.ErrUsernameTaken) {
		return err
	}
	return storageErr(err)
}

// FindByUsername returns the user with the exact username, or nil when none exists.
func (r *userDocument) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.find(ctx, func(u *entity.User) bool { return u.Username == username })
}

// FindByID returns the user with the given id or usecase.ErrUserNotFound.
func (r *userDocument) FindByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := r.find(ctx, func(u *entity.User) bool { return u.ID == id })
	if err == nil && u == nil {
		return nil, usecase.ErrUserNotFound
	}
	return u, err
}

func (r *userDocument) find(ctx context.Context, match func(*entity.User) bool) (*entity.User, error) {
	var users []entity.User
	if err := r.store.Read(ctx, docstore.CollectionUsers, &users); err != nil {
		return nil, storageErr(err)
	}
	for i := range users {
		if match(&users[i]) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", usecase.ErrStorage, err)
}
