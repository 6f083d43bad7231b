package adapters

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"auratrack_backend/internal/feature/auth/domain/entity"
	"auratrack_backend/internal/feature/auth/usecase"
	"auratrack_backend/internal/platform/blobstore"
	"auratrack_backend/internal/platform/docstore"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(Models()...), "failed to migrate tables")
	return db
}

func userBackends(t *testing.T) map[string]usecase.UserRepository {
	t.Helper()
	doc := docstore.New(blobstore.NewFileStore(filepath.Join(t.TempDir(), "document.json")))
	return map[string]usecase.UserRepository{
		"relational": NewUserGorm(setupTestDB(t)),
		"document":   NewUserDocument(doc),
	}
}

func newUser(id, username string) *entity.User {
	return &entity.User{
		ID:           id,
		Username:     username,
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	t.Parallel()

	for name, repo := range userBackends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			want := newUser("u-1", "alice")

			require.NoError(t, repo.Create(ctx, want))

			got, err := repo.FindByUsername(ctx, "alice")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.PasswordHash, got.PasswordHash)
			assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

			byID, err := repo.FindByID(ctx, "u-1")
			require.NoError(t, err)
			assert.Equal(t, "alice", byID.Username)
		})
	}
}

func TestUserRepository_Absent(t *testing.T) {
	t.Parallel()

	for name, repo := range userBackends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			require.NoError(t, repo.Create(ctx, newUser("u-1", "alice")))

			got, err := repo.FindByUsername(ctx, "Alice")
			assert.NoError(t, err, "absence is not an error")
			assert.Nil(t, got)

			_, err = repo.FindByID(ctx, "missing")
			assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		})
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	t.Parallel()

	for name, repo := range userBackends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			require.NoError(t, repo.Create(ctx, newUser("u-1", "alice")))

			dup := newUser("u-2", "alice")
			dup.PasswordHash = "$2a$10$other"
			err := repo.Create(ctx, dup)
			assert.ErrorIs(t, err, usecase.ErrUsernameTaken)

			original, err := repo.FindByUsername(ctx, "alice")
			require.NoError(t, err)
			require.NotNil(t, original)
			assert.Equal(t, "u-1", original.ID)
			assert.Equal(t, "$2a$10$hash", original.PasswordHash)
			_, err = repo.FindByID(ctx, "u-2")
			assert.ErrorIs(t, err, usecase.ErrUserNotFound)

			// usernames are case-sensitive
			assert.NoError(t, repo.Create(ctx, newUser("u-3", "ALICE")))
		})
	}
}

func TestUserRepository_NilUser(t *testing.T) {
	t.Parallel()

	for name, repo := range userBackends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Error(t, repo.Create(context.Background(), nil))
		})
	}
}

func TestUserDocument_StorageError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	// a directory cannot be read as a document
	repo := NewUserDocument(docstore.New(blobstore.NewFileStore(dir)))

	_, err := repo.FindByUsername(context.Background(), "alice")

	assert.ErrorIs(t, err, usecase.ErrStorage)
}
