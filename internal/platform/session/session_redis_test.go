package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auratrack_backend/internal/feature/auth/domain/entity"
	"auratrack_backend/internal/feature/auth/usecase"
)

func newTestStore(t *testing.T) (*SessionRedis, *redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionRedis(client, "auth"), client, mr
}

func newSession(id, userID string, age, ttl time.Duration) *entity.Session {
	now := time.Now()
	return &entity.Session{
		ID:        id,
		UserID:    userID,
		Username:  "user-" + userID,
		UserAgent: "auractl/1.0",
		IPAddress: "10.0.0.7",
		CreatedAt: now.Add(-age),
		ExpiresAt: now.Add(ttl),
	}
}

func TestNewSessionRedis_Prefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		prefix      string
		wantSession string
		wantUser    string
	}{
		{"default prefix", "", "aura-track-auth:abc", "aura-track-auth:user:u-1"},
		{"custom prefix", "custom", "custom:abc", "custom:user:u-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewSessionRedis(nil, tt.prefix)

			assert.Equal(t, tt.wantSession, repo.sessionKey("abc"))
			assert.Equal(t, tt.wantUser, repo.userSessionsKey("u-1"))
		})
	}
}

func TestSessionRedis_Create(t *testing.T) {
	t.Parallel()

	repo, _, mr := newTestStore(t)
	s := newSession("tok-1", "u-1", 0, time.Hour)

	require.NoError(t, repo.Create(context.Background(), s))

	assert.True(t, mr.Exists("auth:tok-1"))
	ttl := mr.TTL("auth:tok-1")
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5, "key expires with the session")
	members, err := mr.Members("auth:user:u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-1"}, members)

	found, err := repo.FindByID(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "user-u-1", found.Username)
	assert.Nil(t, found.RevokedAt)
}

func TestSessionRedis_Create_Expired(t *testing.T) {
	t.Parallel()

	repo, _, mr := newTestStore(t)

	err := repo.Create(context.Background(), newSession("tok-old", "u-1", 0, -time.Minute))

	assert.Error(t, err)
	assert.False(t, mr.Exists("auth:tok-old"))
	assert.False(t, mr.Exists("auth:user:u-1"), "nothing is written for an expired session")
}

func TestSessionRedis_Create_ClosedClientWritesNothing(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := NewSessionRedis(client, "auth")
	require.NoError(t, client.Close())

	assert.Error(t, repo.Create(context.Background(), newSession("tok-1", "u-1", 0, time.Hour)))
	assert.Empty(t, mr.Keys())
}

func TestSessionRedis_FindByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		seed    func(t *testing.T, repo *SessionRedis, mr *miniredis.Miniredis)
		wantErr error
	}{
		{
			name: "stored session",
			seed: func(t *testing.T, repo *SessionRedis, _ *miniredis.Miniredis) {
				require.NoError(t, repo.Create(context.Background(), newSession("tok", "u-1", 0, time.Hour)))
			},
		},
		{
			name:    "unknown id",
			seed:    func(*testing.T, *SessionRedis, *miniredis.Miniredis) {},
			wantErr: usecase.ErrSessionNotFound,
		},
		{
			name: "key expired",
			seed: func(t *testing.T, repo *SessionRedis, mr *miniredis.Miniredis) {
				require.NoError(t, repo.Create(context.Background(), newSession("tok", "u-1", 0, time.Minute)))
				mr.FastForward(2 * time.Minute)
			},
			wantErr: usecase.ErrSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, _, mr := newTestStore(t)
			tt.seed(t, repo, mr)

			found, err := repo.FindByID(context.Background(), "tok")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "tok", found.ID)
		})
	}
}

func TestSessionRedis_FindByID_CorruptedPayload(t *testing.T) {
	t.Parallel()

	repo, _, mr := newTestStore(t)
	require.NoError(t, mr.Set("auth:tok", "{not json"))

	_, err := repo.FindByID(context.Background(), "tok")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_FindByUserID_OnlyActive(t *testing.T) {
	t.Parallel()

	repo, _, mr := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newSession("live", "u-1", 0, time.Hour)))
	require.NoError(t, repo.Create(ctx, newSession("revoked", "u-1", 0, time.Hour)))
	require.NoError(t, repo.Create(ctx, newSession("short", "u-1", 0, time.Minute)))
	require.NoError(t, repo.Create(ctx, newSession("bob", "u-2", 0, time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "revoked"))
	mr.FastForward(2 * time.Minute)

	sessions, err := repo.FindByUserID(ctx, "u-1")

	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "live", sessions[0].ID)

	members, err := mr.Members("auth:user:u-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"live", "revoked"}, members, "ids of expired keys are pruned")

	none, err := repo.FindByUserID(ctx, "u-404")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSessionRedis_Revoke(t *testing.T) {
	t.Parallel()

	repo, _, mr := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newSession("tok", "u-1", 0, 7*24*time.Hour)))

	require.NoError(t, repo.Revoke(ctx, "tok"))

	found, err := repo.FindByID(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, found.IsRevoked())
	assert.Equal(t, revokedRetention, mr.TTL("auth:tok"), "revoked sessions are kept only for the retention window")

	mr.FastForward(revokedRetention + time.Second)
	_, err = repo.FindByID(ctx, "tok")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_Revoke_Errors(t *testing.T) {
	t.Parallel()

	repo, _, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newSession("tok", "u-1", 0, time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "tok"))

	assert.ErrorIs(t, repo.Revoke(ctx, "tok"), usecase.ErrSessionRevoked)
	assert.ErrorIs(t, repo.Revoke(ctx, "missing"), usecase.ErrSessionNotFound)
}

func TestSessionRedis_Revoke_ConcurrentCallsHaveOneWinner(t *testing.T) {
	t.Parallel()

	repo, _, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newSession("tok", "u-1", 0, time.Hour)))

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = repo.Revoke(ctx, "tok")
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, usecase.ErrSessionRevoked):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestSessionRedis_RevokeAllByUserID(t *testing.T) {
	t.Parallel()

	repo, _, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newSession("a", "u-1", 0, time.Hour)))
	require.NoError(t, repo.Create(ctx, newSession("b", "u-1", 0, time.Hour)))
	require.NoError(t, repo.Create(ctx, newSession("c", "u-2", 0, time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "a"))

	require.NoError(t, repo.RevokeAllByUserID(ctx, "u-1"), "already revoked sessions are skipped")

	count, err := repo.CountByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = repo.CountByUserID(ctx, "u-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSessionRedis_DeleteOldestByUserID(t *testing.T) {
	t.Parallel()

	repo, _, mr := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newSession("newest", "u-1", time.Minute, time.Hour)))
	require.NoError(t, repo.Create(ctx, newSession("oldest", "u-1", 3*time.Hour, time.Hour)))
	require.NoError(t, repo.Create(ctx, newSession("middle", "u-1", time.Hour, time.Hour)))

	require.NoError(t, repo.DeleteOldestByUserID(ctx, "u-1"))

	assert.False(t, mr.Exists("auth:oldest"))
	members, err := mr.Members("auth:user:u-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"newest", "middle"}, members, "key and set member go together")

	assert.NoError(t, repo.DeleteOldestByUserID(ctx, "u-404"))
}

func TestSessionRedis_DeleteExpired(t *testing.T) {
	t.Parallel()

	repo, _, _ := newTestStore(t)

	deleted, err := repo.DeleteExpired(context.Background())

	require.NoError(t, err)
	assert.Zero(t, deleted)
}
