package blobstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_RoundTrip(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	store := NewRedisStore(client, "")
	assert.Equal(t, DefaultRedisKey, store.key)

	b, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, b)

	require.NoError(t, store.Put(context.Background(), []byte(`{"x":true}`)))

	b, err = store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"x":true}`, string(b))
	assert.Zero(t, mr.TTL(DefaultRedisKey), "document never expires")
}
