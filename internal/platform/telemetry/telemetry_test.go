package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink remembers delivered events and can block until released.
type recordingSink struct {
	mu      sync.Mutex
	names   []string
	release chan struct{}
	err     error
}

func (s *recordingSink) Track(ctx context.Context, name string, props map[string]any) error {
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, name)
	return s.err
}

func (s *recordingSink) delivered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}

func TestLogTracker_Track(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tracker := NewLogTracker(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, tracker.Track(context.Background(), "entry_created", map[string]any{"intensity": 7}))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "telemetry event", rec["msg"])
	assert.Equal(t, "entry_created", rec["event"])
	assert.Equal(t, float64(7), rec["intensity"])
}

func TestRedisStreamTracker_Track(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tracker := NewRedisStreamTracker(client, "", 0)
	tracker.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	require.NoError(t, tracker.Track(context.Background(), "entry_created", map[string]any{"has_aura": true}))

	msgs, err := client.XRange(context.Background(), DefaultStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "entry_created", msgs[0].Values["event"])
	assert.Equal(t, "2024-03-01T10:00:00Z", msgs[0].Values["ts"])
	assert.JSONEq(t, `{"has_aura":true}`, msgs[0].Values["props"].(string))
}

func TestRedisStreamTracker_Unreachable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	err := NewRedisStreamTracker(client, "s", 0).Track(context.Background(), "entry_created", nil)

	assert.Error(t, err)
}

func TestNopTracker(t *testing.T) {
	t.Parallel()
	assert.NoError(t, NopTracker{}.Track(context.Background(), "x", nil))
}

func TestAsyncTracker_DeliversAndDrains(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	tracker := NewAsyncTracker(sink, 8, time.Second)

	for i := 0; i < 3; i++ {
		require.NoError(t, tracker.Track(context.Background(), "entry_created", nil))
	}
	require.NoError(t, tracker.Close(context.Background()))

	assert.Len(t, sink.delivered(), 3)
	// tracking after close is dropped silently
	assert.NoError(t, tracker.Track(context.Background(), "late", nil))
	assert.NoError(t, tracker.Close(context.Background()), "close is idempotent")
}

func TestAsyncTracker_DropsWhenFull(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{release: make(chan struct{})}
	tracker := NewAsyncTracker(sink, 1, time.Second)

	// the first event is taken by the worker, which then blocks in the sink
	require.NoError(t, tracker.Track(context.Background(), "first", nil))
	require.Eventually(t, func() bool { return len(tracker.events) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, tracker.Track(context.Background(), "queued", nil))
	require.NoError(t, tracker.Track(context.Background(), "dropped", nil))

	close(sink.release)
	require.NoError(t, tracker.Close(context.Background()))

	assert.Equal(t, []string{"first", "queued"}, sink.delivered())
}

func TestAsyncTracker_SinkErrorIsSwallowed(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{err: errors.New("sink down")}
	tracker := NewAsyncTracker(sink, 0, 0)

	assert.NoError(t, tracker.Track(context.Background(), "entry_created", nil))
	require.NoError(t, tracker.Close(context.Background()))
	assert.Len(t, sink.delivered(), 1)
}

func TestAsyncTracker_CloseHonorsContext(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{release: make(chan struct{})}
	tracker := NewAsyncTracker(sink, 4, time.Second)
	require.NoError(t, tracker.Track(context.Background(), "stuck", nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, tracker.Close(ctx), context.DeadlineExceeded)
	close(sink.release)
}
