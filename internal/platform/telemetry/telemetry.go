// Package telemetry delivers product analytics events to a configured sink.
//
// Sinks never fail the caller's operation: the async wrapper drops events when
// its queue is full and logs sink errors at Warn.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sink names accepted by TELEMETRY_SINK.
const (
	SinkLog   = "log"
	SinkRedis = "redis"
	SinkNone  = "none"
)

// DefaultStream is the Redis stream events are appended to.
const DefaultStream = "aura-track:events"

// LogTracker writes events as structured log records.
type LogTracker struct {
	logger *slog.Logger
}

// NewLogTracker creates a LogTracker. A nil logger uses slog.Default().
func NewLogTracker(logger *slog.Logger) *LogTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTracker{logger: logger}
}

// Track logs name with props as attributes.
func (t *LogTracker) Track(ctx context.Context, name string, props map[string]any) error {
	attrs := make([]any, 0, 2+2*len(props))
	attrs = append(attrs, "event", name)
	for k, v := range props {
		attrs = append(attrs, k, v)
	}
	t.logger.InfoContext(ctx, "telemetry event", attrs...)
	return nil
}

// RedisStreamTracker appends events to a Redis stream with XADD.
type RedisStreamTracker struct {
	client *redis.Client
	stream string
	maxLen int64
	now    func() time.Time
}

// NewRedisStreamTracker creates a tracker writing to stream, trimmed approximately to maxLen
// entries when maxLen is positive.
func NewRedisStreamTracker(client *redis.Client, stream string, maxLen int64) *RedisStreamTracker {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStreamTracker{client: client, stream: stream, maxLen: maxLen, now: time.Now}
}

// Track appends one stream entry with the event name, timestamp and JSON encoded props.
func (t *RedisStreamTracker) Track(ctx context.Context, name string, props map[string]any) error {
	b, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("encode event props: %w", err)
	}
	args := &redis.XAddArgs{
		Stream: t.stream,
		Values: map[string]any{
			"event": name,
			"ts":    t.now().UTC().Format(time.RFC3339Nano),
			"props": string(b),
		},
	}
	if t.maxLen > 0 {
		args.MaxLen = t.maxLen
		args.Approx = true
	}
	return t.client.XAdd(ctx, args).Err()
}

// NopTracker discards every event.
type NopTracker struct{}

// Track does nothing.
func (NopTracker) Track(context.Context, string, map[string]any) error { return nil }

// Tracker is the sink contract shared by every tracker in this package.
type Tracker interface {
	Track(ctx context.Context, name string, props map[string]any) error
}

type event struct {
	name  string
	props map[string]any
}

// AsyncTracker queues events for a background goroutine that forwards them to a sink.
type AsyncTracker struct {
	sink    Tracker
	events  chan event
	timeout time.Duration
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewAsyncTracker starts a worker draining a queue of size buffer into sink.
// Each delivery gets its own timeout.
func NewAsyncTracker(sink Tracker, buffer int, timeout time.Duration) *AsyncTracker {
	if buffer <= 0 {
		buffer = 256
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	t := &AsyncTracker{
		sink:    sink,
		events:  make(chan event, buffer),
		timeout: timeout,
	}
	t.wg.Add(1)
	go t.run()
	return t
}

// Track enqueues the event without blocking. A full queue or a closed tracker drops it.
func (t *AsyncTracker) Track(_ context.Context, name string, props map[string]any) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		slog.Warn("telemetry event dropped", "event", name, "reason", "closed")
		return nil
	}
	select {
	case t.events <- event{name: name, props: props}:
	default:
		slog.Warn("telemetry event dropped", "event", name, "reason", "queue full")
	}
	return nil
}

// Close stops accepting events and waits for queued ones to be delivered or ctx to end.
func (t *AsyncTracker) Close(ctx context.Context) error {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.events)
	}
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *AsyncTracker) run() {
	defer t.wg.Done()
	for ev := range t.events {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		if err := t.sink.Track(ctx, ev.name, ev.props); err != nil {
			slog.Warn("telemetry delivery failed", "event", ev.name, "error", err)
		}
		cancel()
	}
}
