package di

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"auratrack_backend/internal/app/config"
	"auratrack_backend/internal/platform/telemetry"
)

const telemetryStreamMaxLen = 100_000

// NewTracker builds the sink selected by cfg.Sink behind an async queue.
func NewTracker(cfg config.TelemetryConfig, rdb *redis.Client) (*telemetry.AsyncTracker, error) {
	var sink telemetry.Tracker
	switch cfg.Sink {
	case telemetry.SinkLog:
		sink = telemetry.NewLogTracker(nil)
	case telemetry.SinkRedis:
		if rdb == nil {
			return nil, fmt.Errorf("telemetry sink %q: %w", cfg.Sink, ErrRedisRequired)
		}
		sink = telemetry.NewRedisStreamTracker(rdb, cfg.Stream, telemetryStreamMaxLen)
	case telemetry.SinkNone:
		sink = telemetry.NopTracker{}
	default:
		return nil, fmt.Errorf("unsupported telemetry sink %q", cfg.Sink)
	}
	return telemetry.NewAsyncTracker(sink, 0, 0), nil
}
