package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/ahrav/go-numflow/internal/config"
	"github.com/ahrav/go-numflow/pkg/events"
)

// NewClient dials Temporal with the process logger bridged into the SDK.
func NewClient(cfg config.TemporalConfig, logger *slog.Logger) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
		Logger:    tlog.NewStructuredLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to temporal at %s: %w", cfg.HostPort, err)
	}
	return c, nil
}

// New creates a worker polling cfg.TaskQueue with everything registered.
func New(c client.Client, cfg config.TemporalConfig, deps Deps) sdkworker.Worker {
	w := sdkworker.New(c, cfg.TaskQueue, sdkworker.Options{})
	RegisterAll(w, deps)
	return w
}

// InitializeEventSink builds the configured sink. The returned close function
// releases any connection and is never nil.
func InitializeEventSink(ctx context.Context, cfg config.EventsConfig) (events.EventSink, func() error, error) {
	noClose := func() error { return nil }

	switch cfg.Sink {
	case "", config.SinkNone:
		return events.NewNoOpEventSink(), noClose, nil
	case config.SinkMemory:
		return events.NewMemorySink(), noClose, nil
	case config.SinkRedis:
		rc := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := rc.Ping(ctx).Err(); err != nil {
			_ = rc.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		sink := events.NewRedisStreamSink(rc,
			events.WithStream(cfg.Stream),
			events.WithDedupeTTL(cfg.DedupeTTL),
			events.WithMaxLen(cfg.MaxLen))
		return sink, rc.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown event sink %q", cfg.Sink)
	}
}
