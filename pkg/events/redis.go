package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Defaults for RedisStreamSink.
const (
	DefaultStream    = "numflow:events"
	DefaultDedupeTTL = 24 * time.Hour
	DefaultMaxLen    = 10000
)

// RedisStreamSink appends events to a Redis stream. Each idempotency key is
// claimed with SET NX before the XADD so duplicates are dropped.
type RedisStreamSink struct {
	client    redis.UniversalClient
	stream    string
	dedupeTTL time.Duration
	maxLen    int64
}

// RedisOption configures a RedisStreamSink.
type RedisOption func(*RedisStreamSink)

// WithStream sets the stream key.
func WithStream(stream string) RedisOption {
	return func(s *RedisStreamSink) { s.stream = stream }
}

// WithDedupeTTL sets how long an idempotency key is remembered.
func WithDedupeTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStreamSink) { s.dedupeTTL = ttl }
}

// WithMaxLen caps the approximate stream length. Zero disables trimming.
func WithMaxLen(n int64) RedisOption {
	return func(s *RedisStreamSink) { s.maxLen = n }
}

// NewRedisStreamSink creates a sink writing through client.
func NewRedisStreamSink(client redis.UniversalClient, opts ...RedisOption) *RedisStreamSink {
	s := &RedisStreamSink{
		client:    client,
		stream:    DefaultStream,
		dedupeTTL: DefaultDedupeTTL,
		maxLen:    DefaultMaxLen,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stream returns the stream key events are appended to.
func (s *RedisStreamSink) Stream() string { return s.stream }

func (s *RedisStreamSink) dedupeKey(idemKey string) string {
	return s.stream + ":idem:" + idemKey
}

// Append implements EventSink.
func (s *RedisStreamSink) Append(ctx context.Context, envelope Envelope) error {
	if err := envelope.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	dedupeKey := s.dedupeKey(envelope.IdempotencyKey)
	claimed, err := s.client.SetNX(ctx, dedupeKey, envelope.ID, s.dedupeTTL).Result()
	if err != nil {
		return fmt.Errorf("claim idempotency key: %w", err)
	}
	if !claimed {
		return nil
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"type":     envelope.Type,
			"envelope": string(payload),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		// Release the claim so a retry can append.
		if delErr := s.client.Del(ctx, dedupeKey).Err(); delErr != nil {
			return fmt.Errorf("append event: %w (release idempotency key: %w)", err, delErr)
		}
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Read returns up to count envelopes from the start of the stream.
func (s *RedisStreamSink) Read(ctx context.Context, count int64) ([]Envelope, error) {
	msgs, err := s.client.XRangeN(ctx, s.stream, "-", "+", count).Result()
	if err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}

	out := make([]Envelope, 0, len(msgs))
	for _, msg := range msgs {
		raw, ok := msg.Values["envelope"].(string)
		if !ok {
			return nil, fmt.Errorf("stream entry %s: missing envelope", msg.ID)
		}
		var env Envelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			return nil, fmt.Errorf("stream entry %s: %w", msg.ID, err)
		}
		out = append(out, env)
	}
	return out, nil
}
