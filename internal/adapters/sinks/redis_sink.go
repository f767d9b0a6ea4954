package sinks

import (
	"context"
	"errors"
	"fmt"
	"trip-route-resolver/internal/domain"
	"trip-route-resolver/internal/platform/obs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStreamSink appends every record to a Redis stream with XADD.
type RedisStreamSink struct {
	client *redis.Client
	stream string
	log    *zap.Logger
}

func NewRedisStreamSink(addr, stream string, log *zap.Logger) (*RedisStreamSink, error) {
	if addr == "" {
		return nil, errors.New("new redis sink: address is empty")
	}
	return NewRedisStreamSinkWithClient(redis.NewClient(&redis.Options{Addr: addr}), stream, log)
}

func NewRedisStreamSinkWithClient(client *redis.Client, stream string, log *zap.Logger) (*RedisStreamSink, error) {
	if client == nil {
		return nil, errors.New("new redis sink: client is nil")
	}
	if stream == "" {
		return nil, errors.New("new redis sink: stream is empty")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisStreamSink{client: client, stream: stream, log: log}, nil
}

func (s *RedisStreamSink) WriteRecords(ctx context.Context, records []domain.OutputRecord) (err error) {
	defer obs.Time(ctx, s.log, "redis.WriteRecords")(&err)

	if len(records) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, r := range records {
		body, err := encodeRecord(ctx, r)
		if err != nil {
			return fmt.Errorf("redis sink: %w", err)
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: s.stream,
			Values: map[string]any{
				"trip_code": r.TripCode,
				"record":    string(body),
			},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis sink: xadd %d entries to %q: %w", len(records), s.stream, err)
	}

	s.log.Info("published records",
		zap.String("sink", "redis"),
		zap.String("stream", s.stream),
		zap.Int("count", len(records)),
	)
	return nil
}

func (s *RedisStreamSink) Close() error {
	return s.client.Close()
}
