package sinks

import (
	"context"
	"errors"
	"fmt"
	"time"
	"trip-route-resolver/internal/domain"
	"trip-route-resolver/internal/platform/obs"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is the subset of *kafka.Writer used by the sink.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaSink publishes one message per record, keyed by trip code.
type KafkaSink struct {
	writer messageWriter
	topic  string
	log    *zap.Logger
}

func NewKafkaSink(brokers []string, topic string, log *zap.Logger) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, errors.New("new kafka sink: no brokers configured")
	}
	if topic == "" {
		return nil, errors.New("new kafka sink: topic is empty")
	}
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return newKafkaSink(w, topic, log), nil
}

func newKafkaSink(w messageWriter, topic string, log *zap.Logger) *KafkaSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &KafkaSink{writer: w, topic: topic, log: log}
}

func (k *KafkaSink) WriteRecords(ctx context.Context, records []domain.OutputRecord) (err error) {
	defer obs.Time(ctx, k.log, "kafka.WriteRecords")(&err)

	if len(records) == 0 {
		return nil
	}

	runID := obs.RunID(ctx)
	msgs := make([]kafkago.Message, 0, len(records))
	for _, r := range records {
		value, err := encodeRecord(ctx, r)
		if err != nil {
			return fmt.Errorf("kafka sink: %w", err)
		}
		msg := kafkago.Message{
			Key:   []byte(r.TripCode),
			Value: value,
		}
		if runID != "" {
			msg.Headers = []kafkago.Header{{Key: "run_id", Value: []byte(runID)}}
		}
		msgs = append(msgs, msg)
	}

	if err := k.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka sink: write %d messages to %q: %w", len(msgs), k.topic, err)
	}

	k.log.Info("published records",
		zap.String("sink", "kafka"),
		zap.String("topic", k.topic),
		zap.Int("count", len(msgs)),
	)
	return nil
}

func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
