package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"trip-route-resolver/internal/domain"
	"trip-route-resolver/internal/platform/obs"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var records = []domain.OutputRecord{
	{
		TripCode:          "t1",
		Length:            "512.3KM",
		Time:              "07:12:05",
		Source:            "Lagos",
		SourceCoords:      "6.45, 3.39",
		Destination:       "Abuja",
		DestinationCoords: "9.07, 7.49",
	},
	{
		TripCode:          "t2",
		Length:            "750KM",
		Time:              "10:00:00",
		Source:            "Lagos",
		SourceCoords:      "6.45, 3.39",
		Destination:       "Kano",
		DestinationCoords: "12, 8.52",
	},
}

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaSinkPublishesOneMessagePerRecord(t *testing.T) {
	w := &fakeWriter{}
	sink := newKafkaSink(w, "routes", zap.NewNop())
	ctx := obs.WithRunID(context.Background(), "run-1")

	require.NoError(t, sink.WriteRecords(ctx, records))
	require.Len(t, w.msgs, 2)

	first := w.msgs[0]
	assert.Equal(t, "t1", string(first.Key))
	require.Len(t, first.Headers, 1)
	assert.Equal(t, "run_id", first.Headers[0].Key)
	assert.Equal(t, "run-1", string(first.Headers[0].Value))

	var p recordPayload
	require.NoError(t, json.Unmarshal(first.Value, &p))
	assert.Equal(t, "run-1", p.RunID)
	assert.Equal(t, "512.3KM", p.Length)
	assert.Equal(t, "9.07, 7.49", p.DestinationCoords)

	require.NoError(t, sink.Close())
	assert.True(t, w.closed)
}

func TestKafkaSinkWrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	sink := newKafkaSink(&fakeWriter{err: boom}, "routes", nil)

	err := sink.WriteRecords(context.Background(), records)
	require.ErrorIs(t, err, boom)
}

func TestKafkaSinkEmptyIsNoop(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newKafkaSink(w, "routes", nil).WriteRecords(context.Background(), nil))
	assert.Empty(t, w.msgs)
}

func TestNewKafkaSinkValidates(t *testing.T) {
	_, err := NewKafkaSink(nil, "routes", nil)
	require.Error(t, err)
	_, err = NewKafkaSink([]string{"localhost:9092"}, "", nil)
	require.Error(t, err)
}

func TestRedisStreamSinkAppendsEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	sink, err := NewRedisStreamSinkWithClient(client, "trip-routes", zap.NewNop())
	require.NoError(t, err)
	defer sink.Close()

	ctx := obs.WithRunID(context.Background(), "run-2")
	require.NoError(t, sink.WriteRecords(ctx, records))

	entries, err := client.XRange(ctx, "trip-routes", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "t1", entries[0].Values["trip_code"])
	assert.Equal(t, "t2", entries[1].Values["trip_code"])

	var p recordPayload
	require.NoError(t, json.Unmarshal([]byte(entries[1].Values["record"].(string)), &p))
	assert.Equal(t, "run-2", p.RunID)
	assert.Equal(t, "Kano", p.Destination)
}

func TestRedisStreamSinkUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	sink, err := NewRedisStreamSinkWithClient(client, "trip-routes", nil)
	require.NoError(t, err)
	mr.Close()

	require.Error(t, sink.WriteRecords(context.Background(), records))
}

type recordingSink struct {
	got [][]domain.OutputRecord
	err error
}

func (r *recordingSink) WriteRecords(_ context.Context, recs []domain.OutputRecord) error {
	r.got = append(r.got, recs)
	return r.err
}

func TestMultiStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	a := &recordingSink{}
	b := &recordingSink{err: boom}
	c := &recordingSink{}

	err := Multi{a, b, c}.WriteRecords(context.Background(), records)
	require.ErrorIs(t, err, boom)
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
	assert.Empty(t, c.got)
}
