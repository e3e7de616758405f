package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/storm-forecast-digest/internal/domain"
	"github.com/couchcryptid/storm-forecast-digest/internal/notify"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"list":[]}`),
		Topic:     "raw-forecast-feeds",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("owm")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"list":[]}`, string(raw.Value))
	assert.Equal(t, "raw-forecast-feeds", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "owm", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func testDigest() domain.DigestEvent {
	return domain.DigestEvent{
		Key:      "feed-1",
		Location: domain.Location{Name: "Springfield", Lat: 39.78, Lon: -89.65},
		Result: domain.AggregationResult{
			DailyForecasts: []domain.DailyForecast{
				{DateKey: "2024-03-10", Representative: domain.RawSample{Timestamp: "2024-03-10 12:00:00", WeatherCategory: "Rain"}},
				{DateKey: "2024-03-11", Representative: domain.RawSample{Timestamp: "2024-03-11 12:00:00", WeatherCategory: "Clear"}},
			},
			Crisis: &domain.CrisisSignal{Events: []domain.CrisisEvent{}},
		},
		ProcessedAt: time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC),
	}
}

func TestSerializeToMessage(t *testing.T) {
	msg, err := serializeToMessage(testDigest())
	require.NoError(t, err)

	assert.Equal(t, []byte("feed-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"date":"2024-03-10"`)
	assert.Contains(t, string(msg.Value), `"crisis":{"events":[]}`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "days", msg.Headers[0].Key)
	assert.Equal(t, []byte("2"), msg.Headers[0].Value)
	assert.Equal(t, "crisis", msg.Headers[1].Key)
	assert.Equal(t, []byte("true"), msg.Headers[1].Value)
	assert.Equal(t, "processed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte("2024-03-10T06:00:00Z"), msg.Headers[2].Value)

	var roundtrip domain.DigestEvent
	require.NoError(t, json.Unmarshal(msg.Value, &roundtrip))
	assert.Equal(t, testDigest(), roundtrip)
}

func TestSerializeToMessage_NoCrisisOmitted(t *testing.T) {
	event := testDigest()
	event.Result.Crisis = nil

	msg, err := serializeToMessage(event)
	require.NoError(t, err)
	assert.NotContains(t, string(msg.Value), `"crisis"`)
	assert.Equal(t, []byte("false"), msg.Headers[1].Value)
}

func TestWriter_LoadBatch(t *testing.T) {
	fw := &fakeWriter{}
	w := &Writer{writer: fw, logger: slog.Default()}

	require.NoError(t, w.LoadBatch(context.Background(), nil))
	assert.Empty(t, fw.msgs)

	require.NoError(t, w.LoadBatch(context.Background(), []domain.DigestEvent{testDigest(), testDigest()}))
	assert.Len(t, fw.msgs, 2)

	require.NoError(t, w.Close())
	assert.True(t, fw.closed)
}

func TestCrisisWriter_Notify(t *testing.T) {
	fw := &fakeWriter{}
	w := &CrisisWriter{writer: fw, logger: slog.Default()}

	alert := notify.Alert{
		ID:       "crisis-abc",
		FeedKey:  "feed-1",
		Title:    notify.AlertTitle,
		Body:     "14:00: Severe Thunderstorm",
		Events:   []domain.CrisisEvent{{Time: "14:00", Condition: "Severe Thunderstorm"}},
		IssuedAt: time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC),
	}
	require.NoError(t, w.Notify(context.Background(), alert))
	require.Len(t, fw.msgs, 1)

	msg := fw.msgs[0]
	assert.Equal(t, []byte("crisis-abc"), msg.Key)
	assert.Equal(t, "feed_key", msg.Headers[0].Key)
	assert.Equal(t, []byte("feed-1"), msg.Headers[0].Value)

	var decoded notify.Alert
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, alert, decoded)
	assert.Equal(t, "kafka", w.Name())
}

func TestCrisisWriter_NotifyError(t *testing.T) {
	w := &CrisisWriter{writer: &fakeWriter{err: errors.New("leader not available")}, logger: slog.Default()}
	err := w.Notify(context.Background(), notify.Alert{ID: "crisis-abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish crisis alert")
}
