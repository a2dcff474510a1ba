package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-fooddelivery/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return w.err
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &recordingWriter{}
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	event := models.ChangeEvent{Collection: "orders", Op: "create", IDs: []string{"o1"}, Count: 1, At: at}

	require.NoError(t, NewKafkaPublisher(writer).Publish(context.Background(), event))

	require.Len(t, writer.messages, 1)
	assert.Equal(t, []byte("orders"), writer.messages[0].Key)

	var got models.ChangeEvent
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &got))
	assert.Equal(t, event, got)
}

func TestKafkaPublisher_WriterError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("no brokers")}

	err := NewKafkaPublisher(writer).Publish(context.Background(), models.ChangeEvent{Collection: "users"})
	assert.EqualError(t, err, "no brokers")
}
