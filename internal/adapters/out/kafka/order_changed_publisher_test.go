package kafka_test

import (
	"context"
	"errors"
	"testing"
	"time"

	adapter "orderflow/internal/adapters/out/kafka"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct{ mock.Mock }

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func TestOrderChangedPublisher_Publish(t *testing.T) {
	occurredAt := time.Date(2025, 4, 3, 12, 30, 0, 0, time.UTC)
	orderID := kernel.NewUUID()
	messages := []ports.OutboxMessage{
		{ID: kernel.NewUUID(), AggregateID: orderID, EventType: "order.created", Payload: []byte(`{"a":1}`), OccurredAt: occurredAt},
		{ID: kernel.NewUUID(), AggregateID: orderID, EventType: "order.forward", Payload: []byte(`{"a":2}`), OccurredAt: occurredAt},
	}

	t.Run("should key messages by order id and carry the event type", func(t *testing.T) {
		ctx := t.Context()
		writer := new(MockWriter)
		writer.On("WriteMessages", ctx, mock.MatchedBy(func(batch []kafka.Message) bool {
			if len(batch) != 2 {
				return false
			}
			for i, m := range batch {
				if string(m.Key) != orderID.String() || string(m.Value) != string(messages[i].Payload) {
					return false
				}
				if string(m.Headers[0].Value) != messages[i].EventType || string(m.Headers[1].Value) != messages[i].ID.String() {
					return false
				}
			}
			return batch[0].Time.Equal(occurredAt)
		})).Return(nil).Once()

		err := adapter.NewOrderChangedPublisherWithWriter(writer).Publish(ctx, messages...)

		require.NoError(t, err)
		writer.AssertExpectations(t)
	})

	t.Run("should return writer errors", func(t *testing.T) {
		ctx := t.Context()
		writer := new(MockWriter)
		writer.On("WriteMessages", ctx, mock.Anything).Return(errors.New("leader not available")).Once()

		err := adapter.NewOrderChangedPublisherWithWriter(writer).Publish(ctx, messages...)

		assert.EqualError(t, err, "leader not available")
	})

	t.Run("should skip empty batches", func(t *testing.T) {
		writer := new(MockWriter)

		err := adapter.NewOrderChangedPublisherWithWriter(writer).Publish(t.Context())

		require.NoError(t, err)
		writer.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
	})

	t.Run("should close the writer", func(t *testing.T) {
		writer := new(MockWriter)
		writer.On("Close").Return(nil).Once()

		require.NoError(t, adapter.NewOrderChangedPublisherWithWriter(writer).Close())
		writer.AssertExpectations(t)
	})
}
