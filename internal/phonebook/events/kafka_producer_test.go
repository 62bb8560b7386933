package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gartstein/phonebook/internal/phonebook/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestProducer_Produce(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	producer := newProducer(mockWriter, zaptest.NewLogger(t))
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	producer.now = func() time.Time { return fixed }
	person := &models.Person{ID: 7, FullName: "Jo", CompanyID: 3}

	var written []kafka.Message
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			written = args.Get(1).([]kafka.Message)
		}).
		Return(nil)

	producer.Produce(context.Background(), PersonCreated, "7", person)

	mockWriter.AssertExpectations(t)
	require.Len(t, written, 1)
	assert.Equal(t, "7", string(written[0].Key))

	var decoded struct {
		Type       EventType     `json:"type"`
		OccurredAt time.Time     `json:"occurredAt"`
		Payload    models.Person `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(written[0].Value, &decoded))
	assert.Equal(t, PersonCreated, decoded.Type)
	assert.True(t, fixed.Equal(decoded.OccurredAt))
	assert.Equal(t, "Jo", decoded.Payload.FullName)
	assert.Equal(t, uint(3), decoded.Payload.CompanyID)
}

func TestProducer_ProduceWriteError(t *testing.T) {
	core, recorded := observer.New(zap.ErrorLevel)
	mockWriter := new(MockKafkaWriter)
	producer := newProducer(mockWriter, zap.New(core))

	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	producer.Produce(context.Background(), CompanyCreated, "1", &models.Company{ID: 1})

	mockWriter.AssertExpectations(t)
	assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
}

func TestProducer_ProduceMarshalError(t *testing.T) {
	core, recorded := observer.New(zap.ErrorLevel)
	mockWriter := new(MockKafkaWriter)
	producer := newProducer(mockWriter, zap.New(core))

	jsonMarshal = func(interface{}) ([]byte, error) { return nil, errors.New("boom") }
	defer func() { jsonMarshal = json.Marshal }()

	producer.Produce(context.Background(), PersonDeleted, "2", &models.Person{ID: 2})

	mockWriter.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
	assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
}

func TestProducer_Close(t *testing.T) {
	t.Run("successful close", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := newProducer(mockWriter, zaptest.NewLogger(t))
		mockWriter.On("Close").Return(nil)

		producer.Close()

		mockWriter.AssertExpectations(t)
	})

	t.Run("close error is logged", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		producer := newProducer(mockWriter, zap.New(core))
		mockWriter.On("Close").Return(errors.New("close failed"))

		producer.Close()

		assert.Equal(t, 1, recorded.FilterMessage("Failed to close Kafka writer").Len())
	})
}

func TestNopProducer(t *testing.T) {
	var p NopProducer
	assert.NotPanics(t, func() {
		p.Produce(context.Background(), PersonUpdated, "1", nil)
		p.Close()
	})
}
