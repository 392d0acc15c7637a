package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/frontdesk/frontdesk-api/internal/model"
	"github.com/frontdesk/frontdesk-api/pkg/logger"
	"github.com/frontdesk/frontdesk-api/pkg/metrics"
)

type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockOutboxRepo) CreateTx(ctx context.Context, tx *sql.Tx, event *model.OutboxEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.OutboxEvent), args.Error(1)
}

func (m *mockOutboxRepo) BeginTx(ctx context.Context) (*sql.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sql.Tx), args.Error(1)
}

func (m *mockOutboxRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error {
	args := m.Called(ctx, tx, id, status, errorMessage, retryAt)
	return args.Error(0)
}

func (m *mockOutboxRepo) MoveToDeadLetter(ctx context.Context, tx *sql.Tx, event *model.OutboxEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

func (m *mockOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type fakeBroker struct {
	published map[string][][]byte
	failures  int
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{published: make(map[string][][]byte)}
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if b.failures > 0 {
		b.failures--
		return fmt.Errorf("broker unavailable")
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	b.published[channel] = append(b.published[channel], payload)
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	ch := make(chan []byte)
	close(ch)
	return ch, nil
}

func (b *fakeBroker) Close() error { return nil }

var testMetrics = metrics.NewMetrics("frontdesk_test", "outbox")

func testConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}
}

func pendingEvent(eventType string) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   json.RawMessage(`{"title":"checkup"}`),
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}
}

func quietLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.FatalLevel, Output: discard{}})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestProcessEventsPublishesAndMarksProcessed(t *testing.T) {
	repo := new(mockOutboxRepo)
	broker := newFakeBroker()
	event := pendingEvent(model.EventTypeAppointmentScheduled)

	repo.On("GetPendingEventsWithLock", mock.Anything, 10).
		Return([]*model.OutboxEvent{event}, nil)
	repo.On("UpdateStatusTx", mock.Anything, (*sql.Tx)(nil), event.ID,
		model.OutboxStatusProcessed, (*string)(nil), (*time.Time)(nil)).
		Return(nil)

	p := NewOutboxProcessor(repo, broker, testConfig(), quietLogger(), testMetrics)

	err := p.processEvents(context.Background())
	require.NoError(t, err)

	require.Len(t, broker.published[model.EventTypeAppointmentScheduled], 1)
	assert.JSONEq(t, `{"title":"checkup"}`, string(broker.published[model.EventTypeAppointmentScheduled][0]))
	repo.AssertExpectations(t)
}

func TestProcessEventsMarksFailedWithRetryTime(t *testing.T) {
	repo := new(mockOutboxRepo)
	broker := newFakeBroker()
	broker.failures = 10
	event := pendingEvent(model.EventTypeAppointmentDeleted)
	event.RetryCount = 0

	cfg := testConfig()
	cfg.RetryAttempts = 3

	repo.On("GetPendingEventsWithLock", mock.Anything, 10).
		Return([]*model.OutboxEvent{event}, nil)
	repo.On("UpdateStatusTx", mock.Anything, (*sql.Tx)(nil), event.ID,
		model.OutboxStatusFailed, mock.AnythingOfType("*string"), mock.AnythingOfType("*time.Time")).
		Return(nil)

	p := NewOutboxProcessor(repo, broker, cfg, quietLogger(), testMetrics)

	err := p.processEvents(context.Background())
	require.NoError(t, err)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "MoveToDeadLetter", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessEventsSkipsBatchFetchFailure(t *testing.T) {
	repo := new(mockOutboxRepo)
	repo.On("GetPendingEventsWithLock", mock.Anything, 10).
		Return(nil, fmt.Errorf("lock timeout"))

	p := NewOutboxProcessor(repo, newFakeBroker(), testConfig(), quietLogger(), testMetrics)

	err := p.processEvents(context.Background())
	assert.Error(t, err)
}

func TestNewOutboxProcessorRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BatchSize = 0
	assert.Panics(t, func() {
		NewOutboxProcessor(new(mockOutboxRepo), newFakeBroker(), cfg, quietLogger(), testMetrics)
	})
}
