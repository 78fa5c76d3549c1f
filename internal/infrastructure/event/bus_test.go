package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// testEvent implements DomainEvent for testing
type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New()),
		Data:            "test data",
	}
}

// testHandler implements EventHandler for testing
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) handledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_PublishSubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("QuoteCreated")
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("QuoteCreated"))
	assert.NoError(t, err)
	assert.Equal(t, 1, handler.handledCount())

	// unrelated event types are not delivered
	err = bus.Publish(context.Background(), newTestEvent("BudgetCreated"))
	assert.NoError(t, err)
	assert.Equal(t, 1, handler.handledCount())
}

func TestInMemoryEventBus_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler() // no event types = all events
	bus.Subscribe(handler)

	assert.NoError(t, bus.Publish(context.Background(), newTestEvent("QuoteCreated")))
	assert.NoError(t, bus.Publish(context.Background(), newTestEvent("AlertRaised")))
	assert.Equal(t, 2, handler.handledCount())
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := newTestHandler("QuoteCreated")
	failing.err = errors.New("boom")
	healthy := newTestHandler("QuoteCreated")
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("QuoteCreated"))
	assert.NoError(t, err)
	assert.Equal(t, 1, failing.handledCount())
	assert.Equal(t, 1, healthy.handledCount())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("QuoteCreated")
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	assert.NoError(t, bus.Publish(context.Background(), newTestEvent("QuoteCreated")))
	assert.Equal(t, 0, handler.handledCount())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	assert.NoError(t, bus.Start(context.Background()))
	assert.NoError(t, bus.Stop(context.Background()))
}
