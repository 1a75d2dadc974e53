package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stockledger/backend/internal/domain/shared"
)

// recordingHandler collects every event it receives
type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     error
	panic    bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panic {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.fail
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) shared.DomainEvent {
	base := shared.NewBaseDomainEvent(eventType, "stock_item", uuid.New())
	return &base
}

func TestInMemoryEventBusPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to subscribed handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"stock.adjusted"}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newTestEvent("stock.adjusted")))
		require.NoError(t, bus.Publish(ctx, newTestEvent("stock.reserved")))

		assert.Len(t, handler.received, 1)
		assert.Equal(t, "stock.adjusted", handler.received[0].EventType())
	})

	t.Run("wildcard handler receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newTestEvent("stock.adjusted"), newTestEvent("stock.reserved")))
		assert.Len(t, handler.received, 2)
	})

	t.Run("failing handler does not block others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"stock.adjusted"}, fail: errors.New("boom")}
		healthy := &recordingHandler{types: []string{"stock.adjusted"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newTestEvent("stock.adjusted")))
		assert.Len(t, healthy.received, 1)
	})

	t.Run("panicking handler is recovered", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{"stock.adjusted"}, panic: true}
		healthy := &recordingHandler{types: []string{"stock.adjusted"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newTestEvent("stock.adjusted")))
		assert.Len(t, healthy.received, 1)
	})

	t.Run("unsubscribed handler stops receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"stock.adjusted"}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		require.NoError(t, bus.Publish(ctx, newTestEvent("stock.adjusted")))
		assert.Empty(t, handler.received)
	})
}

func TestHandlerRegistry(t *testing.T) {
	t.Run("combines specific and wildcard handlers", func(t *testing.T) {
		registry := NewHandlerRegistry()
		specific := &recordingHandler{}
		wildcard := &recordingHandler{}
		registry.Register(specific, "stock.adjusted")
		registry.Register(wildcard)

		assert.Len(t, registry.GetHandlers("stock.adjusted"), 2)
		assert.Len(t, registry.GetHandlers("stock.reserved"), 1)
	})
}
