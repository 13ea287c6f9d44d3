// Package eventbus provides Bus implementations: an in-memory bus for
// tests and single-process deployments, and a Kafka-backed publisher behind
// the kafka build tag.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jeremi-ah/bankledger/pkg/domain/events"
	"github.com/jeremi-ah/bankledger/pkg/eventbus"
)

// MemoryEventBus is a simple in-memory implementation of eventbus.Bus.
// Handlers run synchronously in Emit's goroutine.
type MemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]eventbus.HandlerFunc
	logger   *slog.Logger
}

// NewWithMemory creates a new in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlers: make(map[string][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
}

// Register subscribes a handler to an event type.
func (b *MemoryEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit dispatches the event to all registered handlers for its type.
// Handler errors are logged, not propagated; a committed ledger mutation
// must not be reported as failed because a listener misbehaved.
func (b *MemoryEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.RLock()
	handlers := make([]eventbus.HandlerFunc, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			b.logger.Error("event handler failed",
				"event_type", event.Type(), "error", err)
		}
	}
	return nil
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)
