// Package eventbus defines the event bus consumed by the ledger service.
package eventbus

import (
	"context"

	"github.com/jeremi-ah/bankledger/pkg/domain/events"
)

// HandlerFunc handles a single event. A non-nil error marks the delivery as
// failed; redelivery policy is up to the bus implementation.
type HandlerFunc func(ctx context.Context, event events.Event) error

// Bus publishes domain events to registered handlers.
type Bus interface {
	// Register subscribes a handler to an event type.
	Register(eventType string, handler HandlerFunc)
	// Emit dispatches the event to all handlers registered for its type.
	Emit(ctx context.Context, event events.Event) error
}
