package eventbus_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraeventbus "github.com/jeremi-ah/bankledger/infra/eventbus"
	"github.com/jeremi-ah/bankledger/pkg/domain/events"
)

func committed() events.TransactionCommitted {
	return events.TransactionCommitted{
		EventID:          uuid.New(),
		AccountID:        uuid.New(),
		OwnerID:          uuid.New(),
		Kind:             "deposit",
		Amount:           500,
		Currency:         "USD",
		ResultingBalance: 1500,
		Sequence:         2,
		CommittedAt:      time.Now().UTC(),
	}
}

func TestEmit_DispatchesToRegisteredHandlers(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())

	var got []events.Event
	bus.Register("TransactionCommitted", func(ctx context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})

	evt := committed()
	require.NoError(t, bus.Emit(context.Background(), evt))
	require.Len(t, got, 1)
	assert.Equal(t, evt, got[0])
}

func TestEmit_NoHandlers(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())
	assert.NoError(t, bus.Emit(context.Background(), committed()))
}

func TestEmit_HandlerErrorDoesNotPropagate(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())
	bus.Register("TransactionCommitted", func(ctx context.Context, e events.Event) error {
		return errors.New("listener exploded")
	})

	var secondCalled bool
	bus.Register("TransactionCommitted", func(ctx context.Context, e events.Event) error {
		secondCalled = true
		return nil
	})

	assert.NoError(t, bus.Emit(context.Background(), committed()))
	assert.True(t, secondCalled, "later handlers still run after a failure")
}
