package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_RunsHandlersInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var calls []string
	for _, name := range []string{"first", "second", "third"} {
		bus.Subscribe(OverrideCustomDeleted, func(e Event) error {
			calls = append(calls, name)
			return nil
		})
	}

	err := bus.Publish(NewEvent(context.Background(), OverrideCustomDeleted, CustomEventDeleted{ID: "1"}))

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestSubscribeTyped(t *testing.T) {
	bus := NewEventBus()
	var received []EventToggled
	SubscribeTyped(bus, OverrideToggled, func(e EventT[EventToggled]) error {
		received = append(received, e.Data)
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), OverrideToggled, EventToggled{ID: "tm-1", Disabled: true})))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), OverrideToggled, "wrong payload")))

	assert.Equal(t, []EventToggled{{ID: "tm-1", Disabled: true}}, received)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	unsubscribe := bus.Subscribe(OverrideCustomAdded, func(e Event) error {
		calls++
		return nil
	})

	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), OverrideCustomAdded, CustomEventAdded{})))

	assert.Equal(t, 0, calls)
}

func TestPublish_CollectsErrorsAndPanics(t *testing.T) {
	bus := NewEventBus()
	boom := errors.New("boom")
	reached := false
	bus.Subscribe(OverrideCustomAdded, func(e Event) error { return boom })
	bus.Subscribe(OverrideCustomAdded, func(e Event) error { panic("kaboom") })
	bus.Subscribe(OverrideCustomAdded, func(e Event) error {
		reached = true
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), OverrideCustomAdded, CustomEventAdded{}))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "kaboom")
	assert.True(t, reached)
}

func TestPublish_CancelledContext(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	bus.Subscribe(OverrideCustomAdded, func(e Event) error {
		calls++
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(NewEvent(ctx, OverrideCustomAdded, CustomEventAdded{}))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}
