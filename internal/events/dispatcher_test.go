package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublishFillsIDAndTimestamp(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())

	var seen Event
	dispatcher.Subscribe(EventPetRegistered, func(_ context.Context, e Event) error {
		seen = e
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{
		Type:  EventPetRegistered,
		PetID: "pet-1",
	}))
	assert.NotEmpty(t, seen.ID)
	assert.False(t, seen.Timestamp.IsZero())
}

func TestPublishLogsHandlerFailureAndKeepsDelivering(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dispatcher := NewInMemoryDispatcher(zap.New(core))

	dispatcher.Subscribe(EventPetMissingToggled, func(context.Context, Event) error {
		return errors.New("smtp unreachable")
	})

	delivered := false
	dispatcher.Subscribe(EventPetMissingToggled, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{
		Type:  EventPetMissingToggled,
		PetID: "pet-2",
	}))

	assert.True(t, delivered, "later handlers still run after a failure")
	entries := logs.FilterMessage("event handler failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, string(EventPetMissingToggled), entries[0].ContextMap()["event_type"])
}
