package messaging

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/barachat/gateway/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBusFanout(t *testing.T) {
	bus := NewMemoryBus()

	var first, second []*events.Envelope
	require.NoError(t, bus.Subscribe(func(_ context.Context, env *events.Envelope) {
		first = append(first, env)
	}))
	require.NoError(t, bus.Subscribe(func(_ context.Context, env *events.Envelope) {
		second = append(second, env)
	}))

	env := &events.Envelope{Kind: events.KindMessage, Payload: json.RawMessage(`{}`)}
	require.NoError(t, bus.Publish(context.Background(), env))

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
	assert.Equal(t, events.KindMessage, first[0].Kind)
}

func TestMemoryBusClosedDropsSilently(t *testing.T) {
	bus := NewMemoryBus()

	var got int
	require.NoError(t, bus.Subscribe(func(_ context.Context, _ *events.Envelope) {
		got++
	}))
	require.NoError(t, bus.Close())

	env := &events.Envelope{Kind: events.KindMessage, Payload: json.RawMessage(`{}`)}
	require.NoError(t, bus.Publish(context.Background(), env))

	assert.Zero(t, got)
}
