package messaging

import (
	"context"

	"github.com/barachat/gateway/internal/events"
)

// Handler consumes one bus envelope. Handlers must not block for long;
// delivery is at-most-once and a slow handler only hurts its own process.
type Handler func(ctx context.Context, env *events.Envelope)

// Bus is the cross-process publish/subscribe channel. No persistence, no
// replay: a subscriber that is down when an event is published never sees
// it. Reconnecting clients re-synchronize from the store via the Ready
// snapshot instead.
type Bus interface {
	Publish(ctx context.Context, env *events.Envelope) error
	Subscribe(handler Handler) error
	Close() error
}
