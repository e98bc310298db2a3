package messaging

import (
	"context"
	"sync"

	"github.com/barachat/gateway/internal/events"
)

// MemoryBus is an in-process Bus for single-node deployments and tests.
// Same at-most-once contract as the broker-backed implementation.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers []Handler
	closed   bool
}

var _ Bus = (*MemoryBus)(nil)

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

func (b *MemoryBus) Publish(ctx context.Context, env *events.Envelope) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	closed := b.closed
	b.mu.RUnlock()

	if closed {
		return nil
	}

	for _, handler := range handlers {
		handler(ctx, env)
	}
	return nil
}

func (b *MemoryBus) Subscribe(handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
	return nil
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = nil
	return nil
}
