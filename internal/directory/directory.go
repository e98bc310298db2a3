package directory

import (
	"context"
	"time"
)

// Directory is the cross-process record of live sessions and derived
// presence. It is eventually consistent by design: a crashed gateway
// never cleans up after itself, so every entry is TTL-bounded and only a
// live gateway refreshes it.
type Directory interface {
	AddSession(ctx context.Context, userID, sessionID string) error
	RemoveSession(ctx context.Context, userID, sessionID string) error
	ListSessions(ctx context.Context, userID string) ([]string, error)

	SetPresence(ctx context.Context, userID string, online bool, ttl time.Duration) error
	GetPresence(ctx context.Context, userID string) (bool, error)

	Close() error
}
