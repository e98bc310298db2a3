package directory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/barachat/gateway/internal/infrastructure/configs"
	"github.com/barachat/gateway/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory(t *testing.T) (*RedisDirectory, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	dir, err := NewRedisDirectory(configs.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = dir.Close() })

	return dir, mr
}

func TestSessionLifecycle(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	require.NoError(t, dir.AddSession(ctx, "alice", "session-1"))
	require.NoError(t, dir.AddSession(ctx, "alice", "session-2"))

	sessions, err := dir.ListSessions(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"session-1", "session-2"}, sessions)

	require.NoError(t, dir.RemoveSession(ctx, "alice", "session-1"))

	sessions, err = dir.ListSessions(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"session-2"}, sessions)
}

func TestListSessionsUnknownUser(t *testing.T) {
	dir, _ := newTestDirectory(t)

	sessions, err := dir.ListSessions(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

// Adding a session is idempotent: reconnect storms must not inflate the
// session count.
func TestAddSessionIdempotent(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	require.NoError(t, dir.AddSession(ctx, "alice", "session-1"))
	require.NoError(t, dir.AddSession(ctx, "alice", "session-1"))

	sessions, err := dir.ListSessions(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestPresenceLifecycle(t *testing.T) {
	dir, _ := newTestDirectory(t)
	ctx := context.Background()

	online, err := dir.GetPresence(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, online)

	require.NoError(t, dir.SetPresence(ctx, "alice", true, time.Minute))

	online, err = dir.GetPresence(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, online)

	require.NoError(t, dir.SetPresence(ctx, "alice", false, time.Minute))

	online, err = dir.GetPresence(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, online)
}

// A crashed process can't clean up after itself; the keys must die on
// their own.
func TestPresenceExpires(t *testing.T) {
	dir, mr := newTestDirectory(t)
	ctx := context.Background()

	require.NoError(t, dir.SetPresence(ctx, "alice", true, 30*time.Second))

	mr.FastForward(31 * time.Second)

	online, err := dir.GetPresence(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, online)
}

func TestSessionSetExpires(t *testing.T) {
	dir, mr := newTestDirectory(t)
	ctx := context.Background()

	require.NoError(t, dir.AddSession(ctx, "alice", "session-1"))

	mr.FastForward(sessionTTL + time.Second)

	sessions, err := dir.ListSessions(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

// Marking a user online keeps their session set alive, so sessions of an
// active user never expire out from under them.
func TestSetPresenceRefreshesSessionTTL(t *testing.T) {
	dir, mr := newTestDirectory(t)
	ctx := context.Background()

	require.NoError(t, dir.AddSession(ctx, "alice", "session-1"))

	mr.FastForward(sessionTTL - time.Second)
	require.NoError(t, dir.SetPresence(ctx, "alice", true, time.Minute))
	mr.FastForward(sessionTTL - time.Second)

	sessions, err := dir.ListSessions(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}
