package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/barachat/gateway/internal/auth"
	"github.com/barachat/gateway/internal/directory"
	"github.com/barachat/gateway/internal/domain"
	"github.com/barachat/gateway/internal/domain/domaintest"
	"github.com/barachat/gateway/internal/events"
	"github.com/barachat/gateway/internal/infrastructure/configs"
	"github.com/barachat/gateway/internal/infrastructure/logging"
	"github.com/barachat/gateway/internal/infrastructure/messaging"
	"github.com/barachat/gateway/internal/infrastructure/metrics"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "gateway-test-secret"

type testEnv struct {
	gw    *Gateway
	srv   *httptest.Server
	dir   *directory.RedisDirectory
	store *domaintest.Store
}

// newTestEnv boots a full gateway against miniredis, an in-memory bus and
// an in-memory store, and serves it over a real websocket endpoint.
//
// Seeded world: alice and bob share server-1 (with text channel
// channel-text); alice and carol share the direct channel channel-dm.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	dir, err := directory.NewRedisDirectory(configs.RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = dir.Close() })

	store := domaintest.NewStore()
	store.AddUser(domain.User{ID: "alice", Username: "alice"})
	store.AddUser(domain.User{ID: "bob", Username: "bob"})
	store.AddUser(domain.User{ID: "carol", Username: "carol"})
	store.AddServer(domain.Server{ID: "server-1", Name: "general", Owner: "alice"})
	store.AddMember("server-1", "alice")
	store.AddMember("server-1", "bob")
	store.AddChannel(domain.Channel{
		ID:          "channel-text",
		ChannelType: domain.ChannelTypeText,
		ServerID:    "server-1",
	})
	store.AddChannel(domain.Channel{
		ID:          "channel-dm",
		ChannelType: domain.ChannelTypeDirectMessage,
		Recipients:  []string{"alice", "carol"},
	})

	gw := New(
		configs.GatewayConfig{PresenceTTL: time.Minute, SendBuffer: 16},
		store.Queries(),
		dir,
		messaging.NewMemoryBus(),
		auth.NewVerifier(testSecret),
		logging.NewNopLogger(),
		metrics.New(prometheus.NewRegistry()),
	)
	require.NoError(t, gw.Start())

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		gw.OnConnect(conn)
	}))
	t.Cleanup(srv.Close)

	return &testEnv{gw: gw, srv: srv, dir: dir, store: store}
}

func (e *testEnv) dial(t *testing.T) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(e.srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func mintToken(t *testing.T, userID string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// readFrameOfType reads until a frame of the wanted type arrives,
// skipping unrelated frames such as presence updates from other tests'
// fixtures connecting.
func readFrameOfType(t *testing.T, conn *websocket.Conn, want string) map[string]any {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s frame", want)

		var frame map[string]any
		require.NoError(t, json.Unmarshal(raw, &frame))
		if frame["type"] == want {
			return frame
		}
	}
}

// assertNoFrameOfType drains the connection until the deadline passes,
// failing if a frame of the forbidden type shows up. The read deadline
// poisons the connection, so this is always a test's final read.
func assertNoFrameOfType(t *testing.T, conn *websocket.Conn, forbidden string, within time.Duration) {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(within))
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame map[string]any
		if json.Unmarshal(raw, &frame) == nil {
			require.NotEqual(t, forbidden, frame["type"])
		}
	}
}

// connectReady runs the handshake and returns the Ready frame.
func connectReady(t *testing.T, conn *websocket.Conn, userID string) map[string]any {
	t.Helper()

	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":  "Authenticate",
		"token": mintToken(t, userID),
	}))
	readFrameOfType(t, conn, "Authenticated")
	return readFrameOfType(t, conn, "Ready")
}

func TestHandshakeAndBootstrap(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t)

	ready := connectReady(t, conn, "alice")

	users, ok := ready["users"].([]any)
	require.True(t, ok)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].(map[string]any)["_id"])

	servers, ok := ready["servers"].([]any)
	require.True(t, ok)
	require.Len(t, servers, 1)
	assert.Equal(t, "server-1", servers[0].(map[string]any)["_id"])

	channels, ok := ready["channels"].([]any)
	require.True(t, ok)
	assert.Len(t, channels, 2)

	members, ok := ready["members"].([]any)
	require.True(t, ok)
	assert.Len(t, members, 1)

	online, err := env.dir.GetPresence(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, online)

	sessions, err := env.dir.ListSessions(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestHandshakeRejectsBadToken(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t)

	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":  "Authenticate",
		"token": "garbage",
	}))

	frame := readFrameOfType(t, conn, "Error")
	assert.Equal(t, "invalid token", frame["error"])

	// One failure ends the connection; there is no in-connection retry.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	online, err := env.dir.GetPresence(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, online)
}

func TestFramesBeforeAuthenticationAreIgnored(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "Ping"}))
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "BeginTyping", "channel": "channel-text"}))

	// The connection survives and can still authenticate.
	connectReady(t, conn, "alice")
}

func TestPing(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t)
	connectReady(t, conn, "alice")

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "Ping"}))
	readFrameOfType(t, conn, "Pong")

	online, err := env.dir.GetPresence(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, online)
}

func TestFanoutReachesServerMembersOnly(t *testing.T) {
	env := newTestEnv(t)

	bob := env.dial(t)
	connectReady(t, bob, "bob")
	carol := env.dial(t)
	connectReady(t, carol, "carol")

	ev, err := events.NewMessage("channel-text", json.RawMessage(`{"content":"hello"}`))
	require.NoError(t, err)
	env.publish(t, ev, "", "")

	frame := readFrameOfType(t, bob, "Message")
	assert.Equal(t, "channel-text", frame["channel"])

	assertNoFrameOfType(t, carol, "Message", 300*time.Millisecond)
}

func TestFanoutReachesDirectRecipients(t *testing.T) {
	env := newTestEnv(t)

	carol := env.dial(t)
	connectReady(t, carol, "carol")

	ev, err := events.NewMessage("channel-dm", json.RawMessage(`{"content":"psst"}`))
	require.NoError(t, err)
	env.publish(t, ev, "", "")

	frame := readFrameOfType(t, carol, "Message")
	assert.Equal(t, "channel-dm", frame["channel"])
}

func TestFanoutHonorsExcludeUser(t *testing.T) {
	env := newTestEnv(t)

	alice := env.dial(t)
	connectReady(t, alice, "alice")
	bob := env.dial(t)
	connectReady(t, bob, "bob")

	ev, err := events.NewMessage("channel-text", json.RawMessage(`{"content":"from bob"}`))
	require.NoError(t, err)
	env.publish(t, ev, "bob", "")

	readFrameOfType(t, alice, "Message")
	assertNoFrameOfType(t, bob, "Message", 300*time.Millisecond)
}

func TestTypingRelay(t *testing.T) {
	env := newTestEnv(t)

	alice := env.dial(t)
	connectReady(t, alice, "alice")
	bob := env.dial(t)
	connectReady(t, bob, "bob")

	require.NoError(t, alice.WriteJSON(map[string]string{"type": "BeginTyping", "channel": "channel-text"}))

	frame := readFrameOfType(t, bob, "Typing")
	assert.Equal(t, "channel-text", frame["channel"])
	assert.Equal(t, "alice", frame["username"])

	require.NoError(t, alice.WriteJSON(map[string]string{"type": "EndTyping", "channel": "channel-text"}))
	readFrameOfType(t, bob, "StopTyping")

	// The sender's own session never sees its typing echo.
	assertNoFrameOfType(t, alice, "Typing", 300*time.Millisecond)
}

func TestPresenceOfflineAfterLastDisconnect(t *testing.T) {
	env := newTestEnv(t)

	alice := env.dial(t)
	connectReady(t, alice, "alice")
	bob := env.dial(t)
	connectReady(t, bob, "bob")

	require.NoError(t, alice.Close())

	frame := readFrameOfType(t, bob, "UserPresence")
	assert.Equal(t, "alice", frame["id"])
	assert.Equal(t, false, frame["online"])

	require.Eventually(t, func() bool {
		online, err := env.dir.GetPresence(context.Background(), "alice")
		return err == nil && !online
	}, 2*time.Second, 50*time.Millisecond)

	sessions, err := env.dir.ListSessions(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

// Closing one of two sessions must not flap the user offline.
func TestPresenceSurvivesPartialDisconnect(t *testing.T) {
	env := newTestEnv(t)

	first := env.dial(t)
	connectReady(t, first, "alice")
	second := env.dial(t)
	connectReady(t, second, "alice")

	bob := env.dial(t)
	connectReady(t, bob, "bob")

	require.NoError(t, first.Close())

	assertNoFrameOfType(t, bob, "UserPresence", 400*time.Millisecond)

	online, err := env.dir.GetPresence(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, online)
}

func (e *testEnv) publish(t *testing.T, ev events.Event, excludeUser, excludeSession string) {
	t.Helper()

	env, err := events.Wrap(ev)
	require.NoError(t, err)
	if excludeUser != "" {
		env.WithExcludeUser(excludeUser)
	}
	if excludeSession != "" {
		env.WithExcludeSession(excludeSession)
	}
	require.NoError(t, e.gw.PublishEvent(context.Background(), env))
}
