package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/barachat/gateway/internal/auth"
	"github.com/barachat/gateway/internal/directory"
	"github.com/barachat/gateway/internal/domain"
	"github.com/barachat/gateway/internal/events"
	"github.com/barachat/gateway/internal/infrastructure/configs"
	"github.com/barachat/gateway/internal/infrastructure/logging"
	"github.com/barachat/gateway/internal/infrastructure/messaging"
	"github.com/barachat/gateway/internal/infrastructure/metrics"
	"github.com/barachat/gateway/internal/resolver"
	"github.com/gorilla/websocket"
)

const opTimeout = 5 * time.Second

// Gateway owns this process's socket table and nothing else. Cross-process
// knowledge flows exclusively through the bus and the directory, which is
// what lets gateway instances scale horizontally.
type Gateway struct {
	cfg      configs.GatewayConfig
	store    domain.Store
	dir      directory.Directory
	bus      messaging.Bus
	resolver *resolver.Resolver
	verifier *auth.Verifier
	logger   logging.Logger
	metrics  *metrics.Metrics

	mu      sync.RWMutex
	clients map[string]*Client // ready connections, keyed by session ID
}

func New(
	cfg configs.GatewayConfig,
	store domain.Store,
	dir directory.Directory,
	bus messaging.Bus,
	verifier *auth.Verifier,
	logger logging.Logger,
	m *metrics.Metrics,
) *Gateway {
	if cfg.PresenceTTL <= 0 {
		cfg.PresenceTTL = 300 * time.Second
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}

	return &Gateway{
		cfg:      cfg,
		store:    store,
		dir:      dir,
		bus:      bus,
		resolver: resolver.New(store),
		verifier: verifier,
		logger:   logger,
		metrics:  m,
		clients:  make(map[string]*Client),
	}
}

// Start subscribes this instance to the bus. Events published before
// this point are never seen; reconnecting clients re-sync via Ready.
func (g *Gateway) Start() error {
	return g.bus.Subscribe(g.handleEnvelope)
}

// OnConnect registers a fresh, unauthenticated connection and blocks
// until it closes. The caller's goroutine becomes the read pump, so one
// connection's frames are always handled in arrival order.
func (g *Gateway) OnConnect(conn *websocket.Conn) {
	g.metrics.OpenConnections.Inc()

	client := newClient(conn, g, g.cfg.SendBuffer)
	go client.writePump()
	client.readPump()
}

// PublishEvent submits a domain event for fanout across all gateway
// instances, this one included. Write paths call this after persisting.
func (g *Gateway) PublishEvent(ctx context.Context, env *events.Envelope) error {
	if err := g.bus.Publish(ctx, env); err != nil {
		g.logger.Error(logging.RabbitMQ, logging.Fanout, "failed to publish event", map[logging.ExtraKey]any{
			logging.EventKind:    string(env.Kind),
			logging.ErrorMessage: err.Error(),
		})
		return err
	}

	g.metrics.EventsPublished.WithLabelValues(string(env.Kind)).Inc()
	return nil
}

func (g *Gateway) register(c *Client) {
	g.mu.Lock()
	g.clients[c.SessionID] = c
	g.mu.Unlock()

	g.metrics.ReadySessions.Inc()
}

func (g *Gateway) unregister(c *Client) bool {
	g.mu.Lock()
	_, ok := g.clients[c.SessionID]
	if ok {
		delete(g.clients, c.SessionID)
	}
	g.mu.Unlock()

	if ok {
		g.metrics.ReadySessions.Dec()
	}
	return ok
}

// localClients snapshots the socket table so fanout never holds the lock
// while writing.
func (g *Gateway) localClients() []*Client {
	g.mu.RLock()
	defer g.mu.RUnlock()

	clients := make([]*Client, 0, len(g.clients))
	for _, c := range g.clients {
		clients = append(clients, c)
	}
	return clients
}

// handleEnvelope is the bus subscription callback: resolve the audience
// once, then write to every matching local socket.
func (g *Gateway) handleEnvelope(ctx context.Context, env *events.Envelope) {
	g.metrics.EventsConsumed.WithLabelValues(string(env.Kind)).Inc()

	ev, err := env.Decode()
	if err != nil {
		g.logger.Warn(logging.WebSocket, logging.Fanout, "dropping undecodable event", map[logging.ExtraKey]any{
			logging.EventKind:    string(env.Kind),
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	recipients, err := g.resolver.Resolve(ctx, ev)
	if err != nil {
		g.logger.Warn(logging.WebSocket, logging.Fanout, "recipient resolution failed, dropping event", map[logging.ExtraKey]any{
			logging.EventKind:    string(env.Kind),
			logging.ErrorMessage: err.Error(),
		})
		return
	}
	if recipients.IsEmpty() {
		return
	}

	for _, c := range g.localClients() {
		if !recipients.Contains(c.UserID) {
			continue
		}
		if env.ExcludeUser != "" && c.UserID == env.ExcludeUser {
			continue
		}
		if env.ExcludeSession != "" && c.SessionID == env.ExcludeSession {
			continue
		}

		if c.trySend(env.Payload) {
			g.metrics.FramesDelivered.WithLabelValues(string(env.Kind)).Inc()
		} else {
			g.metrics.FramesDropped.Inc()
			g.logger.Warn(logging.WebSocket, logging.Fanout, "send buffer full, dropping frame", map[logging.ExtraKey]any{
				logging.EventKind: string(env.Kind),
				logging.UserId:    c.UserID,
				logging.SessionId: c.SessionID,
			})
		}
	}
}

// onDisconnect runs exactly once per connection, ready or not.
func (g *Gateway) onDisconnect(c *Client) {
	g.metrics.OpenConnections.Dec()

	if c.SessionID == "" {
		return
	}
	if !g.unregister(c) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := g.dir.RemoveSession(ctx, c.UserID, c.SessionID); err != nil {
		g.logger.Warn(logging.Redis, logging.Presence, "failed to remove session", map[logging.ExtraKey]any{
			logging.UserId:       c.UserID,
			logging.SessionId:    c.SessionID,
			logging.ErrorMessage: err.Error(),
		})
	}

	sessions, err := g.dir.ListSessions(ctx, c.UserID)
	if err != nil {
		// Can't tell whether other sessions exist; leave presence to its
		// TTL rather than flapping the user offline.
		g.logger.Warn(logging.Redis, logging.Presence, "failed to list sessions", map[logging.ExtraKey]any{
			logging.UserId:       c.UserID,
			logging.ErrorMessage: err.Error(),
		})
		return
	}
	if len(sessions) > 0 {
		return
	}

	if err := g.dir.SetPresence(ctx, c.UserID, false, g.cfg.PresenceTTL); err != nil {
		g.logger.Warn(logging.Redis, logging.Presence, "failed to mark user offline", map[logging.ExtraKey]any{
			logging.UserId:       c.UserID,
			logging.ErrorMessage: err.Error(),
		})
	}

	g.publishPresence(ctx, c.UserID, false, "")
}

func (g *Gateway) publishPresence(ctx context.Context, userID string, online bool, excludeSession string) {
	ev, err := events.NewUserPresence(userID, online)
	if err != nil {
		return
	}

	env, err := events.Wrap(ev)
	if err != nil {
		return
	}
	if excludeSession != "" {
		env.WithExcludeSession(excludeSession)
	}

	_ = g.PublishEvent(ctx, env)
}

func (g *Gateway) logClientError(c *Client, err error) {
	g.logger.Warn(logging.WebSocket, logging.Handshake, "websocket read error", map[logging.ExtraKey]any{
		logging.UserId:       c.UserID,
		logging.SessionId:    c.SessionID,
		logging.ErrorMessage: err.Error(),
	})
}
