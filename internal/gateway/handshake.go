package gateway

import (
	"context"

	"github.com/barachat/gateway/internal/domain"
	"github.com/barachat/gateway/internal/events"
	"github.com/barachat/gateway/internal/infrastructure/logging"
	"github.com/google/uuid"
)

// handleFrame processes one inbound frame. Returning false closes the
// connection; malformed or out-of-state frames are dropped, not fatal.
func (g *Gateway) handleFrame(c *Client, raw []byte) bool {
	in, err := events.ParseInbound(raw)
	if err != nil {
		g.logger.Warn(logging.WebSocket, logging.Handshake, "dropping unparseable frame", map[logging.ExtraKey]any{
			logging.SessionId:    c.SessionID,
			logging.ErrorMessage: err.Error(),
		})
		return true
	}

	switch in.Type {
	case events.InboundAuthenticate:
		if c.state != stateConnecting {
			return true
		}
		return g.authenticate(c, in.Token)

	case events.InboundPing:
		if c.state != stateReady {
			return true
		}
		c.sendJSON(events.NewPong())
		g.refreshPresence(c)

	case events.InboundBeginTyping, events.InboundTyping:
		if c.state == stateReady {
			g.relayTyping(c, in.Channel, true)
		}

	case events.InboundEndTyping, events.InboundStopTyping:
		if c.state == stateReady {
			g.relayTyping(c, in.Channel, false)
		}
	}

	return true
}

// authenticate runs the single permitted Connecting -> Ready transition.
// On failure the client gets one opaque error frame and the transport is
// closed; there is no retry within a connection.
func (g *Gateway) authenticate(c *Client, token string) bool {
	userID, err := g.verifier.Verify(token)
	if err != nil {
		g.metrics.AuthFailures.Inc()
		c.sendJSON(events.NewAuthError())
		return false
	}

	c.UserID = userID
	c.SessionID = uuid.NewString()
	c.state = stateReady
	g.register(c)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	// Directory writes are best effort: a directory outage must not keep
	// anyone from connecting. Stale state heals through the TTL.
	if err := g.dir.AddSession(ctx, userID, c.SessionID); err != nil {
		g.logger.Warn(logging.Redis, logging.Presence, "failed to record session", map[logging.ExtraKey]any{
			logging.UserId:       userID,
			logging.SessionId:    c.SessionID,
			logging.ErrorMessage: err.Error(),
		})
	}
	if err := g.dir.SetPresence(ctx, userID, true, g.cfg.PresenceTTL); err != nil {
		g.logger.Warn(logging.Redis, logging.Presence, "failed to mark user online", map[logging.ExtraKey]any{
			logging.UserId:       userID,
			logging.ErrorMessage: err.Error(),
		})
	}

	c.sendJSON(events.NewAuthenticated())
	c.sendJSON(g.bootstrap(ctx, userID))

	g.publishPresence(ctx, userID, true, c.SessionID)

	g.logger.Info(logging.WebSocket, logging.Handshake, "session ready", map[logging.ExtraKey]any{
		logging.UserId:    userID,
		logging.SessionId: c.SessionID,
	})
	return true
}

// bootstrap assembles the Ready snapshot. Store hiccups degrade the
// snapshot instead of failing the handshake; the client can refetch over
// HTTP once connected.
func (g *Gateway) bootstrap(ctx context.Context, userID string) *events.Ready {
	users := []domain.User{}
	servers := []domain.Server{}
	channels := []domain.Channel{}
	members := []domain.Member{}

	if user, err := g.store.Users.GetByID(ctx, userID); err != nil {
		g.logBootstrapError(userID, "user", err)
	} else {
		users = append(users, *user)
	}

	memberships, err := g.store.Members.GetByUser(ctx, userID)
	if err != nil {
		g.logBootstrapError(userID, "memberships", err)
	} else {
		members = memberships
	}

	serverIDs := make([]string, 0, len(members))
	for _, m := range members {
		serverIDs = append(serverIDs, m.ID.Server)
	}

	if len(serverIDs) > 0 {
		if result, err := g.store.Servers.GetByIDs(ctx, serverIDs); err != nil {
			g.logBootstrapError(userID, "servers", err)
		} else {
			servers = result
		}
	}

	if result, err := g.store.Channels.GetVisible(ctx, userID, serverIDs); err != nil {
		g.logBootstrapError(userID, "channels", err)
	} else {
		channels = result
	}

	return events.NewReady(users, servers, channels, members)
}

func (g *Gateway) logBootstrapError(userID, what string, err error) {
	g.logger.Error(logging.Mongo, logging.Handshake, "bootstrap query failed: "+what, map[logging.ExtraKey]any{
		logging.UserId:       userID,
		logging.ErrorMessage: err.Error(),
	})
}

// refreshPresence renews the TTL on each application-level ping so a
// quiet but connected user stays online.
func (g *Gateway) refreshPresence(c *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := g.dir.SetPresence(ctx, c.UserID, true, g.cfg.PresenceTTL); err != nil {
		g.logger.Warn(logging.Redis, logging.Presence, "failed to refresh presence", map[logging.ExtraKey]any{
			logging.UserId:       c.UserID,
			logging.ErrorMessage: err.Error(),
		})
	}
}

// relayTyping forwards a typing signal to the channel's audience. The
// server keeps no typing state: receivers expire the indicator
// themselves after five seconds without a renewal.
func (g *Gateway) relayTyping(c *Client, channelID string, begin bool) {
	if channelID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	user, err := g.store.Users.GetByID(ctx, c.UserID)
	if err != nil {
		g.logger.Warn(logging.WebSocket, logging.Typing, "dropping typing signal, user lookup failed", map[logging.ExtraKey]any{
			logging.UserId:       c.UserID,
			logging.ChannelId:    channelID,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	var ev events.Event
	if begin {
		ev, err = events.NewTyping(channelID, user.Name())
	} else {
		ev, err = events.NewStopTyping(channelID, user.Name())
	}
	if err != nil {
		return
	}

	env, err := events.Wrap(ev)
	if err != nil {
		return
	}
	env.WithExcludeSession(c.SessionID)

	_ = g.PublishEvent(ctx, env)
}
