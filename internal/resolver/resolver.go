package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/barachat/gateway/internal/domain"
	"github.com/barachat/gateway/internal/events"
)

// Resolver maps a domain event's scope to the set of user IDs that must
// receive it. It is a pure read: resolving the same event twice against
// an unchanged store yields the same set.
//
// Server-channel events resolve to all members of the owning server, not
// just members who can see the channel. The permission model is that
// coarse on purpose; fanout follows it.
type Resolver struct {
	store domain.Store
}

func New(store domain.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve computes the audience of one event. A scope pointing at an
// entity that no longer exists yields the empty set: fanout is
// best-effort, not transactional with the write that produced the event.
func (r *Resolver) Resolve(ctx context.Context, ev events.Event) (RecipientSet, error) {
	scope := ev.Scope()

	switch scope.Kind {
	case events.ScopeUser:
		return FromUsers(scope.UserIDs...), nil

	case events.ScopeChannel:
		return r.resolveChannel(ctx, scope.ChannelID)

	case events.ScopeServer:
		return r.resolveServer(ctx, scope.ServerID)

	case events.ScopeGlobal:
		return Everyone(), nil
	}

	return Empty(), fmt.Errorf("unknown scope kind %q", scope.Kind)
}

func (r *Resolver) resolveChannel(ctx context.Context, channelID string) (RecipientSet, error) {
	channel, err := r.store.Channels.GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Empty(), nil
		}
		return Empty(), fmt.Errorf("resolve channel %s: %w", channelID, err)
	}

	if channel.Direct() {
		return FromUsers(channel.Recipients...), nil
	}

	if channel.ServerID == "" {
		return Empty(), nil
	}
	return r.resolveServer(ctx, channel.ServerID)
}

func (r *Resolver) resolveServer(ctx context.Context, serverID string) (RecipientSet, error) {
	members, err := r.store.Members.GetByServer(ctx, serverID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Empty(), nil
		}
		return Empty(), fmt.Errorf("resolve server %s: %w", serverID, err)
	}

	userIDs := make([]string, 0, len(members))
	for _, member := range members {
		userIDs = append(userIDs, member.ID.User)
	}
	return FromUsers(userIDs...), nil
}
