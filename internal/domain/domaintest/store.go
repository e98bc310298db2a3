// Package domaintest provides an in-memory Store used by tests in place
// of the mongo-backed repositories.
package domaintest

import (
	"context"
	"sync"

	"github.com/barachat/gateway/internal/domain"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	servers  map[string]domain.Server
	channels map[string]domain.Channel
	members  map[domain.MemberID]domain.Member
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		servers:  make(map[string]domain.Server),
		channels: make(map[string]domain.Channel),
		members:  make(map[domain.MemberID]domain.Member),
	}
}

// Queries exposes the store through the read interfaces the gateway
// consumes.
func (s *Store) Queries() domain.Store {
	return domain.Store{
		Users:    usersRepo{s},
		Servers:  serversRepo{s},
		Channels: channelsRepo{s},
		Members:  membersRepo{s},
	}
}

func (s *Store) AddUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *Store) AddServer(server domain.Server) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servers[server.ID] = server
}

func (s *Store) AddChannel(channel domain.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[channel.ID] = channel
}

func (s *Store) RemoveChannel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.channels, id)
}

func (s *Store) AddMember(serverID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := domain.MemberID{Server: serverID, User: userID}
	s.members[id] = domain.Member{ID: id}
}

func (s *Store) RemoveMember(serverID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, domain.MemberID{Server: serverID, User: userID})
}

type usersRepo struct{ s *Store }

func (r usersRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

type serversRepo struct{ s *Store }

func (r serversRepo) GetByID(_ context.Context, id string) (*domain.Server, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	server, ok := r.s.servers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &server, nil
}

func (r serversRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Server, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	servers := []domain.Server{}
	for _, id := range ids {
		if server, ok := r.s.servers[id]; ok {
			servers = append(servers, server)
		}
	}
	return servers, nil
}

type channelsRepo struct{ s *Store }

func (r channelsRepo) GetByID(_ context.Context, id string) (*domain.Channel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	channel, ok := r.s.channels[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &channel, nil
}

func (r channelsRepo) GetVisible(_ context.Context, userID string, serverIDs []string) ([]domain.Channel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	inServers := make(map[string]struct{}, len(serverIDs))
	for _, id := range serverIDs {
		inServers[id] = struct{}{}
	}

	channels := []domain.Channel{}
	for _, channel := range r.s.channels {
		if _, ok := inServers[channel.ServerID]; ok && channel.ServerID != "" {
			channels = append(channels, channel)
			continue
		}
		for _, recipient := range channel.Recipients {
			if recipient == userID {
				channels = append(channels, channel)
				break
			}
		}
	}
	return channels, nil
}

type membersRepo struct{ s *Store }

func (r membersRepo) GetByServer(_ context.Context, serverID string) ([]domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	members := []domain.Member{}
	for id, member := range r.s.members {
		if id.Server == serverID {
			members = append(members, member)
		}
	}
	return members, nil
}

func (r membersRepo) GetByUser(_ context.Context, userID string) ([]domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	members := []domain.Member{}
	for id, member := range r.s.members {
		if id.User == userID {
			members = append(members, member)
		}
	}
	return members, nil
}
