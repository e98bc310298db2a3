package events

import (
	"encoding/json"
	"errors"

	"github.com/barachat/gateway/internal/domain"
)

var ErrMissingField = errors.New("event is missing a required field")

// Event is a domain event that travels across the bus. Every variant
// carries the addressing data needed to resolve its recipients, so the
// resolver only hits the store when the scope demands it.
type Event interface {
	EventKind() Kind
	Scope() Scope
}

// Message announces a newly persisted message. The full message document
// is carried opaquely; the gateway never inspects its contents.
type Message struct {
	Type    Kind            `json:"type"`
	Channel string          `json:"channel"`
	Message json.RawMessage `json:"message"`
}

func NewMessage(channelID string, doc json.RawMessage) (*Message, error) {
	if channelID == "" || len(doc) == 0 {
		return nil, ErrMissingField
	}
	return &Message{Type: KindMessage, Channel: channelID, Message: doc}, nil
}

func (e *Message) EventKind() Kind { return KindMessage }
func (e *Message) Scope() Scope    { return ChannelScope(e.Channel) }

type MessageUpdate struct {
	Type    Kind            `json:"type"`
	ID      string          `json:"id"`
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

func NewMessageUpdate(id, channelID string, data json.RawMessage) (*MessageUpdate, error) {
	if id == "" || channelID == "" {
		return nil, ErrMissingField
	}
	return &MessageUpdate{Type: KindMessageUpdate, ID: id, Channel: channelID, Data: data}, nil
}

func (e *MessageUpdate) EventKind() Kind { return KindMessageUpdate }
func (e *MessageUpdate) Scope() Scope    { return ChannelScope(e.Channel) }

type MessageDelete struct {
	Type    Kind   `json:"type"`
	ID      string `json:"id"`
	Channel string `json:"channel"`
}

func NewMessageDelete(id, channelID string) (*MessageDelete, error) {
	if id == "" || channelID == "" {
		return nil, ErrMissingField
	}
	return &MessageDelete{Type: KindMessageDelete, ID: id, Channel: channelID}, nil
}

func (e *MessageDelete) EventKind() Kind { return KindMessageDelete }
func (e *MessageDelete) Scope() Scope    { return ChannelScope(e.Channel) }

// ChannelCreate carries the full channel document so receiving clients
// need no follow-up fetch.
type ChannelCreate struct {
	Type    Kind           `json:"type"`
	Channel domain.Channel `json:"channel"`
}

func NewChannelCreate(channel domain.Channel) (*ChannelCreate, error) {
	if channel.ID == "" {
		return nil, ErrMissingField
	}
	return &ChannelCreate{Type: KindChannelCreate, Channel: channel}, nil
}

func (e *ChannelCreate) EventKind() Kind { return KindChannelCreate }

func (e *ChannelCreate) Scope() Scope {
	if e.Channel.ServerID != "" {
		return ServerScope(e.Channel.ServerID)
	}
	return ChannelScope(e.Channel.ID)
}

type ChannelUpdate struct {
	Type  Kind            `json:"type"`
	ID    string          `json:"id"`
	Data  json.RawMessage `json:"data"`
	Clear []string        `json:"clear,omitempty"`
}

func NewChannelUpdate(id string, data json.RawMessage, clear []string) (*ChannelUpdate, error) {
	if id == "" {
		return nil, ErrMissingField
	}
	return &ChannelUpdate{Type: KindChannelUpdate, ID: id, Data: data, Clear: clear}, nil
}

func (e *ChannelUpdate) EventKind() Kind { return KindChannelUpdate }
func (e *ChannelUpdate) Scope() Scope    { return ChannelScope(e.ID) }

// ChannelDelete carries the owning server ID because the channel document
// is already gone by the time the event is resolved.
type ChannelDelete struct {
	Type   Kind   `json:"type"`
	ID     string `json:"id"`
	Server string `json:"server,omitempty"`
}

func NewChannelDelete(id, serverID string) (*ChannelDelete, error) {
	if id == "" {
		return nil, ErrMissingField
	}
	return &ChannelDelete{Type: KindChannelDelete, ID: id, Server: serverID}, nil
}

func (e *ChannelDelete) EventKind() Kind { return KindChannelDelete }

func (e *ChannelDelete) Scope() Scope {
	if e.Server != "" {
		return ServerScope(e.Server)
	}
	return ChannelScope(e.ID)
}

type ServerUpdate struct {
	Type  Kind            `json:"type"`
	ID    string          `json:"id"`
	Data  json.RawMessage `json:"data"`
	Clear []string        `json:"clear,omitempty"`
}

func NewServerUpdate(id string, data json.RawMessage, clear []string) (*ServerUpdate, error) {
	if id == "" {
		return nil, ErrMissingField
	}
	return &ServerUpdate{Type: KindServerUpdate, ID: id, Data: data, Clear: clear}, nil
}

func (e *ServerUpdate) EventKind() Kind { return KindServerUpdate }
func (e *ServerUpdate) Scope() Scope    { return ServerScope(e.ID) }

type ServerDelete struct {
	Type Kind   `json:"type"`
	ID   string `json:"id"`
}

func NewServerDelete(id string) (*ServerDelete, error) {
	if id == "" {
		return nil, ErrMissingField
	}
	return &ServerDelete{Type: KindServerDelete, ID: id}, nil
}

func (e *ServerDelete) EventKind() Kind { return KindServerDelete }
func (e *ServerDelete) Scope() Scope    { return ServerScope(e.ID) }

type ServerMemberJoin struct {
	Type   Kind   `json:"type"`
	ID     string `json:"id"`
	User   string `json:"user"`
	Server string `json:"server"`
}

func NewServerMemberJoin(serverID, userID string) (*ServerMemberJoin, error) {
	if serverID == "" || userID == "" {
		return nil, ErrMissingField
	}
	return &ServerMemberJoin{Type: KindServerMemberJoin, ID: serverID, User: userID, Server: serverID}, nil
}

func (e *ServerMemberJoin) EventKind() Kind { return KindServerMemberJoin }
func (e *ServerMemberJoin) Scope() Scope    { return ServerScope(e.Server) }

type ServerMemberLeave struct {
	Type   Kind   `json:"type"`
	ID     string `json:"id"`
	User   string `json:"user"`
	Server string `json:"server"`
}

func NewServerMemberLeave(serverID, userID string) (*ServerMemberLeave, error) {
	if serverID == "" || userID == "" {
		return nil, ErrMissingField
	}
	return &ServerMemberLeave{Type: KindServerMemberLeave, ID: serverID, User: userID, Server: serverID}, nil
}

func (e *ServerMemberLeave) EventKind() Kind { return KindServerMemberLeave }
func (e *ServerMemberLeave) Scope() Scope    { return ServerScope(e.Server) }

type UserUpdate struct {
	Type  Kind            `json:"type"`
	ID    string          `json:"id"`
	Data  json.RawMessage `json:"data"`
	Clear []string        `json:"clear,omitempty"`
}

func NewUserUpdate(id string, data json.RawMessage, clear []string) (*UserUpdate, error) {
	if id == "" {
		return nil, ErrMissingField
	}
	return &UserUpdate{Type: KindUserUpdate, ID: id, Data: data, Clear: clear}, nil
}

func (e *UserUpdate) EventKind() Kind { return KindUserUpdate }
func (e *UserUpdate) Scope() Scope    { return UserScope(e.ID) }

// UserRelationship is delivered to both sides of the relationship change.
type UserRelationship struct {
	Type   Kind   `json:"type"`
	ID     string `json:"id"`
	User   string `json:"user"`
	Status string `json:"status"`
}

func NewUserRelationship(id, userID, status string) (*UserRelationship, error) {
	if id == "" || userID == "" {
		return nil, ErrMissingField
	}
	return &UserRelationship{Type: KindUserRelationship, ID: id, User: userID, Status: status}, nil
}

func (e *UserRelationship) EventKind() Kind { return KindUserRelationship }
func (e *UserRelationship) Scope() Scope    { return UserScope(e.ID, e.User) }

// UserPresence is broadcast to every connected user. Presence is cheap,
// coarse, and already TTL-bounded in the directory; narrowing it to
// shared-server members would cost a membership query per transition.
type UserPresence struct {
	Type   Kind   `json:"type"`
	ID     string `json:"id"`
	Online bool   `json:"online"`
}

func NewUserPresence(userID string, online bool) (*UserPresence, error) {
	if userID == "" {
		return nil, ErrMissingField
	}
	return &UserPresence{Type: KindUserPresence, ID: userID, Online: online}, nil
}

func (e *UserPresence) EventKind() Kind { return KindUserPresence }
func (e *UserPresence) Scope() Scope    { return GlobalScope() }

// Typing and StopTyping are advisory; receivers expire them client-side
// after five seconds without a renewal.
type Typing struct {
	Type     Kind   `json:"type"`
	Channel  string `json:"channel"`
	Username string `json:"username"`
}

func NewTyping(channelID, username string) (*Typing, error) {
	if channelID == "" {
		return nil, ErrMissingField
	}
	return &Typing{Type: KindTyping, Channel: channelID, Username: username}, nil
}

func (e *Typing) EventKind() Kind { return KindTyping }
func (e *Typing) Scope() Scope    { return ChannelScope(e.Channel) }

type StopTyping struct {
	Type     Kind   `json:"type"`
	Channel  string `json:"channel"`
	Username string `json:"username"`
}

func NewStopTyping(channelID, username string) (*StopTyping, error) {
	if channelID == "" {
		return nil, ErrMissingField
	}
	return &StopTyping{Type: KindStopTyping, Channel: channelID, Username: username}, nil
}

func (e *StopTyping) EventKind() Kind { return KindStopTyping }
func (e *StopTyping) Scope() Scope    { return ChannelScope(e.Channel) }
