package events

import (
	"encoding/json"
	"fmt"

	"github.com/barachat/gateway/internal/domain"
)

// Inbound frame types accepted from clients. BeginTyping/Typing and
// EndTyping/StopTyping are aliases kept for older clients.
const (
	InboundAuthenticate = "Authenticate"
	InboundPing         = "Ping"
	InboundBeginTyping  = "BeginTyping"
	InboundTyping       = "Typing"
	InboundEndTyping    = "EndTyping"
	InboundStopTyping   = "StopTyping"
)

// Inbound is a parsed client frame. Token and Channel are only populated
// for the frame types that carry them.
type Inbound struct {
	Type    string `json:"type"`
	Token   string `json:"token,omitempty"`
	Channel string `json:"channel,omitempty"`
}

// ParseInbound decodes a raw client frame. Frames with an unknown type
// are rejected; the caller drops them without closing the connection.
func ParseInbound(raw []byte) (*Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch in.Type {
	case InboundAuthenticate, InboundPing,
		InboundBeginTyping, InboundTyping,
		InboundEndTyping, InboundStopTyping:
		return &in, nil
	}
	return nil, fmt.Errorf("unknown frame type %q", in.Type)
}

// Frames below are connection-local: they are written straight to one
// socket and never travel the bus.

type Authenticated struct {
	Type Kind `json:"type"`
}

func NewAuthenticated() *Authenticated {
	return &Authenticated{Type: KindAuthenticated}
}

// Ready is the bootstrap snapshot sent right after authentication. It
// carries everything the client needs to draw its initial state.
type Ready struct {
	Type     Kind             `json:"type"`
	Users    []domain.User    `json:"users"`
	Servers  []domain.Server  `json:"servers"`
	Channels []domain.Channel `json:"channels"`
	Members  []domain.Member  `json:"members"`
}

func NewReady(users []domain.User, servers []domain.Server, channels []domain.Channel, members []domain.Member) *Ready {
	return &Ready{
		Type:     KindReady,
		Users:    users,
		Servers:  servers,
		Channels: channels,
		Members:  members,
	}
}

type Pong struct {
	Type Kind `json:"type"`
}

func NewPong() *Pong {
	return &Pong{Type: KindPong}
}

type ErrorFrame struct {
	Type  Kind   `json:"type"`
	Error string `json:"error"`
}

// NewAuthError deliberately returns the same opaque message for every
// validation failure so clients learn nothing about token internals.
func NewAuthError() *ErrorFrame {
	return &ErrorFrame{Type: KindError, Error: "invalid token"}
}
