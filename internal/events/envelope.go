package events

import (
	"encoding/json"
	"fmt"
)

// Envelope is the bus wire format. The payload is the client-ready frame
// for the wrapped event; gateways forward it verbatim after resolving
// recipients, so fanout never re-encodes.
type Envelope struct {
	Kind Kind `json:"kind"`

	// ExcludeUser suppresses delivery to every session of the named user.
	// Set by write paths so an action's initiator only sees the result
	// through the synchronous HTTP response, never as a bus echo.
	ExcludeUser string `json:"excludeUser,omitempty"`

	// ExcludeSession suppresses delivery to one session only. Used for
	// presence and typing, where the user's other sessions still want
	// the event.
	ExcludeSession string `json:"excludeSession,omitempty"`

	Payload json.RawMessage `json:"payload"`
}

// Wrap seals a domain event into a bus envelope.
func Wrap(ev Event) (*Envelope, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", ev.EventKind(), err)
	}
	return &Envelope{Kind: ev.EventKind(), Payload: payload}, nil
}

func (e *Envelope) WithExcludeUser(userID string) *Envelope {
	e.ExcludeUser = userID
	return e
}

func (e *Envelope) WithExcludeSession(sessionID string) *Envelope {
	e.ExcludeSession = sessionID
	return e
}

// Decode reconstructs the concrete event. The union is closed: an
// envelope tagged with an unknown kind is an error, not a passthrough.
func (e *Envelope) Decode() (Event, error) {
	var ev Event

	switch e.Kind {
	case KindMessage:
		ev = &Message{}
	case KindMessageUpdate:
		ev = &MessageUpdate{}
	case KindMessageDelete:
		ev = &MessageDelete{}
	case KindChannelCreate:
		ev = &ChannelCreate{}
	case KindChannelUpdate:
		ev = &ChannelUpdate{}
	case KindChannelDelete:
		ev = &ChannelDelete{}
	case KindServerUpdate:
		ev = &ServerUpdate{}
	case KindServerDelete:
		ev = &ServerDelete{}
	case KindServerMemberJoin:
		ev = &ServerMemberJoin{}
	case KindServerMemberLeave:
		ev = &ServerMemberLeave{}
	case KindUserUpdate:
		ev = &UserUpdate{}
	case KindUserRelationship:
		ev = &UserRelationship{}
	case KindUserPresence:
		ev = &UserPresence{}
	case KindTyping:
		ev = &Typing{}
	case KindStopTyping:
		ev = &StopTyping{}
	default:
		return nil, fmt.Errorf("unknown event kind %q", e.Kind)
	}

	if err := json.Unmarshal(e.Payload, ev); err != nil {
		return nil, fmt.Errorf("decode %s event: %w", e.Kind, err)
	}
	return ev, nil
}
