package events

// Kind tags every frame crossing the wire, inbound or outbound.
type Kind string

const (
	// Connection lifecycle, never published to the bus.
	KindAuthenticated Kind = "Authenticated"
	KindReady         Kind = "Ready"
	KindPong          Kind = "Pong"
	KindError         Kind = "Error"

	// Message events
	KindMessage       Kind = "Message"
	KindMessageUpdate Kind = "MessageUpdate"
	KindMessageDelete Kind = "MessageDelete"

	// Channel events
	KindChannelCreate Kind = "ChannelCreate"
	KindChannelUpdate Kind = "ChannelUpdate"
	KindChannelDelete Kind = "ChannelDelete"

	// Server events
	KindServerUpdate      Kind = "ServerUpdate"
	KindServerDelete      Kind = "ServerDelete"
	KindServerMemberJoin  Kind = "ServerMemberJoin"
	KindServerMemberLeave Kind = "ServerMemberLeave"

	// User events
	KindUserUpdate       Kind = "UserUpdate"
	KindUserRelationship Kind = "UserRelationship"
	KindUserPresence     Kind = "UserPresence"

	// Ephemeral typing indicators
	KindTyping     Kind = "Typing"
	KindStopTyping Kind = "StopTyping"
)
