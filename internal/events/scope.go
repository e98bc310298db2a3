package events

// ScopeKind names the addressing policy of a domain event.
type ScopeKind string

const (
	ScopeUser    ScopeKind = "user"
	ScopeChannel ScopeKind = "channel"
	ScopeServer  ScopeKind = "server"
	ScopeGlobal  ScopeKind = "global"
)

// Scope is the addressing half of a domain event: it tells the resolver
// which policy to apply and carries the IDs the policy needs.
type Scope struct {
	Kind      ScopeKind
	UserIDs   []string
	ChannelID string
	ServerID  string
}

func UserScope(userIDs ...string) Scope {
	return Scope{Kind: ScopeUser, UserIDs: userIDs}
}

func ChannelScope(channelID string) Scope {
	return Scope{Kind: ScopeChannel, ChannelID: channelID}
}

func ServerScope(serverID string) Scope {
	return Scope{Kind: ScopeServer, ServerID: serverID}
}

func GlobalScope() Scope {
	return Scope{Kind: ScopeGlobal}
}
