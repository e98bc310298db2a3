package domain

// Store bundles the read-only queries the gateway issues against the
// externally owned document store. The gateway never writes to it; the
// CRUD API owns all mutations.
type Store struct {
	Users    UserRepository
	Servers  ServerRepository
	Channels ChannelRepository
	Members  MemberRepository
}
