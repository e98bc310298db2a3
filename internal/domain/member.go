package domain

import "context"

// MemberID is the compound key used by the member collection: one record
// per (server, user) pair.
type MemberID struct {
	Server string `json:"server" bson:"server"`
	User   string `json:"user" bson:"user"`
}

type Member struct {
	ID       MemberID `json:"_id" bson:"_id"`
	Nickname string   `json:"nickname,omitempty" bson:"nickname,omitempty"`
	Roles    []string `json:"roles,omitempty" bson:"roles,omitempty"`
}

type MemberRepository interface {
	// GetByServer returns every member record of a server.
	GetByServer(ctx context.Context, serverID string) ([]Member, error)
	// GetByUser returns a user's memberships across all servers.
	GetByUser(ctx context.Context, userID string) ([]Member, error)
}
