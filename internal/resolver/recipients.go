package resolver

// RecipientSet is the audience of one fanout pass: either every connected
// user, or an explicit set of user IDs. Computed per event, never stored.
type RecipientSet struct {
	everyone bool
	users    map[string]struct{}
}

// Empty returns the audience nobody belongs to.
func Empty() RecipientSet {
	return RecipientSet{}
}

// Everyone returns the audience every connected user belongs to.
func Everyone() RecipientSet {
	return RecipientSet{everyone: true}
}

// FromUsers builds an explicit audience. Duplicates collapse; empty IDs
// are skipped.
func FromUsers(userIDs ...string) RecipientSet {
	users := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if id != "" {
			users[id] = struct{}{}
		}
	}
	return RecipientSet{users: users}
}

func (s RecipientSet) Contains(userID string) bool {
	if s.everyone {
		return true
	}
	_, ok := s.users[userID]
	return ok
}

func (s RecipientSet) IsEmpty() bool {
	return !s.everyone && len(s.users) == 0
}

// Len returns the explicit audience size; -1 for the everyone audience.
func (s RecipientSet) Len() int {
	if s.everyone {
		return -1
	}
	return len(s.users)
}
