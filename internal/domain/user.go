package domain

import "context"

type User struct {
	ID          string      `json:"_id" bson:"_id"`
	Username    string      `json:"username" bson:"username"`
	DisplayName string      `json:"displayName,omitempty" bson:"displayName,omitempty"`
	Avatar      string      `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Status      *UserStatus `json:"status,omitempty" bson:"status,omitempty"`
	Online      bool        `json:"online,omitempty" bson:"-"`
}

type UserStatus struct {
	Text     string `json:"text,omitempty" bson:"text,omitempty"`
	Presence string `json:"presence,omitempty" bson:"presence,omitempty"`
}

// Name returns the name shown next to user-originated signals such as
// typing indicators.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}
