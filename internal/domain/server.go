package domain

import "context"

type Server struct {
	ID          string   `json:"_id" bson:"_id"`
	Owner       string   `json:"owner" bson:"owner"`
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Channels    []string `json:"channels" bson:"channels"`
	Icon        string   `json:"icon,omitempty" bson:"icon,omitempty"`
}

type ServerRepository interface {
	GetByID(ctx context.Context, id string) (*Server, error)
	GetByIDs(ctx context.Context, ids []string) ([]Server, error)
}
