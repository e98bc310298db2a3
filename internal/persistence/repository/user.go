package repository

import (
	"context"
	"errors"

	"github.com/barachat/gateway/internal/domain"
	"github.com/barachat/gateway/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	db *mongo.Database
}

func NewUserRepository(database *mongo.Database) domain.UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	collection := r.db.Collection(db.UsersCollection)

	var user domain.User
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}
