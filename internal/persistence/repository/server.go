package repository

import (
	"context"
	"errors"

	"github.com/barachat/gateway/internal/domain"
	"github.com/barachat/gateway/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type serverRepository struct {
	db *mongo.Database
}

func NewServerRepository(database *mongo.Database) domain.ServerRepository {
	return &serverRepository{db: database}
}

func (r *serverRepository) GetByID(ctx context.Context, id string) (*domain.Server, error) {
	collection := r.db.Collection(db.ServersCollection)

	var server domain.Server
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&server)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &server, nil
}

func (r *serverRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Server, error) {
	if len(ids) == 0 {
		return []domain.Server{}, nil
	}

	collection := r.db.Collection(db.ServersCollection)

	cursor, err := collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var servers []domain.Server
	if err := cursor.All(ctx, &servers); err != nil {
		return nil, err
	}

	return servers, nil
}
