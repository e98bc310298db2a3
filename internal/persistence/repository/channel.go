package repository

import (
	"context"
	"errors"

	"github.com/barachat/gateway/internal/domain"
	"github.com/barachat/gateway/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type channelRepository struct {
	db *mongo.Database
}

func NewChannelRepository(database *mongo.Database) domain.ChannelRepository {
	return &channelRepository{db: database}
}

func (r *channelRepository) GetByID(ctx context.Context, id string) (*domain.Channel, error) {
	collection := r.db.Collection(db.ChannelsCollection)

	var channel domain.Channel
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&channel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &channel, nil
}

func (r *channelRepository) GetVisible(ctx context.Context, userID string, serverIDs []string) ([]domain.Channel, error) {
	collection := r.db.Collection(db.ChannelsCollection)

	filter := bson.M{"recipients": userID}
	if len(serverIDs) > 0 {
		filter = bson.M{
			"$or": bson.A{
				bson.M{"recipients": userID},
				bson.M{"server": bson.M{"$in": serverIDs}},
			},
		}
	}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var channels []domain.Channel
	if err := cursor.All(ctx, &channels); err != nil {
		return nil, err
	}

	return channels, nil
}
