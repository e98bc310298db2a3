package repository

import (
	"context"

	"github.com/barachat/gateway/internal/domain"
	"github.com/barachat/gateway/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type memberRepository struct {
	db *mongo.Database
}

func NewMemberRepository(database *mongo.Database) domain.MemberRepository {
	return &memberRepository{db: database}
}

func (r *memberRepository) GetByServer(ctx context.Context, serverID string) ([]domain.Member, error) {
	return r.find(ctx, bson.M{"_id.server": serverID})
}

func (r *memberRepository) GetByUser(ctx context.Context, userID string) ([]domain.Member, error) {
	return r.find(ctx, bson.M{"_id.user": userID})
}

func (r *memberRepository) find(ctx context.Context, filter bson.M) ([]domain.Member, error) {
	collection := r.db.Collection(db.MembersCollection)

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []domain.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}

	return members, nil
}
