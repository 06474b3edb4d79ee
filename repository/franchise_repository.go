package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
)

type FranchiseMongoRepository struct {
	collection *mongo.Collection
}

func NewFranchiseRepository(collection *mongo.Collection) *FranchiseMongoRepository {
	return &FranchiseMongoRepository{collection: collection}
}

func (r *FranchiseMongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Franchise, error) {
	var franchise models.Franchise
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&franchise); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find franchise: %w", err)
	}
	return &franchise, nil
}

func (r *FranchiseMongoRepository) ListActiveWithLocation(ctx context.Context) ([]models.Franchise, error) {
	filter := bson.M{
		"status":       models.FranchiseActive,
		"location":     bson.M{"$ne": nil},
		"location.lat": bson.M{"$type": "number"},
		"location.lng": bson.M{"$type": "number"},
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find active franchises: %w", err)
	}

	franchises := make([]models.Franchise, 0)
	if err := cursor.All(ctx, &franchises); err != nil {
		return nil, fmt.Errorf("decode franchises: %w", err)
	}
	return franchises, nil
}

func (r *FranchiseMongoRepository) ListIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("find franchises: %w", err)
	}

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode franchise ids: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}
