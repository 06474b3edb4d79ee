package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SettingsMongoRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(collection *mongo.Collection) *SettingsMongoRepository {
	return &SettingsMongoRepository{collection: collection}
}

func (r *SettingsMongoRepository) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	var doc struct {
		Value bson.RawValue `bson:"value"`
	}
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("find setting %s: %w", key, err)
	}
	if err := doc.Value.Unmarshal(out); err != nil {
		return false, fmt.Errorf("decode setting %s: %w", key, err)
	}
	return true, nil
}

func (r *SettingsMongoRepository) Set(ctx context.Context, key string, value interface{}) error {
	update := bson.M{"$set": bson.M{"value": value, "updatedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"key": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}
