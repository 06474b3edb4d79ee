package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
)

type InventoryMongoRepository struct {
	collection *mongo.Collection
}

func NewInventoryRepository(collection *mongo.Collection) *InventoryMongoRepository {
	return &InventoryMongoRepository{collection: collection}
}

func (r *InventoryMongoRepository) FindByFranchise(ctx context.Context, franchiseID primitive.ObjectID) (*models.Inventory, error) {
	var inv models.Inventory
	if err := r.collection.FindOne(ctx, bson.M{"franchiseId": franchiseID}).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find inventory: %w", err)
	}
	return &inv, nil
}

func (r *InventoryMongoRepository) AdjustStock(ctx context.Context, franchiseID, productID primitive.ObjectID, delta int, guard bool) (bool, error) {
	elem := bson.M{"productId": productID}
	if guard && delta < 0 {
		elem["currentStock"] = bson.M{"$gte": -delta}
	}

	filter := bson.M{
		"franchiseId": franchiseID,
		"items":       bson.M{"$elemMatch": elem},
	}
	update := bson.M{
		"$inc": bson.M{"items.$.currentStock": delta},
		"$set": bson.M{"items.$.lastUpdated": time.Now().UTC()},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("adjust stock: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// AddItem relies on the unique franchiseId index: when the franchise already
// lists the product the upsert collides and nothing is written.
func (r *InventoryMongoRepository) AddItem(ctx context.Context, franchiseID primitive.ObjectID, item models.InventoryItem) (bool, error) {
	if item.LastUpdated.IsZero() {
		item.LastUpdated = time.Now().UTC()
	}

	filter := bson.M{
		"franchiseId":     franchiseID,
		"items.productId": bson.M{"$ne": item.ProductID},
	}
	update := bson.M{"$push": bson.M{"items": item}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("add inventory item: %w", err)
	}
	return true, nil
}
