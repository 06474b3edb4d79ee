package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
)

type AddressMongoRepository struct {
	collection *mongo.Collection
}

func NewAddressRepository(collection *mongo.Collection) *AddressMongoRepository {
	return &AddressMongoRepository{collection: collection}
}

func (r *AddressMongoRepository) Create(ctx context.Context, address *models.Address) error {
	if address.Id.IsZero() {
		address.Id = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, address); err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (r *AddressMongoRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("find addresses: %w", err)
	}

	addresses := make([]models.Address, 0)
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, fmt.Errorf("decode addresses: %w", err)
	}
	return addresses, nil
}

func (r *AddressMongoRepository) FindForUser(ctx context.Context, id, userID primitive.ObjectID) (*models.Address, error) {
	var address models.Address
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&address)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find address: %w", err)
	}
	return &address, nil
}

func (r *AddressMongoRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
