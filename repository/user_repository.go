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

type UserMongoRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(collection *mongo.Collection) *UserMongoRepository {
	return &UserMongoRepository{collection: collection}
}

func (r *UserMongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *UserMongoRepository) DebitWallet(ctx context.Context, id primitive.ObjectID, amount float64) error {
	filter := bson.M{"_id": id, "walletBalance": bson.M{"$gte": amount}}
	return r.guardedUpdate(ctx, filter, bson.M{"$inc": bson.M{"walletBalance": -amount}})
}

func (r *UserMongoRepository) CreditWallet(ctx context.Context, id primitive.ObjectID, amount float64) error {
	return r.guardedUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"walletBalance": amount}})
}

func (r *UserMongoRepository) ChargeCredit(ctx context.Context, id primitive.ObjectID, amount float64) error {
	filter := bson.M{
		"_id": id,
		"$expr": bson.M{
			"$gte": bson.A{
				bson.M{"$subtract": bson.A{"$creditLimit", "$usedCredit"}},
				amount,
			},
		},
	}
	return r.guardedUpdate(ctx, filter, bson.M{"$inc": bson.M{"usedCredit": amount}})
}

func (r *UserMongoRepository) ReleaseCredit(ctx context.Context, id primitive.ObjectID, amount float64) error {
	return r.guardedUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"usedCredit": -amount}})
}

// AddCartItem increments an existing line or appends a new one.
func (r *UserMongoRepository) AddCartItem(ctx context.Context, id, productID primitive.ObjectID, quantity int) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "cart.productId": productID},
		bson.M{"$inc": bson.M{"cart.$.quantity": quantity}},
	)
	if err != nil {
		return fmt.Errorf("increment cart item: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	res, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "cart.productId": bson.M{"$ne": productID}},
		bson.M{"$push": bson.M{"cart": models.CartItem{ProductID: productID, Quantity: quantity}}},
	)
	if err != nil {
		return fmt.Errorf("push cart item: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either the user is gone or a concurrent add created the line.
		return r.incrementCartItem(ctx, id, productID, quantity)
	}
	return nil
}

func (r *UserMongoRepository) incrementCartItem(ctx context.Context, id, productID primitive.ObjectID, quantity int) error {
	return r.guardedUpdateNotFound(ctx,
		bson.M{"_id": id, "cart.productId": productID},
		bson.M{"$inc": bson.M{"cart.$.quantity": quantity}},
	)
}

func (r *UserMongoRepository) SetCartItemQuantity(ctx context.Context, id, productID primitive.ObjectID, quantity int) error {
	return r.guardedUpdateNotFound(ctx,
		bson.M{"_id": id, "cart.productId": productID},
		bson.M{"$set": bson.M{"cart.$.quantity": quantity}},
	)
}

func (r *UserMongoRepository) RemoveCartItem(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.guardedUpdateNotFound(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{"cart": bson.M{"productId": productID}}},
	)
}

func (r *UserMongoRepository) ClearCart(ctx context.Context, id primitive.ObjectID) error {
	return r.guardedUpdateNotFound(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"cart": []models.CartItem{}}})
}

func (r *UserMongoRepository) guardedUpdate(ctx context.Context, filter, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

func (r *UserMongoRepository) guardedUpdateNotFound(ctx context.Context, filter, update bson.M) error {
	err := r.guardedUpdate(ctx, filter, update)
	if errors.Is(err, ErrConflict) {
		return ErrNotFound
	}
	return err
}
