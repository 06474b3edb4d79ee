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

type OrderMongoRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(collection *mongo.Collection) *OrderMongoRepository {
	return &OrderMongoRepository{collection: collection}
}

func (r *OrderMongoRepository) Create(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order is nil")
	}
	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderMongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

func (r *OrderMongoRepository) List(ctx context.Context, filter OrderFilter, page Page) ([]models.Order, int64, error) {
	query := bson.M{}
	if filter.UserID != nil {
		query["userId"] = *filter.UserID
	}
	if filter.FranchiseID != nil {
		query["franchiseId"] = *filter.FranchiseID
	} else if filter.Unassigned {
		query["franchiseId"] = nil
	}
	if filter.DeliveryPartnerID != nil {
		query["deliveryPartnerId"] = *filter.DeliveryPartnerID
	}
	if filter.Status != "" {
		query["orderStatus"] = filter.Status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	page = page.normalize()
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.skip()).
		SetLimit(page.Limit)

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("find orders: %w", err)
	}

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}
	return orders, total, nil
}

func (r *OrderMongoRepository) ApplyTransition(ctx context.Context, t OrderTransition) (*models.Order, error) {
	set := bson.M{
		"orderStatus":   t.Status,
		"stockDeducted": t.StockDeducted,
		"updatedAt":     t.Entry.UpdatedAt,
	}
	if t.DeliveredAt != nil {
		set["deliveredAt"] = *t.DeliveredAt
	}
	if t.DeliveryPartnerID != nil {
		set["deliveryPartnerId"] = *t.DeliveryPartnerID
	}

	update := bson.M{
		"$set":  set,
		"$push": bson.M{"statusHistory": t.Entry},
		"$inc":  bson.M{"version": 1},
	}

	return r.conditionalUpdate(ctx, bson.M{"_id": t.OrderID, "version": t.ExpectedVersion}, update)
}

func (r *OrderMongoRepository) ClaimForFranchise(ctx context.Context, orderID, franchiseID primitive.ObjectID) (*models.Order, error) {
	filter := bson.M{
		"_id":         orderID,
		"orderStatus": models.StatusPlaced,
		"$or": bson.A{
			bson.M{"franchiseId": nil},
			bson.M{"franchiseId": franchiseID},
		},
	}
	update := bson.M{
		"$set": bson.M{"franchiseId": franchiseID, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}
	return r.conditionalUpdate(ctx, filter, update)
}

func (r *OrderMongoRepository) MarkPaid(ctx context.Context, orderID, userID primitive.ObjectID, gatewayOrderID, paymentID string) (*models.Order, error) {
	filter := bson.M{"_id": orderID, "userId": userID, "razorpayOrderId": gatewayOrderID}
	update := bson.M{
		"$set": bson.M{
			"paymentStatus": models.PaymentCompleted,
			"paymentId":     paymentID,
			"updatedAt":     time.Now().UTC(),
		},
	}

	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mark order paid: %w", err)
	}
	return &order, nil
}

// conditionalUpdate returns ErrNotFound when the order is missing and
// ErrConflict when it exists but the guard no longer holds.
func (r *OrderMongoRepository) conditionalUpdate(ctx context.Context, filter, update bson.M) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&order)
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update order: %w", err)
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": filter["_id"]})
	if err != nil {
		return nil, fmt.Errorf("count order: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrConflict
}
