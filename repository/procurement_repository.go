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

type ProcurementMongoRepository struct {
	collection *mongo.Collection
}

func NewProcurementRepository(collection *mongo.Collection) *ProcurementMongoRepository {
	return &ProcurementMongoRepository{collection: collection}
}

func (r *ProcurementMongoRepository) Create(ctx context.Context, req *models.ProcurementRequest) error {
	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("insert procurement request: %w", err)
	}
	return nil
}

func (r *ProcurementMongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ProcurementRequest, error) {
	var req models.ProcurementRequest
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find procurement request: %w", err)
	}
	return &req, nil
}

func (r *ProcurementMongoRepository) List(ctx context.Context, filter ProcurementFilter) ([]models.ProcurementRequest, error) {
	query := bson.M{}
	if filter.FranchiseID != nil {
		query["franchiseId"] = *filter.FranchiseID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find procurement requests: %w", err)
	}

	out := make([]models.ProcurementRequest, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode procurement requests: %w", err)
	}
	return out, nil
}

func (r *ProcurementMongoRepository) UpdateStatus(ctx context.Context, u ProcurementUpdate) (*models.ProcurementRequest, error) {
	set := bson.M{"status": u.To, "updatedAt": time.Now().UTC()}
	if u.VendorID != nil {
		set["assignedVendorId"] = *u.VendorID
	}
	if u.Items != nil {
		set["items"] = u.Items
	}

	filter := bson.M{"_id": u.ID, "status": bson.M{"$in": u.From}}

	var req models.ProcurementRequest
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&req)
	if err == nil {
		return &req, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update procurement request: %w", err)
	}

	if _, err := r.FindByID(ctx, u.ID); err != nil {
		return nil, err
	}
	return nil, ErrConflict
}
