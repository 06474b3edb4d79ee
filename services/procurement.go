package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
)

type ProcurementLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type ReceivedLine struct {
	ProductID        string `json:"productId"`
	ReceivedQuantity int    `json:"receivedQuantity"`
}

type ProcurementService struct {
	requests repository.ProcurementRepository
	products repository.ProductRepository
	stock    StockKeeper
	log      logger.Logger
}

func NewProcurementService(requests repository.ProcurementRepository, products repository.ProductRepository, stock StockKeeper, log logger.Logger) *ProcurementService {
	return &ProcurementService{requests: requests, products: products, stock: stock, log: log}
}

func (s *ProcurementService) Create(ctx context.Context, franchiseID primitive.ObjectID, lines []ProcurementLine) (*models.ProcurementRequest, error) {
	if len(lines) == 0 {
		return nil, validation("at least one item is required")
	}

	ids := make([]primitive.ObjectID, 0, len(lines))
	seen := make(map[primitive.ObjectID]bool, len(lines))
	for _, line := range lines {
		id, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			return nil, validation("invalid product id %q", line.ProductID)
		}
		if line.Quantity < 1 {
			return nil, validation("quantity must be at least 1")
		}
		if seen[id] {
			return nil, validation("product %s is listed more than once", line.ProductID)
		}
		seen[id] = true
		ids = append(ids, id)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.ProcurementItem, 0, len(lines))
	for i, line := range lines {
		product, ok := products[ids[i]]
		if !ok {
			return nil, validation("product %s not found", line.ProductID)
		}
		items = append(items, models.ProcurementItem{
			ProductID: product.ID,
			Name:      product.Name,
			Unit:      product.Unit,
			Quantity:  line.Quantity,
		})
	}

	now := time.Now().UTC()
	req := &models.ProcurementRequest{
		ID:          primitive.NewObjectID(),
		FranchiseID: franchiseID,
		Items:       items,
		Status:      models.ProcurementPendingAssignment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *ProcurementService) ForFranchise(ctx context.Context, franchiseID primitive.ObjectID) ([]models.ProcurementRequest, error) {
	return s.requests.List(ctx, repository.ProcurementFilter{FranchiseID: &franchiseID})
}

func (s *ProcurementService) List(ctx context.Context, status models.ProcurementStatus) ([]models.ProcurementRequest, error) {
	return s.requests.List(ctx, repository.ProcurementFilter{Status: status})
}

func (s *ProcurementService) AssignVendor(ctx context.Context, id, vendorID primitive.ObjectID) (*models.ProcurementRequest, error) {
	if vendorID.IsZero() {
		return nil, validation("vendorId is required")
	}
	return s.move(ctx, repository.ProcurementUpdate{
		ID:       id,
		From:     []models.ProcurementStatus{models.ProcurementPendingAssignment},
		To:       models.ProcurementAssigned,
		VendorID: &vendorID,
	})
}

func (s *ProcurementService) Reject(ctx context.Context, id primitive.ObjectID) (*models.ProcurementRequest, error) {
	return s.move(ctx, repository.ProcurementUpdate{
		ID:   id,
		From: []models.ProcurementStatus{models.ProcurementPendingAssignment, models.ProcurementAssigned},
		To:   models.ProcurementRejected,
	})
}

// ConfirmReceipt completes an assigned request and books the received
// quantities into the franchise inventory. Items without a reported quantity
// are taken as received in full.
func (s *ProcurementService) ConfirmReceipt(ctx context.Context, id primitive.ObjectID, actor models.Actor, received []ReceivedLine) (*models.ProcurementRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if actor.Role != models.RoleFranchise || req.FranchiseID != actor.ID {
		return nil, ErrForbidden
	}
	if req.Status != models.ProcurementAssigned {
		return nil, ErrIllegalTransition
	}

	reported := make(map[primitive.ObjectID]int, len(received))
	for _, line := range received {
		pid, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			return nil, validation("invalid product id %q", line.ProductID)
		}
		if line.ReceivedQuantity < 0 {
			return nil, validation("receivedQuantity must not be negative")
		}
		reported[pid] = line.ReceivedQuantity
	}

	items := make([]models.ProcurementItem, len(req.Items))
	lines := make([]models.StockLine, 0, len(req.Items))
	for i, item := range req.Items {
		qty, ok := reported[item.ProductID]
		if !ok {
			qty = item.Quantity
		}
		delete(reported, item.ProductID)
		item.ReceivedQuantity = &qty
		items[i] = item
		lines = append(lines, models.StockLine{ProductID: item.ProductID, Quantity: qty})
	}
	if len(reported) > 0 {
		return nil, validation("received items must be part of the request")
	}

	completed, err := s.move(ctx, repository.ProcurementUpdate{
		ID:    id,
		From:  []models.ProcurementStatus{models.ProcurementAssigned},
		To:    models.ProcurementCompleted,
		Items: items,
	})
	if err != nil {
		return nil, err
	}

	if err := s.stock.ApplyProcurementReceipt(ctx, req.FranchiseID, lines); err != nil {
		s.log.WithContext(ctx).Error("apply procurement receipt",
			logger.String("procurement_id", id.Hex()), logger.Error(err))
		return nil, err
	}
	return completed, nil
}

func (s *ProcurementService) move(ctx context.Context, u repository.ProcurementUpdate) (*models.ProcurementRequest, error) {
	req, err := s.requests.UpdateStatus(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrIllegalTransition
		}
		return nil, translate(err)
	}
	return req, nil
}
