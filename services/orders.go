package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
)

// OrderQueries serves the read side of orders for each role.
type OrderQueries struct {
	orders repository.OrderRepository
}

func NewOrderQueries(orders repository.OrderRepository) *OrderQueries {
	return &OrderQueries{orders: orders}
}

// ParseStatusFilter accepts "" as no filter.
func ParseStatusFilter(s string) (models.OrderStatus, error) {
	if s == "" {
		return "", nil
	}
	status, ok := models.ParseOrderStatus(s)
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Get returns the order if the actor owns, fulfils, delivers or administers it.
func (q *OrderQueries) Get(ctx context.Context, id primitive.ObjectID, actor models.Actor) (*models.Order, error) {
	order, err := q.orders.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !canView(order, actor) {
		return nil, ErrForbidden
	}
	return order, nil
}

func canView(order *models.Order, actor models.Actor) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleCustomer:
		return order.UserID == actor.ID
	case models.RoleFranchise:
		return order.IsAssignedTo(actor.ID)
	case models.RoleDelivery:
		return order.IsDeliveredBy(actor.ID)
	}
	return false
}

func (q *OrderQueries) ForCustomer(ctx context.Context, userID primitive.ObjectID, status models.OrderStatus, page repository.Page) ([]models.Order, int64, error) {
	return q.orders.List(ctx, repository.OrderFilter{UserID: &userID, Status: status}, page)
}

func (q *OrderQueries) ForFranchise(ctx context.Context, franchiseID primitive.ObjectID, status models.OrderStatus, page repository.Page) ([]models.Order, int64, error) {
	return q.orders.List(ctx, repository.OrderFilter{FranchiseID: &franchiseID, Status: status}, page)
}

// Broadcast lists Placed orders no franchise has taken yet.
func (q *OrderQueries) Broadcast(ctx context.Context, page repository.Page) ([]models.Order, int64, error) {
	return q.orders.List(ctx, repository.OrderFilter{Unassigned: true, Status: models.StatusPlaced}, page)
}

func (q *OrderQueries) ForDeliveryPartner(ctx context.Context, partnerID primitive.ObjectID, status models.OrderStatus, page repository.Page) ([]models.Order, int64, error) {
	return q.orders.List(ctx, repository.OrderFilter{DeliveryPartnerID: &partnerID, Status: status}, page)
}

func (q *OrderQueries) All(ctx context.Context, status models.OrderStatus, page repository.Page) ([]models.Order, int64, error) {
	return q.orders.List(ctx, repository.OrderFilter{Status: status}, page)
}
