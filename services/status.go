package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/broadcast"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
)

// StatusMachine owns every write to orderStatus and statusHistory.
type StatusMachine struct {
	orders      repository.OrderRepository
	franchises  repository.FranchiseRepository
	stock       StockKeeper
	broadcaster broadcast.Broadcaster
	log         logger.Logger
	now         func() time.Time
}

func NewStatusMachine(
	orders repository.OrderRepository,
	franchises repository.FranchiseRepository,
	stock StockKeeper,
	broadcaster broadcast.Broadcaster,
	log logger.Logger,
) *StatusMachine {
	return &StatusMachine{
		orders:      orders,
		franchises:  franchises,
		stock:       stock,
		broadcaster: broadcaster,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// StatusChange is the per-order broadcast payload.
type StatusChange struct {
	OrderID   string             `json:"orderId"`
	Status    models.OrderStatus `json:"status"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func (s *StatusMachine) Transition(ctx context.Context, orderID primitive.ObjectID, requested string, actor models.Actor) (*models.Order, error) {
	status, ok := models.ParseOrderStatus(requested)
	if !ok {
		return nil, ErrInvalidStatus
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, translate(err)
	}

	if err := authorizeTransition(order, status, actor); err != nil {
		return nil, err
	}
	return s.apply(ctx, order, status, actor, nil)
}

// authorizeTransition checks association, then role, then the graph.
// Admins skip all three and may re-apply the current status.
func authorizeTransition(order *models.Order, status models.OrderStatus, actor models.Actor) error {
	if actor.IsAdmin() {
		return nil
	}

	switch actor.Role {
	case models.RoleCustomer:
		if order.UserID != actor.ID {
			return ErrForbidden
		}
	case models.RoleFranchise:
		if !order.IsAssignedTo(actor.ID) {
			return ErrNotAssigned
		}
	case models.RoleDelivery:
		if !order.IsDeliveredBy(actor.ID) {
			return ErrNotAssigned
		}
	default:
		return ErrRoleForbidden
	}

	if !roleMaySet(actor.Role, status) {
		return ErrRoleForbidden
	}
	if !order.OrderStatus.CanTransitionTo(status) {
		return ErrIllegalTransition
	}
	return nil
}

func roleMaySet(role models.Role, status models.OrderStatus) bool {
	switch status {
	case models.StatusPacked, models.StatusDispatched:
		return role == models.RoleFranchise
	case models.StatusDelivered:
		return role == models.RoleDelivery || role == models.RoleFranchise
	case models.StatusReceived:
		return role == models.RoleCustomer
	case models.StatusCancelled:
		return true
	}
	return false
}

// AcceptOrder claims a Placed order for the calling franchise.
func (s *StatusMachine) AcceptOrder(ctx context.Context, orderID primitive.ObjectID, actor models.Actor) (*models.Order, error) {
	if actor.Role != models.RoleFranchise {
		return nil, ErrRoleForbidden
	}

	franchise, err := s.franchises.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, translate(err)
	}
	if franchise.Status != models.FranchiseActive {
		return nil, ErrForbidden
	}

	order, err := s.orders.ClaimForFranchise(ctx, orderID, actor.ID)
	if err == nil {
		s.publish(ctx, broadcast.TopicAdmin, broadcast.EventOrderStatusUpdated, order)
		return order, nil
	}
	if !errors.Is(err, repository.ErrConflict) {
		return nil, translate(err)
	}

	current, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, translate(err)
	}
	if current.FranchiseID != nil && *current.FranchiseID != actor.ID {
		return nil, ErrAlreadyAssigned
	}
	return nil, ErrIllegalTransition
}

// AssignDeliveryPartner sets the partner and moves the order to Dispatched.
// Re-assigning an already dispatched order replaces the partner.
func (s *StatusMachine) AssignDeliveryPartner(ctx context.Context, orderID, partnerID primitive.ObjectID, actor models.Actor) (*models.Order, error) {
	if partnerID.IsZero() {
		return nil, validation("deliveryPartnerId is required")
	}
	if actor.Role != models.RoleFranchise && !actor.IsAdmin() {
		return nil, ErrRoleForbidden
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, translate(err)
	}
	if !actor.IsAdmin() && !order.IsAssignedTo(actor.ID) {
		return nil, ErrNotAssigned
	}

	switch order.OrderStatus {
	case models.StatusPlaced, models.StatusPacked, models.StatusDispatched:
	default:
		return nil, ErrIllegalTransition
	}
	return s.apply(ctx, order, models.StatusDispatched, actor, &partnerID)
}

// apply performs the compare-and-swap write. Stock leaves the franchise the
// first time an order reaches Dispatched or any later fulfilment status and
// returns if it is cancelled afterwards.
func (s *StatusMachine) apply(ctx context.Context, order *models.Order, status models.OrderStatus, actor models.Actor, partnerID *primitive.ObjectID) (*models.Order, error) {
	now := s.now()
	t := repository.OrderTransition{
		OrderID:           order.ID,
		ExpectedVersion:   order.Version,
		Status:            status,
		Entry:             models.StatusEntry{Status: status, UpdatedAt: now, UpdatedBy: actor.AuditTag()},
		DeliveryPartnerID: partnerID,
		StockDeducted:     order.StockDeducted,
	}
	if status == models.StatusDelivered {
		t.DeliveredAt = &now
	}

	deducted := false
	if consumesStock(status) && !order.StockDeducted && order.FranchiseID != nil {
		if err := s.stock.ApplySaleDeduction(ctx, *order.FranchiseID, order.StockLines()); err != nil {
			return nil, err
		}
		t.StockDeducted, deducted = true, true
	}

	restore := status == models.StatusCancelled && order.StockDeducted && order.FranchiseID != nil
	if restore {
		t.StockDeducted = false
	}

	updated, err := s.orders.ApplyTransition(ctx, t)
	if err != nil {
		if deducted {
			if rerr := s.stock.RestoreSale(ctx, *order.FranchiseID, order.StockLines()); rerr != nil {
				s.log.WithContext(ctx).Error("restore stock after failed transition",
					logger.String("order_id", order.ID.Hex()), logger.Error(rerr))
			}
		}
		return nil, translate(err)
	}

	if restore {
		if err := s.stock.RestoreSale(ctx, *order.FranchiseID, order.StockLines()); err != nil {
			s.log.WithContext(ctx).Error("restore stock for cancelled order",
				logger.String("order_id", order.ID.Hex()), logger.Error(err))
		}
	}

	s.log.WithContext(ctx).Info("order status changed",
		logger.String("order_id", updated.ID.Hex()),
		logger.String("from", string(order.OrderStatus)),
		logger.String("to", string(status)),
		logger.String("by", actor.AuditTag()))

	s.publish(ctx, broadcast.TopicAdmin, broadcast.EventOrderStatusUpdated, updated)
	s.publish(ctx, broadcast.OrderTopic(updated.ID.Hex()), broadcast.EventOrderStatusChanged, StatusChange{
		OrderID:   updated.ID.Hex(),
		Status:    updated.OrderStatus,
		UpdatedAt: now,
	})
	return updated, nil
}

// consumesStock reports whether goods have left the franchise by this status.
func consumesStock(status models.OrderStatus) bool {
	switch status {
	case models.StatusDispatched, models.StatusDelivered, models.StatusReceived:
		return true
	}
	return false
}

func (s *StatusMachine) publish(ctx context.Context, topic, event string, payload interface{}) {
	if err := s.broadcaster.Publish(ctx, topic, event, payload); err != nil {
		s.log.WithContext(ctx).Warn("broadcast failed",
			logger.String("topic", topic), logger.String("event", event), logger.Error(err))
	}
}
