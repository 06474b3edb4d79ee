package orderController

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/controllers"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/responses"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/services"
)

type Checkout interface {
	PlaceOrder(ctx context.Context, userID primitive.ObjectID, in services.PlaceOrderInput) (*services.PlacedOrder, error)
	VerifyPayment(ctx context.Context, userID primitive.ObjectID, in services.VerifyPaymentInput) (*models.Order, error)
}

type Queries interface {
	Get(ctx context.Context, id primitive.ObjectID, actor models.Actor) (*models.Order, error)
	ForCustomer(ctx context.Context, userID primitive.ObjectID, status models.OrderStatus, page repository.Page) ([]models.Order, int64, error)
	ForFranchise(ctx context.Context, franchiseID primitive.ObjectID, status models.OrderStatus, page repository.Page) ([]models.Order, int64, error)
	Broadcast(ctx context.Context, page repository.Page) ([]models.Order, int64, error)
	ForDeliveryPartner(ctx context.Context, partnerID primitive.ObjectID, status models.OrderStatus, page repository.Page) ([]models.Order, int64, error)
	All(ctx context.Context, status models.OrderStatus, page repository.Page) ([]models.Order, int64, error)
}

type Transitions interface {
	Transition(ctx context.Context, orderID primitive.ObjectID, requested string, actor models.Actor) (*models.Order, error)
	AcceptOrder(ctx context.Context, orderID primitive.ObjectID, actor models.Actor) (*models.Order, error)
	AssignDeliveryPartner(ctx context.Context, orderID, partnerID primitive.ObjectID, actor models.Actor) (*models.Order, error)
}

type OrderController struct {
	checkout Checkout
	queries  Queries
	machine  Transitions
	log      logger.Logger
}

func NewOrderController(checkout Checkout, queries Queries, machine Transitions, log logger.Logger) *OrderController {
	return &OrderController{checkout: checkout, queries: queries, machine: machine, log: log}
}

type PlaceOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	AddressID       string `json:"addressId"`
	PaymentMethod   string `json:"paymentMethod"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type AssignDeliveryRequest struct {
	DeliveryPartnerID string `json:"deliveryPartnerId"`
}

func (h *OrderController) PlaceOrder(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	var req PlaceOrderRequest
	if err := controllers.Body(c, &req); err != nil {
		return responses.Error(c, h.log, err)
	}

	placed, err := h.checkout.PlaceOrder(ctx, actor.ID, services.PlaceOrderInput{
		ShippingAddress: req.ShippingAddress,
		AddressID:       req.AddressID,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusCreated, "Order placed successfully", placed)
}

func (h *OrderController) VerifyPayment(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	var req services.VerifyPaymentInput
	if err := controllers.Body(c, &req); err != nil {
		return responses.Error(c, h.log, err)
	}

	order, err := h.checkout.VerifyPayment(ctx, actor.ID, req)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Payment verified successfully", order)
}

func (h *OrderController) MyOrders(c *fiber.Ctx) error {
	return h.list(c, func(ctx context.Context, actor models.Actor, status models.OrderStatus, page repository.Page) ([]models.Order, int64, error) {
		return h.queries.ForCustomer(ctx, actor.ID, status, page)
	})
}

func (h *OrderController) FranchiseOrders(c *fiber.Ctx) error {
	return h.list(c, func(ctx context.Context, actor models.Actor, status models.OrderStatus, page repository.Page) ([]models.Order, int64, error) {
		return h.queries.ForFranchise(ctx, actor.ID, status, page)
	})
}

func (h *OrderController) BroadcastOrders(c *fiber.Ctx) error {
	return h.list(c, func(ctx context.Context, _ models.Actor, _ models.OrderStatus, page repository.Page) ([]models.Order, int64, error) {
		return h.queries.Broadcast(ctx, page)
	})
}

func (h *OrderController) DeliveryOrders(c *fiber.Ctx) error {
	return h.list(c, func(ctx context.Context, actor models.Actor, status models.OrderStatus, page repository.Page) ([]models.Order, int64, error) {
		return h.queries.ForDeliveryPartner(ctx, actor.ID, status, page)
	})
}

func (h *OrderController) AllOrders(c *fiber.Ctx) error {
	return h.list(c, func(ctx context.Context, _ models.Actor, status models.OrderStatus, page repository.Page) ([]models.Order, int64, error) {
		return h.queries.All(ctx, status, page)
	})
}

type listFunc func(ctx context.Context, actor models.Actor, status models.OrderStatus, page repository.Page) ([]models.Order, int64, error)

func (h *OrderController) list(c *fiber.Ctx, fetch listFunc) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	status, err := services.ParseStatusFilter(c.Query("status"))
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	page := controllers.PageQuery(c)
	orders, total, err := fetch(ctx, actor, status, page)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return responses.List(c, "Orders fetched successfully", orders, controllers.Pagination(page, total))
}

func (h *OrderController) GetOrder(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	orderID, err := controllers.ObjectIDParam(c, "id")
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	order, err := h.queries.Get(ctx, orderID, actor)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Order fetched successfully", order)
}

// UpdateStatus serves PUT /api/orders/:role/:id/status. The :role segment is
// checked against the token by middleware before this runs.
func (h *OrderController) UpdateStatus(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	orderID, err := controllers.ObjectIDParam(c, "id")
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	var req StatusRequest
	if err := controllers.Body(c, &req); err != nil {
		return responses.Error(c, h.log, err)
	}

	order, err := h.machine.Transition(ctx, orderID, req.Status, actor)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Order status updated", order)
}

func (h *OrderController) AcceptOrder(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	orderID, err := controllers.ObjectIDParam(c, "id")
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	order, err := h.machine.AcceptOrder(ctx, orderID, actor)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Order accepted", order)
}

func (h *OrderController) AssignDelivery(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	orderID, err := controllers.ObjectIDParam(c, "id")
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	var req AssignDeliveryRequest
	if err := controllers.Body(c, &req); err != nil {
		return responses.Error(c, h.log, err)
	}
	partnerID, err := controllers.ObjectIDValue(req.DeliveryPartnerID, "deliveryPartnerId")
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	order, err := h.machine.AssignDeliveryPartner(ctx, orderID, partnerID, actor)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Delivery partner assigned", order)
}
