package cartController

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/controllers"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/responses"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/services"
)

type Cart interface {
	View(ctx context.Context, userID primitive.ObjectID) (*services.CartView, error)
	Add(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error
	Update(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error
	Remove(ctx context.Context, userID, productID primitive.ObjectID) error
}

type CartController struct {
	cart Cart
	log  logger.Logger
}

func NewCartController(cart Cart, log logger.Logger) *CartController {
	return &CartController{cart: cart, log: log}
}

type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartController) GetCart(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	view, err := h.cart.View(ctx, actor.ID)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Cart fetched successfully", view)
}

func (h *CartController) AddToCart(c *fiber.Ctx) error {
	return h.write(c, "Product added to cart", h.cart.Add)
}

func (h *CartController) UpdateCartItem(c *fiber.Ctx) error {
	return h.write(c, "Cart updated", h.cart.Update)
}

func (h *CartController) write(c *fiber.Ctx, message string, apply func(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	var req CartItemRequest
	if err := controllers.Body(c, &req); err != nil {
		return responses.Error(c, h.log, err)
	}
	productID, err := controllers.ObjectIDValue(req.ProductID, "productId")
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	if err := apply(ctx, actor.ID, productID, req.Quantity); err != nil {
		return responses.Error(c, h.log, err)
	}
	return h.respondWithCart(ctx, c, actor.ID, message)
}

func (h *CartController) RemoveFromCart(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	productID, err := controllers.ObjectIDParam(c, "productId")
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	if err := h.cart.Remove(ctx, actor.ID, productID); err != nil {
		return responses.Error(c, h.log, err)
	}
	return h.respondWithCart(ctx, c, actor.ID, "Product removed from cart")
}

// respondWithCart returns the cart as it stands after a write.
func (h *CartController) respondWithCart(ctx context.Context, c *fiber.Ctx, userID primitive.ObjectID, message string) error {
	view, err := h.cart.View(ctx, userID)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, message, view)
}
