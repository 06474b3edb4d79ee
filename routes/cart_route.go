package routes

import (
	"github.com/gofiber/fiber/v2"

	cartController "github.com/chiragjeevanani/krishikart-2.0-sub004/controllers/cart"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/middlewares"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
)

func CartRoutes(app fiber.Router, h *cartController.CartController, auth fiber.Handler) {
	customer := middlewares.RequireRole(models.RoleCustomer)

	app.Get("/api/cart", auth, customer, h.GetCart)

	app.Post("/api/cart/add", auth, customer, h.AddToCart)

	app.Put("/api/cart/update", auth, customer, h.UpdateCartItem)

	app.Delete("/api/cart/:productId", auth, customer, h.RemoveFromCart)
}
