package routes

import (
	"github.com/gofiber/fiber/v2"

	orderController "github.com/chiragjeevanani/krishikart-2.0-sub004/controllers/orders"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/middlewares"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
)

func OrderRoutes(app fiber.Router, h *orderController.OrderController, auth fiber.Handler) {
	customer := middlewares.RequireRole(models.RoleCustomer)
	franchise := middlewares.RequireRole(models.RoleFranchise)
	delivery := middlewares.RequireRole(models.RoleDelivery)
	admin := middlewares.RequireRole(models.RoleAdmin)

	app.Post("/api/orders/place", auth, customer, h.PlaceOrder)

	app.Post("/api/orders/verify-payment", auth, customer, h.VerifyPayment)

	app.Get("/api/orders/my-orders", auth, customer, h.MyOrders)

	app.Get("/api/orders/:id", auth, h.GetOrder)

	app.Put("/api/orders/:role/:id/status", auth, middlewares.MatchRoleParam("role"), h.UpdateStatus)

	app.Get("/api/franchise/orders", auth, franchise, h.FranchiseOrders)

	app.Get("/api/franchise/orders/broadcast", auth, franchise, h.BroadcastOrders)

	app.Put("/api/franchise/orders/:id/accept", auth, franchise, h.AcceptOrder)

	app.Put("/api/franchise/orders/:id/assign-delivery", auth, franchise, h.AssignDelivery)

	app.Get("/api/delivery/orders", auth, delivery, h.DeliveryOrders)

	app.Get("/api/masteradmin/orders", auth, admin, h.AllOrders)
}
