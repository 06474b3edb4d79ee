package routes

import (
	"github.com/gofiber/fiber/v2"

	addressController "github.com/chiragjeevanani/krishikart-2.0-sub004/controllers/addresses"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/middlewares"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
)

func AddressRoutes(app fiber.Router, h *addressController.AddressController, auth fiber.Handler) {
	customer := middlewares.RequireRole(models.RoleCustomer)

	app.Post("/api/addresses", auth, customer, h.AddAddress)

	app.Get("/api/addresses", auth, customer, h.GetAddresses)

	app.Delete("/api/addresses/:id", auth, customer, h.DeleteAddress)
}
