package routes

import (
	"github.com/gofiber/fiber/v2"

	settingsController "github.com/chiragjeevanani/krishikart-2.0-sub004/controllers/settings"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/middlewares"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
)

func SettingsRoutes(app fiber.Router, h *settingsController.SettingsController, auth fiber.Handler) {
	admin := middlewares.RequireRole(models.RoleAdmin)

	app.Get("/api/masteradmin/settings/delivery-constraints", auth, admin, h.GetDeliveryConstraints)

	app.Put("/api/masteradmin/settings/delivery-constraints", auth, admin, h.UpdateDeliveryConstraints)
}
