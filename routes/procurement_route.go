package routes

import (
	"github.com/gofiber/fiber/v2"

	procurementController "github.com/chiragjeevanani/krishikart-2.0-sub004/controllers/procurement"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/middlewares"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
)

func ProcurementRoutes(app fiber.Router, h *procurementController.ProcurementController, auth fiber.Handler) {
	franchise := middlewares.RequireRole(models.RoleFranchise)
	admin := middlewares.RequireRole(models.RoleAdmin)

	app.Post("/api/franchise/procurement", auth, franchise, h.CreateRequest)

	app.Get("/api/franchise/procurement", auth, franchise, h.FranchiseRequests)

	app.Put("/api/franchise/procurement/:id/receive", auth, franchise, h.ConfirmReceipt)

	app.Get("/api/masteradmin/procurement", auth, admin, h.AllRequests)

	app.Put("/api/masteradmin/procurement/:id/assign", auth, admin, h.AssignVendor)

	app.Put("/api/masteradmin/procurement/:id/reject", auth, admin, h.RejectRequest)
}
