package routes

import (
	"github.com/gofiber/fiber/v2"

	accountController "github.com/chiragjeevanani/krishikart-2.0-sub004/controllers/accounts"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/middlewares"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
)

func AccountRoute(app fiber.Router, h *accountController.AccountController, auth fiber.Handler) {
	app.Get("/api/users/me", auth, middlewares.RequireRole(models.RoleCustomer), h.GetProfile)
}
