package routes

import (
	"github.com/gofiber/fiber/v2"

	productController "github.com/chiragjeevanani/krishikart-2.0-sub004/controllers/products"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/middlewares"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
)

func ProductsRoute(app fiber.Router, h *productController.ProductController, auth fiber.Handler) {
	app.Get("/api/products", h.GetAllProducts)

	app.Get("/api/products/search", h.SearchProducts)

	app.Get("/api/products/:id", h.GetProduct)

	admin := middlewares.RequireRole(models.RoleAdmin)

	app.Post("/api/masteradmin/products", auth, admin, h.CreateProduct)

	app.Put("/api/masteradmin/products/:id/status", auth, admin, h.UpdateProductStatus)
}
