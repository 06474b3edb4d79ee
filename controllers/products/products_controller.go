package productController

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/controllers"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/responses"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/services"
)

type Catalog interface {
	ListActive(ctx context.Context, page repository.Page) ([]models.Product, int64, error)
	Search(ctx context.Context, name string, page repository.Page) ([]models.Product, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, in services.CreateProductInput) (*models.Product, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.ProductStatus) (*models.Product, error)
}

type ProductController struct {
	catalog Catalog
	log     logger.Logger
}

func NewProductController(catalog Catalog, log logger.Logger) *ProductController {
	return &ProductController{catalog: catalog, log: log}
}

type StatusRequest struct {
	Status string `json:"status"`
}

// GetAllProducts lists active products page by page.
func (h *ProductController) GetAllProducts(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	page := controllers.PageQuery(c)
	products, total, err := h.catalog.ListActive(ctx, page)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return h.list(c, products, page, total)
}

func (h *ProductController) SearchProducts(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return responses.Fail(c, fiber.StatusBadRequest, "Search query is required")
	}

	page := controllers.PageQuery(c)
	products, total, err := h.catalog.Search(ctx, name, page)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return h.list(c, products, page, total)
}

func (h *ProductController) list(c *fiber.Ctx, products []models.Product, page repository.Page, total int64) error {
	if products == nil {
		products = []models.Product{}
	}
	return responses.List(c, "Products fetched successfully", products, controllers.Pagination(page, total))
}

func (h *ProductController) GetProduct(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	productID, err := controllers.ObjectIDParam(c, "id")
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	product, err := h.catalog.Get(ctx, productID)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Product fetched successfully", product)
}

func (h *ProductController) CreateProduct(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	var req services.CreateProductInput
	if err := controllers.Body(c, &req); err != nil {
		return responses.Error(c, h.log, err)
	}

	product, err := h.catalog.Create(ctx, req)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusCreated, "Product created successfully", product)
}

func (h *ProductController) UpdateProductStatus(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	productID, err := controllers.ObjectIDParam(c, "id")
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	var req StatusRequest
	if err := controllers.Body(c, &req); err != nil {
		return responses.Error(c, h.log, err)
	}

	product, err := h.catalog.SetStatus(ctx, productID, models.ProductStatus(req.Status))
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Product status updated", product)
}
