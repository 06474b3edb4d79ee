package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/configs"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/pricing"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
)

type CreateProductInput struct {
	Name          string            `json:"name"`
	CategoryID    string            `json:"category"`
	SubcategoryID string            `json:"subcategory"`
	Description   string            `json:"description"`
	Unit          string            `json:"unit"`
	Price         float64           `json:"price"`
	BulkPricing   []models.BulkTier `json:"bulkPricing"`
	Images        []string          `json:"images"`
	Stock         int               `json:"stock"`
	Status        string            `json:"status"`
}

type CatalogService struct {
	products repository.ProductRepository
	stock    StockKeeper
	cfg      configs.InventoryConfig
	log      logger.Logger
}

func NewCatalogService(products repository.ProductRepository, stock StockKeeper, cfg configs.InventoryConfig, log logger.Logger) *CatalogService {
	return &CatalogService{products: products, stock: stock, cfg: cfg, log: log}
}

func (s *CatalogService) ListActive(ctx context.Context, page repository.Page) ([]models.Product, int64, error) {
	return s.products.List(ctx, repository.ProductFilter{Status: models.ProductActive}, page)
}

func (s *CatalogService) Search(ctx context.Context, name string, page repository.Page) ([]models.Product, int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, 0, validation("name query is required")
	}
	return s.products.List(ctx, repository.ProductFilter{Status: models.ProductActive, NameQuery: name}, page)
}

// Get hides products that are not active.
func (s *CatalogService) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if product.Status != models.ProductActive {
		return nil, ErrNotFound
	}
	return product, nil
}

func (s *CatalogService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validation("name is required")
	}
	if in.Price <= 0 {
		return nil, validation("price must be greater than zero")
	}
	if in.Stock < 0 {
		return nil, validation("stock must not be negative")
	}
	if tier, ok := pricing.ValidateTiers(in.Price, in.BulkPricing); !ok {
		return nil, validation("bulk tier minQty %d price %.2f must have minQty >= 1 and a price between 0 and the base price", tier.MinQty, tier.Price)
	}

	status := models.ProductDraft
	if in.Status != "" {
		status = models.ProductStatus(in.Status)
		if !status.Valid() {
			return nil, validation("invalid product status %q", in.Status)
		}
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: in.Description,
		Unit:        in.Unit,
		Price:       in.Price,
		BulkPricing: in.BulkPricing,
		Images:      in.Images,
		Status:      status,
		Stock:       in.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.BulkPricing == nil {
		product.BulkPricing = []models.BulkTier{}
	}
	var err error
	if product.CategoryID, err = optionalID(in.CategoryID, "category"); err != nil {
		return nil, err
	}
	if product.SubcategoryID, err = optionalID(in.SubcategoryID, "subcategory"); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	if status == models.ProductActive {
		s.list(ctx, product)
	}
	return product, nil
}

// SetStatus changes the status; moving into active lists the product in
// every franchise inventory.
func (s *CatalogService) SetStatus(ctx context.Context, id primitive.ObjectID, status models.ProductStatus) (*models.Product, error) {
	if !status.Valid() {
		return nil, validation("invalid product status %q", status)
	}

	before, err := s.products.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, translate(err)
	}

	product := *before
	product.Status = status
	if status == models.ProductActive && before.Status != models.ProductActive {
		s.list(ctx, &product)
	}
	return &product, nil
}

// list never fails the caller.
func (s *CatalogService) list(ctx context.Context, product *models.Product) {
	seed := product.Stock
	if seed <= 0 {
		seed = s.cfg.DefaultListingStock
	}

	listed, err := s.stock.EnsureProductListed(ctx, product.ID, seed)
	if err != nil {
		s.log.WithContext(ctx).Error("list product in franchise inventories",
			logger.String("product_id", product.ID.Hex()), logger.Error(err))
		return
	}
	s.log.WithContext(ctx).Info("product listed",
		logger.String("product_id", product.ID.Hex()), logger.Int("franchises", listed))
}

func optionalID(hex, field string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, validation("invalid %s id", field)
	}
	return &id, nil
}
