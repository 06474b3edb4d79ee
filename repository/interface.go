package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
)

var (
	ErrNotFound = errors.New("document not found")
	// ErrConflict means a conditional update matched nothing because the
	// document changed (or never satisfied the guard).
	ErrConflict = errors.New("document was modified concurrently")
)

// Page is a 1-based page request.
type Page struct {
	Page  int64
	Limit int64
}

func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

// Normalized applies the default and maximum page size.
func (p Page) Normalized() Page {
	return p.normalize()
}

func (p Page) skip() int64 {
	n := p.normalize()
	return (n.Page - 1) * n.Limit
}

// TotalPages rounds total/limit up.
func (p Page) TotalPages(total int64) int64 {
	n := p.normalize()
	return (total + n.Limit - 1) / n.Limit
}

type OrderFilter struct {
	UserID            *primitive.ObjectID
	FranchiseID       *primitive.ObjectID
	DeliveryPartnerID *primitive.ObjectID
	Unassigned        bool
	Status            models.OrderStatus
}

// OrderTransition is a compare-and-swap status write guarded by ExpectedVersion.
type OrderTransition struct {
	OrderID           primitive.ObjectID
	ExpectedVersion   int64
	Status            models.OrderStatus
	Entry             models.StatusEntry
	DeliveredAt       *time.Time
	DeliveryPartnerID *primitive.ObjectID
	StockDeducted     bool
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter, page Page) ([]models.Order, int64, error)
	ApplyTransition(ctx context.Context, t OrderTransition) (*models.Order, error)
	// ClaimForFranchise sets franchiseId on a Placed order that is unassigned
	// or already assigned to franchiseID.
	ClaimForFranchise(ctx context.Context, orderID, franchiseID primitive.ObjectID) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID, userID primitive.ObjectID, gatewayOrderID, paymentID string) (*models.Order, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// DebitWallet returns ErrConflict when the balance does not cover amount.
	DebitWallet(ctx context.Context, id primitive.ObjectID, amount float64) error
	CreditWallet(ctx context.Context, id primitive.ObjectID, amount float64) error
	// ChargeCredit returns ErrConflict when the unused credit does not cover amount.
	ChargeCredit(ctx context.Context, id primitive.ObjectID, amount float64) error
	ReleaseCredit(ctx context.Context, id primitive.ObjectID, amount float64) error

	AddCartItem(ctx context.Context, id, productID primitive.ObjectID, quantity int) error
	SetCartItemQuantity(ctx context.Context, id, productID primitive.ObjectID, quantity int) error
	RemoveCartItem(ctx context.Context, id, productID primitive.ObjectID) error
	ClearCart(ctx context.Context, id primitive.ObjectID) error
}

type ProductFilter struct {
	Status    models.ProductStatus
	NameQuery string
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	List(ctx context.Context, filter ProductFilter, page Page) ([]models.Product, int64, error)
	// UpdateStatus returns the product as it was before the update.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ProductStatus) (*models.Product, error)
}

type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error)
	FindForUser(ctx context.Context, id, userID primitive.ObjectID) (*models.Address, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

type FranchiseRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Franchise, error)
	// ListActiveWithLocation returns active franchises that have been geocoded.
	ListActiveWithLocation(ctx context.Context) ([]models.Franchise, error)
	ListIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

type InventoryRepository interface {
	FindByFranchise(ctx context.Context, franchiseID primitive.ObjectID) (*models.Inventory, error)
	// AdjustStock adds delta to an existing row. With guard set, a decrement
	// only applies when the row holds at least -delta. It reports whether a
	// row was changed.
	AdjustStock(ctx context.Context, franchiseID, productID primitive.ObjectID, delta int, guard bool) (bool, error)
	// AddItem inserts the row unless the franchise already lists the product.
	AddItem(ctx context.Context, franchiseID primitive.ObjectID, item models.InventoryItem) (bool, error)
}

type ProcurementFilter struct {
	FranchiseID *primitive.ObjectID
	Status      models.ProcurementStatus
}

// ProcurementUpdate moves a request from one of From to To. Nil fields are left untouched.
type ProcurementUpdate struct {
	ID       primitive.ObjectID
	From     []models.ProcurementStatus
	To       models.ProcurementStatus
	VendorID *primitive.ObjectID
	Items    []models.ProcurementItem
}

type ProcurementRepository interface {
	Create(ctx context.Context, req *models.ProcurementRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ProcurementRequest, error)
	List(ctx context.Context, filter ProcurementFilter) ([]models.ProcurementRequest, error)
	UpdateStatus(ctx context.Context, u ProcurementUpdate) (*models.ProcurementRequest, error)
}

// SettingsRepository is a key-value store; values are sub-documents.
type SettingsRepository interface {
	Get(ctx context.Context, key string, out interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}
