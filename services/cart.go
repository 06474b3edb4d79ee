package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/pricing"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
)

type CartLine struct {
	models.OrderItem
	Available bool `json:"available"`
}

// CartView prices the cart the way checkout would. Unavailable lines are
// listed but left out of the totals.
type CartView struct {
	Items  []CartLine        `json:"items"`
	Totals pricing.Breakdown `json:"totals"`
}

type CartService struct {
	users    repository.UserRepository
	products repository.ProductRepository
	settings *SettingsService
}

func NewCartService(users repository.UserRepository, products repository.ProductRepository, settings *SettingsService) *CartService {
	return &CartService{users: users, products: products, settings: settings}
}

func (s *CartService) View(ctx context.Context, userID primitive.ObjectID) (*CartView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}

	ids := make([]primitive.ObjectID, 0, len(user.Cart))
	for _, line := range user.Cart {
		ids = append(ids, line.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartLine, 0, len(user.Cart))}
	subtotals := make([]float64, 0, len(user.Cart))
	for _, line := range user.Cart {
		product, ok := products[line.ProductID]
		if !ok {
			view.Items = append(view.Items, CartLine{OrderItem: models.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity}})
			continue
		}
		item := orderItem(&product, line.Quantity)
		available := product.Status == models.ProductActive
		view.Items = append(view.Items, CartLine{OrderItem: item, Available: available})
		if available {
			subtotals = append(subtotals, item.Subtotal)
		}
	}

	if len(subtotals) > 0 {
		constraints, err := s.settings.DeliveryConstraints(ctx)
		if err != nil {
			return nil, err
		}
		view.Totals = pricing.Totals(subtotals, constraints)
	}
	return view, nil
}

func (s *CartService) Add(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	if quantity < 1 {
		return validation("quantity must be at least 1")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return translate(err)
	}
	if product.Status != models.ProductActive {
		return &ProductUnavailableError{ProductName: product.Name}
	}
	return translate(s.users.AddCartItem(ctx, userID, productID, quantity))
}

func (s *CartService) Update(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	if quantity < 1 {
		return validation("quantity must be at least 1")
	}
	return translate(s.users.SetCartItemQuantity(ctx, userID, productID, quantity))
}

func (s *CartService) Remove(ctx context.Context, userID, productID primitive.ObjectID) error {
	return translate(s.users.RemoveCartItem(ctx, userID, productID))
}
