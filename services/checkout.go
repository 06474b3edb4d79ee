package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/broadcast"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/payments"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/pricing"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
)

// PaymentGateway settles UPI and card orders.
type PaymentGateway interface {
	CreateOrder(amount float64, receipt string) (*payments.GatewayOrder, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) error
}

type PlaceOrderInput struct {
	ShippingAddress string
	AddressID       string
	PaymentMethod   models.PaymentMethod
}

// PlacedOrder carries the gateway order for methods that settle online.
type PlacedOrder struct {
	Order   *models.Order          `json:"order"`
	Gateway *payments.GatewayOrder `json:"gateway,omitempty"`
}

type VerifyPaymentInput struct {
	OrderID        string `json:"orderId"`
	GatewayOrderID string `json:"razorpayOrderId"`
	PaymentID      string `json:"paymentId"`
	Signature      string `json:"signature"`
}

type CheckoutDeps struct {
	Users       repository.UserRepository
	Products    repository.ProductRepository
	Addresses   repository.AddressRepository
	Orders      repository.OrderRepository
	Settings    *SettingsService
	Assigner    Assigner
	Gateway     PaymentGateway
	Broadcaster broadcast.Broadcaster
	Log         logger.Logger
}

type CheckoutService struct {
	CheckoutDeps
	now         func() time.Time
	orderNumber func() string
}

func NewCheckoutService(deps CheckoutDeps) *CheckoutService {
	return &CheckoutService{
		CheckoutDeps: deps,
		now:          func() time.Time { return time.Now().UTC() },
		orderNumber:  func() string { return "KK-" + ulid.Make().String() },
	}
}

// PlaceOrder turns the cart into an order. The customer is charged before the
// order is written and refunded if the write fails.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID primitive.ObjectID, in PlaceOrderInput) (*PlacedOrder, error) {
	if !in.PaymentMethod.Valid() {
		return nil, validation("unsupported payment method %q", in.PaymentMethod)
	}

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	if len(user.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	shipping, err := s.shippingAddress(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	items, err := s.priceCart(ctx, user.Cart)
	if err != nil {
		return nil, err
	}

	constraints, err := s.Settings.DeliveryConstraints(ctx)
	if err != nil {
		return nil, err
	}
	totals := pricing.Totals(lineSubtotals(items), constraints)

	now := s.now()
	order := &models.Order{
		ID:            primitive.NewObjectID(),
		OrderNumber:   s.orderNumber(),
		UserID:        userID,
		Items:         items,
		Subtotal:      totals.Subtotal,
		DeliveryFee:   totals.DeliveryFee,
		Tax:           totals.Tax,
		TotalAmount:   totals.Total,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: models.PaymentPending,
		OrderStatus:   models.StatusPlaced,
		StatusHistory: []models.StatusEntry{{
			Status:    models.StatusPlaced,
			UpdatedAt: now,
			UpdatedBy: models.UpdatedBySystem,
		}},
		ShippingAddress: shipping,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var gatewayOrder *payments.GatewayOrder
	if in.PaymentMethod.UsesGateway() {
		gatewayOrder, err = s.Gateway.CreateOrder(order.TotalAmount, order.OrderNumber)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPaymentGateway, err)
		}
		order.GatewayOrderID = gatewayOrder.ID
	}

	if err := s.charge(ctx, user, order); err != nil {
		return nil, err
	}

	assignment := s.Assigner.Assign(ctx, shipping)
	order.FranchiseID = assignment.FranchiseID
	order.ShippingLocation = assignment.Location

	if err := s.Orders.Create(ctx, order); err != nil {
		s.refund(ctx, order)
		return nil, err
	}

	if err := s.Users.ClearCart(ctx, userID); err != nil {
		s.Log.WithContext(ctx).Error("clear cart after order placement",
			logger.String("order_id", order.ID.Hex()), logger.Error(err))
		return nil, translate(err)
	}

	s.Log.WithContext(ctx).Info("order placed",
		logger.String("order_id", order.ID.Hex()),
		logger.String("order_number", order.OrderNumber),
		logger.Float64("total", order.TotalAmount),
		logger.Bool("assigned", order.FranchiseID != nil))

	topic := broadcast.TopicFranchiseBroadcast
	if order.FranchiseID != nil {
		topic = broadcast.FranchiseTopic(order.FranchiseID.Hex())
	}
	if err := s.Broadcaster.Publish(ctx, topic, broadcast.EventNewOrder, order); err != nil {
		s.Log.WithContext(ctx).Warn("broadcast new order", logger.Error(err))
	}

	return &PlacedOrder{Order: order, Gateway: gatewayOrder}, nil
}

func (s *CheckoutService) shippingAddress(ctx context.Context, userID primitive.ObjectID, in PlaceOrderInput) (string, error) {
	if in.AddressID != "" {
		id, err := primitive.ObjectIDFromHex(in.AddressID)
		if err != nil {
			return "", validation("invalid address id")
		}
		address, err := s.Addresses.FindForUser(ctx, id, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", validation("address not found")
			}
			return "", err
		}
		return address.Formatted(), nil
	}

	shipping := strings.TrimSpace(in.ShippingAddress)
	if shipping == "" {
		return "", validation("shippingAddress or addressId is required")
	}
	return shipping, nil
}

// priceCart snapshots every cart line at its resolved unit price.
func (s *CheckoutService) priceCart(ctx context.Context, cart []models.CartItem) ([]models.OrderItem, error) {
	ids := make([]primitive.ObjectID, 0, len(cart))
	for _, line := range cart {
		ids = append(ids, line.ProductID)
	}
	products, err := s.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(cart))
	for _, line := range cart {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, &ProductUnavailableError{ProductName: UnknownProductName}
		}
		if product.Status != models.ProductActive {
			return nil, &ProductUnavailableError{ProductName: product.Name}
		}
		if line.Quantity < 1 {
			return nil, validation("quantity for %s must be at least 1", product.Name)
		}
		items = append(items, orderItem(&product, line.Quantity))
	}
	return items, nil
}

func orderItem(product *models.Product, quantity int) models.OrderItem {
	price := pricing.ResolvePrice(product, quantity)
	return models.OrderItem{
		ProductID:  product.ID,
		Name:       product.Name,
		Image:      product.PrimaryImage(),
		Quantity:   quantity,
		Unit:       product.Unit,
		UnitPrice:  price.Price,
		Subtotal:   pricing.LineSubtotal(price.Price, quantity),
		IsBulkRate: price.IsBulkRate,
	}
}

func lineSubtotals(items []models.OrderItem) []float64 {
	out := make([]float64, 0, len(items))
	for _, item := range items {
		out = append(out, item.Subtotal)
	}
	return out
}

func (s *CheckoutService) charge(ctx context.Context, user *models.User, order *models.Order) error {
	switch order.PaymentMethod {
	case models.PaymentWallet:
		if user.WalletBalance < order.TotalAmount {
			return ErrInsufficientBalance
		}
		if err := s.Users.DebitWallet(ctx, user.ID, order.TotalAmount); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrInsufficientBalance
			}
			return err
		}
		order.PaymentStatus = models.PaymentCompleted
	case models.PaymentCredit:
		if user.AvailableCredit() < order.TotalAmount {
			return ErrInsufficientCredit
		}
		if err := s.Users.ChargeCredit(ctx, user.ID, order.TotalAmount); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrInsufficientCredit
			}
			return err
		}
		order.PaymentStatus = models.PaymentCompleted
	}
	return nil
}

func (s *CheckoutService) refund(ctx context.Context, order *models.Order) {
	var err error
	switch order.PaymentMethod {
	case models.PaymentWallet:
		err = s.Users.CreditWallet(ctx, order.UserID, order.TotalAmount)
	case models.PaymentCredit:
		err = s.Users.ReleaseCredit(ctx, order.UserID, order.TotalAmount)
	default:
		return
	}
	if err != nil {
		s.Log.WithContext(ctx).Error("refund after failed order write",
			logger.String("user_id", order.UserID.Hex()),
			logger.Float64("amount", order.TotalAmount),
			logger.Error(err))
	}
}

// VerifyPayment checks the gateway signature and marks the order paid.
func (s *CheckoutService) VerifyPayment(ctx context.Context, userID primitive.ObjectID, in VerifyPaymentInput) (*models.Order, error) {
	orderID, err := primitive.ObjectIDFromHex(in.OrderID)
	if err != nil {
		return nil, validation("invalid order id")
	}
	if in.GatewayOrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return nil, validation("razorpayOrderId, paymentId and signature are required")
	}
	if err := s.Gateway.VerifySignature(in.GatewayOrderID, in.PaymentID, in.Signature); err != nil {
		return nil, validation("payment signature verification failed")
	}

	order, err := s.Orders.MarkPaid(ctx, orderID, userID, in.GatewayOrderID, in.PaymentID)
	if err != nil {
		return nil, translate(err)
	}
	return order, nil
}
