package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPlaced     OrderStatus = "Placed"
	StatusPacked     OrderStatus = "Packed"
	StatusDispatched OrderStatus = "Dispatched"
	StatusDelivered  OrderStatus = "Delivered"
	StatusReceived   OrderStatus = "Received"
	StatusCancelled  OrderStatus = "Cancelled"
)

// orderTransitions is the adjacency graph non-admin actors must follow.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:     {StatusPacked, StatusCancelled},
	StatusPacked:     {StatusDispatched, StatusCancelled},
	StatusDispatched: {StatusDelivered, StatusCancelled},
	StatusDelivered:  {StatusReceived},
	StatusReceived:   {},
	StatusCancelled:  {},
}

// ParseOrderStatus returns false for anything outside the enum.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	_, ok := orderTransitions[status]
	return status, ok
}

func (s OrderStatus) Terminal() bool {
	return s == StatusReceived || s == StatusCancelled
}

// CanTransitionTo reports whether next is adjacent to s in the graph.
// Re-applying the current status is never adjacent.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentWallet PaymentMethod = "Wallet"
	PaymentCredit PaymentMethod = "Credit"
	PaymentUPI    PaymentMethod = "UPI"
	PaymentCard   PaymentMethod = "Card"
	PaymentCOD    PaymentMethod = "COD"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentWallet, PaymentCredit, PaymentUPI, PaymentCard, PaymentCOD:
		return true
	}
	return false
}

// UsesGateway reports whether the method settles through the payment gateway.
func (m PaymentMethod) UsesGateway() bool {
	return m == PaymentUPI || m == PaymentCard
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
)

// OrderItem is a price/name snapshot taken at checkout.
type OrderItem struct {
	ProductID  primitive.ObjectID `json:"productId" bson:"productId"`
	Name       string             `json:"name" bson:"name"`
	Image      string             `json:"image" bson:"image"`
	Quantity   int                `json:"quantity" bson:"quantity"`
	Unit       string             `json:"unit" bson:"unit"`
	UnitPrice  float64            `json:"unitPrice" bson:"unitPrice"`
	Subtotal   float64            `json:"lineSubtotal" bson:"lineSubtotal"`
	IsBulkRate bool               `json:"isBulkRate" bson:"isBulkRate"`
}

// StatusEntry is one append-only audit record.
type StatusEntry struct {
	Status    OrderStatus `json:"status" bson:"status"`
	UpdatedAt time.Time   `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy string      `json:"updatedBy" bson:"updatedBy"`
}

type GeoPoint struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

type Order struct {
	ID                primitive.ObjectID  `json:"id" bson:"_id"`
	OrderNumber       string              `json:"orderNumber" bson:"orderNumber"`
	UserID            primitive.ObjectID  `json:"userId" bson:"userId"`
	FranchiseID       *primitive.ObjectID `json:"franchiseId" bson:"franchiseId"`
	DeliveryPartnerID *primitive.ObjectID `json:"deliveryPartnerId" bson:"deliveryPartnerId"`
	Items             []OrderItem         `json:"items" bson:"items"`

	Subtotal    float64 `json:"subtotal" bson:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee" bson:"deliveryFee"`
	Tax         float64 `json:"tax" bson:"tax"`
	TotalAmount float64 `json:"totalAmount" bson:"totalAmount"`

	PaymentMethod  PaymentMethod `json:"paymentMethod" bson:"paymentMethod"`
	PaymentStatus  PaymentStatus `json:"paymentStatus" bson:"paymentStatus"`
	GatewayOrderID string        `json:"razorpayOrderId,omitempty" bson:"razorpayOrderId,omitempty"`
	PaymentID      string        `json:"paymentId,omitempty" bson:"paymentId,omitempty"`

	OrderStatus   OrderStatus   `json:"orderStatus" bson:"orderStatus"`
	StatusHistory []StatusEntry `json:"statusHistory" bson:"statusHistory"`

	ShippingAddress  string    `json:"shippingAddress" bson:"shippingAddress"`
	ShippingLocation *GeoPoint `json:"shippingLocation" bson:"shippingLocation"`

	DeliveredAt   *time.Time `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	StockDeducted bool       `json:"-" bson:"stockDeducted"`
	Version       int64      `json:"-" bson:"version"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// IsAssignedTo reports whether franchiseID fulfils the order.
func (o *Order) IsAssignedTo(franchiseID primitive.ObjectID) bool {
	return o.FranchiseID != nil && *o.FranchiseID == franchiseID
}

// IsDeliveredBy reports whether partnerID is the assigned delivery partner.
func (o *Order) IsDeliveredBy(partnerID primitive.ObjectID) bool {
	return o.DeliveryPartnerID != nil && *o.DeliveryPartnerID == partnerID
}

// StockLine is a product/quantity pair moved in or out of inventory.
type StockLine struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

// StockLines projects the order items into inventory movements.
func (o *Order) StockLines() []StockLine {
	lines := make([]StockLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, StockLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}
