// Package payments wraps the Razorpay gateway used for UPI and card checkouts.
package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/configs"
)

var ErrInvalidSignature = errors.New("payment signature mismatch")

// GatewayOrder is what the client needs to open the checkout widget.
type GatewayOrder struct {
	ID       string `json:"razorpayOrderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// orderCreator is the subset of the Razorpay SDK used here.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type Razorpay struct {
	orders orderCreator
	cfg    configs.RazorpayConfig
}

func NewRazorpay(cfg configs.RazorpayConfig) *Razorpay {
	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	return &Razorpay{orders: client.Order, cfg: cfg}
}

// ToPaise converts rupees into the smallest currency unit.
func ToPaise(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateOrder registers amount (in rupees) with the gateway under receipt.
func (r *Razorpay) CreateOrder(amount float64, receipt string) (*GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   ToPaise(amount),
		"currency": r.cfg.Currency,
		"receipt":  receipt,
	}

	resp, err := r.orders.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("create razorpay order: %w", err)
	}

	id, _ := resp["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("create razorpay order: response has no id")
	}
	return &GatewayOrder{
		ID:       id,
		Amount:   ToPaise(amount),
		Currency: r.cfg.Currency,
		KeyID:    r.cfg.KeyID,
	}, nil
}

// VerifySignature checks the checkout callback signature,
// HMAC-SHA256(orderID + "|" + paymentID) keyed by the API secret.
func (r *Razorpay) VerifySignature(gatewayOrderID, paymentID, signature string) error {
	if !hmac.Equal([]byte(Sign(r.cfg.KeySecret, gatewayOrderID, paymentID)), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

func Sign(secret, gatewayOrderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}
