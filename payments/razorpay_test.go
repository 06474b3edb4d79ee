package payments

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/configs"
)

type mockOrders struct {
	mock.Mock
}

func (m *mockOrders) Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error) {
	args := m.Called(data, extraHeaders)
	resp, _ := args.Get(0).(map[string]interface{})
	return resp, args.Error(1)
}

func newTestGateway(orders orderCreator) *Razorpay {
	return &Razorpay{
		orders: orders,
		cfg:    configs.RazorpayConfig{KeyID: "rzp_test", KeySecret: "secret", Currency: "INR"},
	}
}

func TestToPaise(t *testing.T) {
	assert.Equal(t, int64(35700), ToPaise(357))
	assert.Equal(t, int64(1999), ToPaise(19.99))
	assert.Equal(t, int64(1), ToPaise(0.005))
}

func TestCreateOrder(t *testing.T) {
	orders := new(mockOrders)
	orders.On("Create", map[string]interface{}{
		"amount":   int64(94500),
		"currency": "INR",
		"receipt":  "KK-1",
	}, map[string]string(nil)).Return(map[string]interface{}{"id": "order_abc"}, nil)

	got, err := newTestGateway(orders).CreateOrder(945, "KK-1")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", got.ID)
	assert.Equal(t, int64(94500), got.Amount)
	assert.Equal(t, "rzp_test", got.KeyID)
	orders.AssertExpectations(t)
}

func TestCreateOrder_GatewayError(t *testing.T) {
	orders := new(mockOrders)
	orders.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("bad key"))

	_, err := newTestGateway(orders).CreateOrder(10, "KK-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

func TestVerifySignature(t *testing.T) {
	gw := newTestGateway(nil)
	valid := Sign("secret", "order_abc", "pay_1")

	assert.NoError(t, gw.VerifySignature("order_abc", "pay_1", valid))
	assert.ErrorIs(t, gw.VerifySignature("order_abc", "pay_2", valid), ErrInvalidSignature)
	assert.ErrorIs(t, gw.VerifySignature("order_abc", "pay_1", "deadbeef"), ErrInvalidSignature)
}
