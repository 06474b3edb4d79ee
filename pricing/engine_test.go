package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
)

func tomatoes() *models.Product {
	return &models.Product{
		Name:  "Tomato",
		Price: 100,
		BulkPricing: []models.BulkTier{
			{MinQty: 5, Price: 90},
			{MinQty: 20, Price: 80},
			{MinQty: 10, Price: 85},
		},
	}
}

func TestResolvePrice(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     Resolution
	}{
		{"below every tier", 3, Resolution{Price: 100}},
		{"exactly first tier", 5, Resolution{Price: 90, IsBulkRate: true}},
		{"between tiers", 12, Resolution{Price: 85, IsBulkRate: true}},
		{"largest tier", 50, Resolution{Price: 80, IsBulkRate: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePrice(tomatoes(), tt.quantity))
		})
	}
}

func TestResolvePrice_NoTiers(t *testing.T) {
	p := &models.Product{Price: 42}
	assert.Equal(t, Resolution{Price: 42}, ResolvePrice(p, 1000))
}

func TestResolvePrice_DoesNotReorderProduct(t *testing.T) {
	p := tomatoes()
	ResolvePrice(p, 7)
	assert.Equal(t, 5, p.BulkPricing[0].MinQty)
}

func TestResolvePrice_NeverAboveBaseWhenTierMatches(t *testing.T) {
	p := tomatoes()
	for q := 1; q <= 60; q++ {
		res := ResolvePrice(p, q)
		if q >= 5 {
			assert.True(t, res.IsBulkRate)
			assert.LessOrEqual(t, res.Price, p.Price)
		} else {
			assert.Equal(t, p.Price, res.Price)
		}
	}
}

func TestTotals_BelowFreeShipping(t *testing.T) {
	p := &models.Product{Price: 100, BulkPricing: []models.BulkTier{{MinQty: 5, Price: 90}}}
	res := ResolvePrice(p, 3)

	b := Totals([]float64{LineSubtotal(res.Price, 3)}, models.DefaultDeliveryConstraints())

	assert.Equal(t, Breakdown{Subtotal: 300, DeliveryFee: 40, Tax: 17, Total: 357}, b)
}

func TestTotals_BulkTierAndFreeShipping(t *testing.T) {
	p := &models.Product{Price: 100, BulkPricing: []models.BulkTier{{MinQty: 5, Price: 90}}}
	res := ResolvePrice(p, 10)

	b := Totals([]float64{LineSubtotal(res.Price, 10)}, models.DefaultDeliveryConstraints())

	assert.Equal(t, Breakdown{Subtotal: 900, DeliveryFee: 0, Tax: 45, Total: 945}, b)
}

func TestTotals_RoundingInvariant(t *testing.T) {
	c := models.DeliveryConstraints{BaseFee: 39.99, FreeMov: 1000, Tax: 18}
	lines := []float64{LineSubtotal(33.33, 3), LineSubtotal(0.1, 7), LineSubtotal(12.345, 1)}

	b := Totals(lines, c)

	assert.Equal(t, Round2(b.Subtotal+b.DeliveryFee+b.Tax), b.Total)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, 2.35, Round2(2.345))
	assert.Equal(t, 17.0, Round2(340*0.05))
}

func TestValidateTiers(t *testing.T) {
	_, ok := ValidateTiers(100, []models.BulkTier{{MinQty: 5, Price: 90}})
	assert.True(t, ok)

	bad, ok := ValidateTiers(100, []models.BulkTier{{MinQty: 5, Price: 90}, {MinQty: 0, Price: 50}})
	assert.False(t, ok)
	assert.Equal(t, 0, bad.MinQty)

	_, ok = ValidateTiers(100, []models.BulkTier{{MinQty: 5, Price: 110}})
	assert.False(t, ok)
}
