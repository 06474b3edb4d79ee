// Package pricing resolves unit prices from bulk tiers and derives order totals.
package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
)

// Resolution is the unit price that applies to a requested quantity.
type Resolution struct {
	Price      float64
	IsBulkRate bool
}

// ResolvePrice picks the tier with the largest minQty not above quantity.
// Without a matching tier the base price applies.
func ResolvePrice(product *models.Product, quantity int) Resolution {
	if len(product.BulkPricing) == 0 {
		return Resolution{Price: product.Price}
	}

	tiers := make([]models.BulkTier, len(product.BulkPricing))
	copy(tiers, product.BulkPricing)
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].MinQty > tiers[j].MinQty
	})

	for _, tier := range tiers {
		if quantity >= tier.MinQty {
			return Resolution{Price: tier.Price, IsBulkRate: true}
		}
	}
	return Resolution{Price: product.Price}
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// LineSubtotal is unit price times quantity, rounded to two decimals.
func LineSubtotal(unitPrice float64, quantity int) float64 {
	return decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		InexactFloat64()
}

// Breakdown holds the derived money fields of an order.
type Breakdown struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"totalAmount"`
}

// Totals applies the delivery fee threshold and the tax percentage to subtotal.
// Total always equals Round2(Subtotal+DeliveryFee+Tax).
func Totals(lineSubtotals []float64, constraints models.DeliveryConstraints) Breakdown {
	subtotal := decimal.Zero
	for _, s := range lineSubtotals {
		subtotal = subtotal.Add(decimal.NewFromFloat(s))
	}
	subtotal = subtotal.Round(2)

	fee := decimal.NewFromFloat(constraints.BaseFee)
	if subtotal.GreaterThanOrEqual(decimal.NewFromFloat(constraints.FreeMov)) {
		fee = decimal.Zero
	}

	rate := decimal.NewFromFloat(constraints.Tax).Div(decimal.NewFromInt(100))
	tax := subtotal.Add(fee).Mul(rate).Round(2)
	total := subtotal.Add(fee).Add(tax).Round(2)

	return Breakdown{
		Subtotal:    subtotal.InexactFloat64(),
		DeliveryFee: fee.Round(2).InexactFloat64(),
		Tax:         tax.InexactFloat64(),
		Total:       total.InexactFloat64(),
	}
}

// ValidateTiers reports the first tier that would break the pricing rules:
// minQty must be at least 1 and a tier may not cost more than the base price.
func ValidateTiers(basePrice float64, tiers []models.BulkTier) (models.BulkTier, bool) {
	for _, tier := range tiers {
		if tier.MinQty < 1 || tier.Price <= 0 || tier.Price > basePrice {
			return tier, false
		}
	}
	return models.BulkTier{}, true
}
