package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductStatus string

const (
	ProductDraft    ProductStatus = "draft"
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

func (s ProductStatus) Valid() bool {
	return s == ProductDraft || s == ProductActive || s == ProductInactive
}

// BulkTier overrides the base price once the ordered quantity reaches MinQty.
type BulkTier struct {
	MinQty int     `json:"minQty" bson:"minQty"`
	Price  float64 `json:"price" bson:"price"`
}

type Product struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name          string              `json:"name" bson:"name"`
	CategoryID    *primitive.ObjectID `json:"category,omitempty" bson:"category,omitempty"`
	SubcategoryID *primitive.ObjectID `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Description   string              `json:"description" bson:"description"`
	Unit          string              `json:"unit" bson:"unit"`
	Price         float64             `json:"price" bson:"price"`
	BulkPricing   []BulkTier          `json:"bulkPricing" bson:"bulkPricing"`
	Images        []string            `json:"images" bson:"images"`
	Status        ProductStatus       `json:"status" bson:"status"`
	// Stock is informational; franchise inventories are authoritative.
	Stock     int       `json:"stock" bson:"stock"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PrimaryImage returns the first image, or "" when the product has none.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
