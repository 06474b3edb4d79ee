package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FranchiseStatus string

const (
	FranchisePending FranchiseStatus = "pending"
	FranchiseActive  FranchiseStatus = "active"
	FranchiseBlocked FranchiseStatus = "blocked"
)

// Franchise is a fulfillment node. Location stays nil until geocoded.
type Franchise struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	ShopName  string             `json:"shopName" bson:"shopName"`
	OwnerName string             `json:"ownerName" bson:"ownerName"`
	Mobile    string             `json:"mobile" bson:"mobile"`
	Address   string             `json:"address" bson:"address"`
	Location  *GeoPoint          `json:"location" bson:"location"`
	Status    FranchiseStatus    `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type InventoryItem struct {
	ProductID    primitive.ObjectID `json:"productId" bson:"productId"`
	CurrentStock int                `json:"currentStock" bson:"currentStock"`
	MBQ          int                `json:"mbq" bson:"mbq"`
	LastUpdated  time.Time          `json:"lastUpdated" bson:"lastUpdated"`
}

// Inventory holds one franchise's stock rows; franchiseId is unique.
type Inventory struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FranchiseID primitive.ObjectID `json:"franchiseId" bson:"franchiseId"`
	Items       []InventoryItem    `json:"items" bson:"items"`
}

// Item returns the row for productID, if present.
func (inv *Inventory) Item(productID primitive.ObjectID) (InventoryItem, bool) {
	for _, item := range inv.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return InventoryItem{}, false
}
