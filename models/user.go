package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone" json:"phone"`
	WalletBalance float64            `bson:"walletBalance" json:"walletBalance"`
	CreditLimit   float64            `bson:"creditLimit" json:"creditLimit"`
	UsedCredit    float64            `bson:"usedCredit" json:"usedCredit"`
	Cart          []CartItem         `bson:"cart" json:"cart"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// AvailableCredit is the unused part of the credit line.
func (u *User) AvailableCredit() float64 {
	return u.CreditLimit - u.UsedCredit
}

type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}
