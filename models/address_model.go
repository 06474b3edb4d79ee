package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	Id             primitive.ObjectID `json:"id" bson:"_id"`
	UserId         primitive.ObjectID `json:"userId" bson:"userId"`
	StreetAddress  string             `json:"streetAddress" bson:"streetAddress"`
	City           string             `json:"city" bson:"city"`
	State          string             `json:"state" bson:"state"`
	ZipCode        string             `json:"zipCode" bson:"zipCode"`
	IsUserSelected bool               `json:"isUserSelected" bson:"isUserSelected"`
}

// Formatted joins the non-empty parts into the single line used for shipping and geocoding.
func (a *Address) Formatted() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.StreetAddress, a.City, a.State, a.ZipCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
