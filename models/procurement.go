package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProcurementStatus string

const (
	ProcurementPendingAssignment ProcurementStatus = "pending_assignment"
	ProcurementAssigned          ProcurementStatus = "assigned"
	ProcurementCompleted         ProcurementStatus = "completed"
	ProcurementRejected          ProcurementStatus = "rejected"
)

type ProcurementItem struct {
	ProductID        primitive.ObjectID `json:"productId" bson:"productId"`
	Name             string             `json:"name" bson:"name"`
	Unit             string             `json:"unit" bson:"unit"`
	Quantity         int                `json:"quantity" bson:"quantity"`
	ReceivedQuantity *int               `json:"receivedQuantity,omitempty" bson:"receivedQuantity,omitempty"`
}

// ProcurementRequest is a franchise-initiated restock order fulfilled by a vendor.
type ProcurementRequest struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id"`
	FranchiseID      primitive.ObjectID  `json:"franchiseId" bson:"franchiseId"`
	Items            []ProcurementItem   `json:"items" bson:"items"`
	Status           ProcurementStatus   `json:"status" bson:"status"`
	AssignedVendorID *primitive.ObjectID `json:"assignedVendorId" bson:"assignedVendorId"`
	CreatedAt        time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt" bson:"updatedAt"`
}
