package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Role string

const (
	RoleCustomer  Role = "customer"
	RoleFranchise Role = "franchise"
	RoleDelivery  Role = "delivery"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleFranchise, RoleDelivery, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated caller, resolved once from the bearer token.
type Actor struct {
	Role Role
	ID   primitive.ObjectID
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Audit tags written to statusHistory.updatedBy.
const (
	UpdatedByAdmin     = "masteradmin"
	UpdatedByFranchise = "franchise"
	UpdatedByDelivery  = "delivery"
	UpdatedByUser      = "user"
	UpdatedBySystem    = "system"
)

// AuditTag maps the role onto the statusHistory vocabulary.
func (a Actor) AuditTag() string {
	switch a.Role {
	case RoleAdmin:
		return UpdatedByAdmin
	case RoleFranchise:
		return UpdatedByFranchise
	case RoleDelivery:
		return UpdatedByDelivery
	case RoleCustomer:
		return UpdatedByUser
	}
	return UpdatedBySystem
}
