package models

// DeliveryConstraintsKey is the settings key holding DeliveryConstraints.
const DeliveryConstraintsKey = "delivery_constraints"

// DeliveryConstraints drive delivery fee and tax at checkout. Tax is a percentage.
type DeliveryConstraints struct {
	BaseFee float64 `json:"baseFee" bson:"baseFee"`
	FreeMov float64 `json:"freeMov" bson:"freeMov"`
	Tax     float64 `json:"tax" bson:"tax"`
}

// DefaultDeliveryConstraints apply when nothing is stored.
func DefaultDeliveryConstraints() DeliveryConstraints {
	return DeliveryConstraints{BaseFee: 40, FreeMov: 500, Tax: 5}
}
