package entity

import "time"

type DeliveryChargeType string

const (
	DeliveryPerUnit DeliveryChargeType = "per_unit"
	DeliveryFlat    DeliveryChargeType = "flat"
)

// Listing is a sellable unit owned by a farmer or agent profile. The seller
// fields are denormalized here so order items can snapshot them at purchase
// time without a join against profile tables.
type Listing struct {
	ID                 string
	SellerID           string
	SellerType         Role
	SellerName         string
	Title              string
	Category           string
	Unit               string
	PricePerUnit       float64
	AvailableStock     float64
	MinOrderQuantity   float64
	DeliveryCharge     float64
	DeliveryChargeType DeliveryChargeType
	IsAvailable        bool
	RatingAverage      float64
	RatingCount        int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
