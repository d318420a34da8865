package entity

import "time"

// OrderTracking is one entry in the append-only fulfilment log. The order's
// current status is always the status of the most recent entry.
type OrderTracking struct {
	ID               string
	OrderID          string
	Status           OrderStatus
	Notes            string
	TransportMode    string
	VehicleNumber    string
	DriverContact    string
	Location         string
	ExpectedDelivery *time.Time
	CreatedBy        string
	CreatedAt        time.Time
}

// TrackingMeta carries the optional seller-authored fields of an update.
type TrackingMeta struct {
	Notes            string
	TransportMode    string
	VehicleNumber    string
	DriverContact    string
	Location         string
	ExpectedDelivery *time.Time
}
