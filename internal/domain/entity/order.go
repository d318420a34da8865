package entity

import "time"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

type OrderStatus string

const (
	OrderProcessing OrderStatus = "PROCESSING"
	OrderPacked     OrderStatus = "PACKED"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderInTransit  OrderStatus = "IN_TRANSIT"
	OrderDelivered  OrderStatus = "DELIVERED"
)

// ValidOrderStatus reports whether s is one of the five fulfilment statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderProcessing, OrderPacked, OrderShipped, OrderInTransit, OrderDelivered:
		return true
	}
	return false
}

type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "PENDING"
	PayoutFrozen    PayoutStatus = "FROZEN"
	PayoutCancelled PayoutStatus = "CANCELLED"
	PayoutSettled   PayoutStatus = "SETTLED"
)

type DisputeStatus string

const (
	DisputeNone     DisputeStatus = ""
	DisputeOpen     DisputeStatus = "OPEN"
	DisputeResolved DisputeStatus = "RESOLVED"
	DisputeRejected DisputeStatus = "REJECTED"
)

// Order is the immutable header created at checkout. Only the status fields,
// gateway/invoice references and the dispute/payout block change afterwards;
// amounts are frozen at creation.
type Order struct {
	ID             string
	BuyerID        string
	TotalAmount    float64
	PlatformFee    float64
	SellerAmount   float64
	PaymentStatus  PaymentStatus
	OrderStatus    OrderStatus
	PayoutStatus   PayoutStatus
	GatewayOrderID string
	InvoiceNumber  string

	DisputeStatus     DisputeStatus
	DisputeReason     string
	DisputeCreatedAt  *time.Time
	DisputeResolvedAt *time.Time

	PayoutSettledBy string
	PayoutSettledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem snapshots a cart line at purchase time. Price, delivery and
// seller fields stay frozen regardless of later listing edits.
type OrderItem struct {
	ID                           string
	OrderID                      string
	ListingID                    string
	ListingTitle                 string
	Unit                         string
	Quantity                     float64
	PriceAtPurchase              float64
	DeliveryChargeAtPurchase     float64
	DeliveryChargeTypeAtPurchase DeliveryChargeType
	SellerID                     string
	SellerType                   Role
	SellerName                   string
	CreatedAt                    time.Time
}

// DistinctSellerIDs returns the unique seller ids referenced by items,
// preserving first-seen order.
func DistinctSellerIDs(items []OrderItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.SellerID]; ok {
			continue
		}
		seen[it.SellerID] = struct{}{}
		ids = append(ids, it.SellerID)
	}
	return ids
}
