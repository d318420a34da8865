package entity

import "time"

// Cart is created lazily on a buyer's first add. One cart per buyer.
type Cart struct {
	ID        string
	BuyerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem holds a reserved quantity of a listing. Stock on the listing is
// decremented when the item is added, so the quantity here is already taken
// out of the listing's visible stock.
type CartItem struct {
	ID        string
	CartID    string
	ListingID string
	Quantity  float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine is a cart item enriched with listing details for presentation.
type CartLine struct {
	Item    CartItem
	Listing Listing
}

func (l CartLine) LineTotal() float64 {
	return l.Item.Quantity * l.Listing.PricePerUnit
}

// CartView is the buyer-facing cart with computed totals.
type CartView struct {
	BuyerID     string
	Lines       []CartLine
	TotalAmount float64
}
