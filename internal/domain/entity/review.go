package entity

import "time"

// Review is a buyer rating on an (order, listing, seller) triple, unique per
// triple. It feeds the rolling averages on the listing and seller profile.
type Review struct {
	ID        string
	OrderID   string
	ListingID string
	SellerID  string
	BuyerID   string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
