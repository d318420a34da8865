package repository

import (
	"context"
	"time"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
)

type ListListingsParams struct {
	SellerID      string
	OnlyAvailable bool
	Page          int
	PageSize      int
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	Update(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, listingID string) (*entity.Listing, error)
	// GetByIDForUpdate locks the listing row for the duration of the
	// surrounding transaction. Must be called with a TxManager context.
	GetByIDForUpdate(ctx context.Context, listingID string) (*entity.Listing, error)
	// AdjustStock applies availableStock += delta. Callers are responsible
	// for holding the row lock and for keeping the result non-negative.
	AdjustStock(ctx context.Context, listingID string, delta float64) error
	UpdateRating(ctx context.Context, listingID string, average float64, count int) error
	List(ctx context.Context, params ListListingsParams) ([]entity.Listing, error)
}

// ListingCache is a read-path TTL cache of listing details. Never consulted
// on the stock mutation path.
type ListingCache interface {
	Get(ctx context.Context, listingID string) (*entity.Listing, error)
	Set(ctx context.Context, listingID string, listing *entity.Listing, ttl time.Duration) error
	Delete(ctx context.Context, listingID string) error
}
