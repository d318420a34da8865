package repository

import (
	"context"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
)

type ReviewRepository interface {
	// Create returns ErrDuplicate when a review already exists for the
	// (order, listing, buyer) triple.
	Create(ctx context.Context, review *entity.Review) error
	ListByListing(ctx context.Context, listingID string, limit, offset int) ([]entity.Review, error)
	AggregateForListing(ctx context.Context, listingID string) (average float64, count int, err error)
	AggregateForSeller(ctx context.Context, sellerID string) (average float64, count int, err error)
}
