package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	_, err := q(ctx, r.db).ExecContext(ctx, `
		INSERT INTO reviews (id, order_id, listing_id, seller_id, buyer_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		review.ID, review.OrderID, review.ListingID, review.SellerID, review.BuyerID,
		review.Rating, review.Comment, review.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

func (r *reviewRepository) ListByListing(ctx context.Context, listingID string, limit, offset int) ([]entity.Review, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := q(ctx, r.db).QueryContext(ctx, `
		SELECT id, order_id, listing_id, seller_id, buyer_id, rating, comment, created_at
		FROM reviews WHERE listing_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		listingID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for listing %s: %w", listingID, err)
	}
	defer rows.Close()

	var reviews []entity.Review
	for rows.Next() {
		var rv entity.Review
		if err := rows.Scan(&rv.ID, &rv.OrderID, &rv.ListingID, &rv.SellerID, &rv.BuyerID,
			&rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review rows: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) AggregateForListing(ctx context.Context, listingID string) (float64, int, error) {
	return r.aggregate(ctx, `SELECT COALESCE(avg(rating), 0), count(*) FROM reviews WHERE listing_id = $1`, listingID)
}

func (r *reviewRepository) AggregateForSeller(ctx context.Context, sellerID string) (float64, int, error) {
	return r.aggregate(ctx, `SELECT COALESCE(avg(rating), 0), count(*) FROM reviews WHERE seller_id = $1`, sellerID)
}

func (r *reviewRepository) aggregate(ctx context.Context, query, id string) (float64, int, error) {
	var average sql.NullFloat64
	var count int
	if err := q(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&average, &count); err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	return average.Float64, count, nil
}
