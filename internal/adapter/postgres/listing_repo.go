package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

const listingColumns = `id, seller_id, seller_type, seller_name, title, category, unit,
	price_per_unit, available_stock, min_order_quantity, delivery_charge,
	delivery_charge_type, is_available, rating_average, rating_count, created_at, updated_at`

func scanListing(row interface{ Scan(dest ...interface{}) error }) (*entity.Listing, error) {
	var l entity.Listing
	err := row.Scan(
		&l.ID, &l.SellerID, &l.SellerType, &l.SellerName, &l.Title, &l.Category, &l.Unit,
		&l.PricePerUnit, &l.AvailableStock, &l.MinOrderQuantity, &l.DeliveryCharge,
		&l.DeliveryChargeType, &l.IsAvailable, &l.RatingAverage, &l.RatingCount,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	_, err := q(ctx, r.db).ExecContext(ctx, `
		INSERT INTO listings (id, seller_id, seller_type, seller_name, title, category, unit,
			price_per_unit, available_stock, min_order_quantity, delivery_charge,
			delivery_charge_type, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		listing.ID, listing.SellerID, listing.SellerType, listing.SellerName, listing.Title,
		listing.Category, listing.Unit, listing.PricePerUnit, listing.AvailableStock,
		listing.MinOrderQuantity, listing.DeliveryCharge, listing.DeliveryChargeType,
		listing.IsAvailable, listing.CreatedAt, listing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

func (r *listingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listing.UpdatedAt = time.Now().UTC()
	res, err := q(ctx, r.db).ExecContext(ctx, `
		UPDATE listings SET title = $2, category = $3, unit = $4, price_per_unit = $5,
			available_stock = $6, min_order_quantity = $7, delivery_charge = $8,
			delivery_charge_type = $9, is_available = $10, updated_at = $11
		WHERE id = $1`,
		listing.ID, listing.Title, listing.Category, listing.Unit, listing.PricePerUnit,
		listing.AvailableStock, listing.MinOrderQuantity, listing.DeliveryCharge,
		listing.DeliveryChargeType, listing.IsAvailable, listing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing %s: %w", listing.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, listingID string) (*entity.Listing, error) {
	row := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = $1`, listingID)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing %s: %w", listingID, err)
	}
	return l, nil
}

func (r *listingRepository) GetByIDForUpdate(ctx context.Context, listingID string) (*entity.Listing, error) {
	row := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = $1 FOR UPDATE`, listingID)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock listing %s: %w", listingID, err)
	}
	return l, nil
}

func (r *listingRepository) AdjustStock(ctx context.Context, listingID string, delta float64) error {
	res, err := q(ctx, r.db).ExecContext(ctx, `
		UPDATE listings SET available_stock = available_stock + $2, updated_at = now()
		WHERE id = $1`,
		listingID, delta,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust stock for listing %s: %w", listingID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *listingRepository) UpdateRating(ctx context.Context, listingID string, average float64, count int) error {
	_, err := q(ctx, r.db).ExecContext(ctx, `
		UPDATE listings SET rating_average = $2, rating_count = $3, updated_at = now()
		WHERE id = $1`,
		listingID, average, count,
	)
	if err != nil {
		return fmt.Errorf("failed to update rating for listing %s: %w", listingID, err)
	}
	return nil
}

func (r *listingRepository) List(ctx context.Context, params repository.ListListingsParams) ([]entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE 1=1`
	args := make([]interface{}, 0, 4)
	if params.SellerID != "" {
		args = append(args, params.SellerID)
		query += fmt.Sprintf(" AND seller_id = $%d", len(args))
	}
	if params.OnlyAvailable {
		query += " AND is_available = TRUE AND available_stock > 0"
	}
	query += " ORDER BY created_at DESC"

	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, pageSize)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, (page-1)*pageSize)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := q(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var listings []entity.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listing rows: %w", err)
	}
	return listings, nil
}
