package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetOrCreateByBuyer(ctx context.Context, buyerID string) (*entity.Cart, error) {
	cart, err := r.GetByBuyer(ctx, buyerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	var c entity.Cart
	// ON CONFLICT guards against a concurrent first add by the same buyer.
	err = q(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO carts (id, buyer_id)
		VALUES ($1, $2)
		ON CONFLICT (buyer_id) DO UPDATE SET updated_at = now()
		RETURNING id, buyer_id, created_at, updated_at`,
		uuid.NewString(), buyerID,
	).Scan(&c.ID, &c.BuyerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart for buyer %s: %w", buyerID, err)
	}
	return &c, nil
}

func (r *cartRepository) GetByBuyer(ctx context.Context, buyerID string) (*entity.Cart, error) {
	var c entity.Cart
	err := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, buyer_id, created_at, updated_at FROM carts WHERE buyer_id = $1`,
		buyerID,
	).Scan(&c.ID, &c.BuyerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart for buyer %s: %w", buyerID, err)
	}
	return &c, nil
}

func (r *cartRepository) GetItem(ctx context.Context, cartID, listingID string) (*entity.CartItem, error) {
	var item entity.CartItem
	err := q(ctx, r.db).QueryRowContext(ctx, `
		SELECT id, cart_id, listing_id, quantity, created_at, updated_at
		FROM cart_items WHERE cart_id = $1 AND listing_id = $2`,
		cartID, listingID,
	).Scan(&item.ID, &item.CartID, &item.ListingID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return &item, nil
}

func (r *cartRepository) GetItems(ctx context.Context, cartID string) ([]entity.CartItem, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx, `
		SELECT id, cart_id, listing_id, quantity, created_at, updated_at
		FROM cart_items WHERE cart_id = $1 ORDER BY created_at`,
		cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	var items []entity.CartItem
	for rows.Next() {
		var item entity.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ListingID, &item.Quantity,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart item rows: %w", err)
	}
	return items, nil
}

func (r *cartRepository) UpsertItem(ctx context.Context, cartID, listingID string, addQuantity float64) error {
	_, err := q(ctx, r.db).ExecContext(ctx, `
		INSERT INTO cart_items (id, cart_id, listing_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, listing_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()`,
		uuid.NewString(), cartID, listingID, addQuantity,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) SetItemQuantity(ctx context.Context, cartID, listingID string, quantity float64) error {
	res, err := q(ctx, r.db).ExecContext(ctx, `
		UPDATE cart_items SET quantity = $3, updated_at = now()
		WHERE cart_id = $1 AND listing_id = $2`,
		cartID, listingID, quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID, listingID string) error {
	res, err := q(ctx, r.db).ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND listing_id = $2`,
		cartID, listingID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *cartRepository) DeleteItems(ctx context.Context, cartID string) error {
	_, err := q(ctx, r.db).ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}
