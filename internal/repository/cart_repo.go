package repository

import (
	"context"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
)

type CartRepository interface {
	// GetOrCreateByBuyer returns the buyer's cart, creating it lazily.
	GetOrCreateByBuyer(ctx context.Context, buyerID string) (*entity.Cart, error)
	GetByBuyer(ctx context.Context, buyerID string) (*entity.Cart, error)
	GetItem(ctx context.Context, cartID, listingID string) (*entity.CartItem, error)
	GetItems(ctx context.Context, cartID string) ([]entity.CartItem, error)
	// UpsertItem inserts the (cart, listing) line or increments its quantity.
	UpsertItem(ctx context.Context, cartID, listingID string, addQuantity float64) error
	SetItemQuantity(ctx context.Context, cartID, listingID string, quantity float64) error
	DeleteItem(ctx context.Context, cartID, listingID string) error
	DeleteItems(ctx context.Context, cartID string) error
}
