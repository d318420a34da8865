package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

// CartService reserves stock at add time. Quantities sitting in a cart are
// already subtracted from the listing's available stock, and are returned to
// it when the line shrinks or is removed. Reservations do not expire.
type CartService interface {
	AddItem(ctx context.Context, actor entity.Actor, listingID string, quantity float64) (*entity.CartView, error)
	UpdateItemQuantity(ctx context.Context, actor entity.Actor, listingID string, quantity float64) (*entity.CartView, error)
	RemoveItem(ctx context.Context, actor entity.Actor, listingID string) (*entity.CartView, error)
	GetCart(ctx context.Context, actor entity.Actor) (*entity.CartView, error)
}

type cartService struct {
	txManager    repository.TxManager
	cartRepo     repository.CartRepository
	listingRepo  repository.ListingRepository
	listingCache repository.ListingCache
	cacheTTL     time.Duration
	log          logger.Logger
}

func NewCartService(
	txManager repository.TxManager,
	cartRepo repository.CartRepository,
	listingRepo repository.ListingRepository,
	listingCache repository.ListingCache,
	cacheTTL time.Duration,
	log logger.Logger,
) CartService {
	return &cartService{
		txManager:    txManager,
		cartRepo:     cartRepo,
		listingRepo:  listingRepo,
		listingCache: listingCache,
		cacheTTL:     cacheTTL,
		log:          log,
	}
}

func (s *cartService) AddItem(ctx context.Context, actor entity.Actor, listingID string, quantity float64) (*entity.CartView, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if listingID == "" || quantity <= 0 {
		return nil, fmt.Errorf("%w: listing id and a positive quantity are required", domain.ErrInvalidInput)
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		listing, err := s.listingRepo.GetByIDForUpdate(ctx, listingID)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: listing %s", domain.ErrNotFound, listingID)
			}
			return fmt.Errorf("failed to lock listing %s: %w", listingID, err)
		}
		if !listing.IsAvailable {
			return fmt.Errorf("%w: listing is not available", domain.ErrInvalidInput)
		}
		if quantity < listing.MinOrderQuantity {
			return fmt.Errorf("%w: minimum order quantity for this listing is %g %s",
				domain.ErrInvalidInput, listing.MinOrderQuantity, listing.Unit)
		}
		if quantity > listing.AvailableStock {
			return fmt.Errorf("%w: only %g %s available", domain.ErrOutOfStock, listing.AvailableStock, listing.Unit)
		}

		cart, err := s.cartRepo.GetOrCreateByBuyer(ctx, actor.ID)
		if err != nil {
			return fmt.Errorf("failed to get cart for buyer %s: %w", actor.ID, err)
		}
		if err := s.cartRepo.UpsertItem(ctx, cart.ID, listingID, quantity); err != nil {
			return fmt.Errorf("failed to add item to cart %s: %w", cart.ID, err)
		}
		if err := s.listingRepo.AdjustStock(ctx, listingID, -quantity); err != nil {
			return fmt.Errorf("failed to reserve stock on listing %s: %w", listingID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, listingID)
	s.log.Infof("Buyer %s reserved %g of listing %s", actor.ID, quantity, listingID)
	return s.buildCartView(ctx, actor.ID)
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, actor entity.Actor, listingID string, quantity float64) (*entity.CartView, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if listingID == "" || quantity <= 0 {
		return nil, fmt.Errorf("%w: listing id and a positive quantity are required", domain.ErrInvalidInput)
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		listing, err := s.listingRepo.GetByIDForUpdate(ctx, listingID)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: listing %s", domain.ErrNotFound, listingID)
			}
			return fmt.Errorf("failed to lock listing %s: %w", listingID, err)
		}
		if quantity < listing.MinOrderQuantity {
			return fmt.Errorf("%w: minimum order quantity for this listing is %g %s",
				domain.ErrInvalidInput, listing.MinOrderQuantity, listing.Unit)
		}

		cart, err := s.cartRepo.GetByBuyer(ctx, actor.ID)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: cart item", domain.ErrNotFound)
			}
			return fmt.Errorf("failed to get cart for buyer %s: %w", actor.ID, err)
		}
		item, err := s.cartRepo.GetItem(ctx, cart.ID, listingID)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: cart item", domain.ErrNotFound)
			}
			return fmt.Errorf("failed to get cart item: %w", err)
		}

		delta := quantity - item.Quantity
		if delta > listing.AvailableStock {
			return fmt.Errorf("%w: only %g %s available", domain.ErrOutOfStock, listing.AvailableStock, listing.Unit)
		}
		if err := s.cartRepo.SetItemQuantity(ctx, cart.ID, listingID, quantity); err != nil {
			return fmt.Errorf("failed to update cart item quantity: %w", err)
		}
		if delta != 0 {
			if err := s.listingRepo.AdjustStock(ctx, listingID, -delta); err != nil {
				return fmt.Errorf("failed to adjust stock on listing %s: %w", listingID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, listingID)
	return s.buildCartView(ctx, actor.ID)
}

func (s *cartService) RemoveItem(ctx context.Context, actor entity.Actor, listingID string) (*entity.CartView, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if listingID == "" {
		return nil, fmt.Errorf("%w: listing id is required", domain.ErrInvalidInput)
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		cart, err := s.cartRepo.GetByBuyer(ctx, actor.ID)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: cart item", domain.ErrNotFound)
			}
			return fmt.Errorf("failed to get cart for buyer %s: %w", actor.ID, err)
		}
		item, err := s.cartRepo.GetItem(ctx, cart.ID, listingID)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: cart item", domain.ErrNotFound)
			}
			return fmt.Errorf("failed to get cart item: %w", err)
		}
		if err := s.cartRepo.DeleteItem(ctx, cart.ID, listingID); err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		// Reservation goes back to the listing. The listing may have been
		// deleted since; a missing row is not an error here.
		if err := s.listingRepo.AdjustStock(ctx, listingID, item.Quantity); err != nil && !isNotFound(err) {
			return fmt.Errorf("failed to restore stock on listing %s: %w", listingID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, listingID)
	return s.buildCartView(ctx, actor.ID)
}

func (s *cartService) GetCart(ctx context.Context, actor entity.Actor) (*entity.CartView, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	return s.buildCartView(ctx, actor.ID)
}

// buildCartView enriches the cart's raw lines with listing details and sums
// the product total. Delivery and platform fee are computed at checkout, not
// here.
func (s *cartService) buildCartView(ctx context.Context, buyerID string) (*entity.CartView, error) {
	view := &entity.CartView{BuyerID: buyerID, Lines: []entity.CartLine{}}

	cart, err := s.cartRepo.GetByBuyer(ctx, buyerID)
	if err != nil {
		if isNotFound(err) {
			return view, nil
		}
		return nil, fmt.Errorf("failed to get cart for buyer %s: %w", buyerID, err)
	}
	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	for _, item := range items {
		listing, err := s.getListing(ctx, item.ListingID)
		if err != nil {
			if isNotFound(err) {
				s.log.Warnf("Cart %s references missing listing %s, skipping line", cart.ID, item.ListingID)
				continue
			}
			return nil, err
		}
		line := entity.CartLine{Item: item, Listing: *listing}
		view.Lines = append(view.Lines, line)
		view.TotalAmount += line.LineTotal()
	}
	return view, nil
}

func (s *cartService) getListing(ctx context.Context, listingID string) (*entity.Listing, error) {
	if s.listingCache != nil {
		if listing, err := s.listingCache.Get(ctx, listingID); err == nil {
			return listing, nil
		}
	}
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing %s: %w", listingID, err)
	}
	if s.listingCache != nil {
		if err := s.listingCache.Set(ctx, listingID, listing, s.cacheTTL); err != nil {
			s.log.Warnf("Failed to cache listing %s: %v", listingID, err)
		}
	}
	return listing, nil
}

func (s *cartService) invalidateListing(ctx context.Context, listingID string) {
	if s.listingCache == nil {
		return
	}
	if err := s.listingCache.Delete(ctx, listingID); err != nil {
		s.log.Warnf("Failed to invalidate cached listing %s: %v", listingID, err)
	}
}
