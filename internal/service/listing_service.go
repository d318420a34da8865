package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

type ListingParams struct {
	Title              string
	Category           string
	Unit               string
	PricePerUnit       float64
	AvailableStock     float64
	MinOrderQuantity   float64
	DeliveryCharge     float64
	DeliveryChargeType entity.DeliveryChargeType
	IsAvailable        bool
}

type ListingService interface {
	CreateListing(ctx context.Context, actor entity.Actor, params ListingParams) (*entity.Listing, error)
	UpdateListing(ctx context.Context, actor entity.Actor, listingID string, params ListingParams) (*entity.Listing, error)
	GetListing(ctx context.Context, listingID string) (*entity.Listing, error)
	ListListings(ctx context.Context, params repository.ListListingsParams) ([]entity.Listing, error)
}

type listingService struct {
	txManager    repository.TxManager
	listingRepo  repository.ListingRepository
	userRepo     repository.UserRepository
	listingCache repository.ListingCache
	cacheTTL     time.Duration
	log          logger.Logger
}

func NewListingService(
	txManager repository.TxManager,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	listingCache repository.ListingCache,
	cacheTTL time.Duration,
	log logger.Logger,
) ListingService {
	return &listingService{
		txManager:    txManager,
		listingRepo:  listingRepo,
		userRepo:     userRepo,
		listingCache: listingCache,
		cacheTTL:     cacheTTL,
		log:          log,
	}
}

func validateListingParams(params ListingParams) error {
	if params.Title == "" || params.Unit == "" {
		return fmt.Errorf("%w: title and unit are required", domain.ErrInvalidInput)
	}
	if params.PricePerUnit <= 0 {
		return fmt.Errorf("%w: price per unit must be positive", domain.ErrInvalidInput)
	}
	if params.AvailableStock < 0 || params.MinOrderQuantity < 0 || params.DeliveryCharge < 0 {
		return fmt.Errorf("%w: stock, minimum quantity and delivery charge cannot be negative", domain.ErrInvalidInput)
	}
	if params.DeliveryChargeType != entity.DeliveryPerUnit && params.DeliveryChargeType != entity.DeliveryFlat {
		return fmt.Errorf("%w: delivery charge type must be per_unit or flat", domain.ErrInvalidInput)
	}
	return nil
}

func (s *listingService) CreateListing(ctx context.Context, actor entity.Actor, params ListingParams) (*entity.Listing, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if !actor.Role.IsSeller() {
		return nil, domain.ErrUnauthorized
	}
	if err := validateListingParams(params); err != nil {
		return nil, err
	}

	seller, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: seller profile %s", domain.ErrNotFound, actor.ID)
		}
		return nil, fmt.Errorf("failed to load seller %s: %w", actor.ID, err)
	}

	listing := &entity.Listing{
		ID:                 uuid.NewString(),
		SellerID:           seller.ID,
		SellerType:         seller.Role,
		SellerName:         seller.Name,
		Title:              params.Title,
		Category:           params.Category,
		Unit:               params.Unit,
		PricePerUnit:       params.PricePerUnit,
		AvailableStock:     params.AvailableStock,
		MinOrderQuantity:   params.MinOrderQuantity,
		DeliveryCharge:     params.DeliveryCharge,
		DeliveryChargeType: params.DeliveryChargeType,
		IsAvailable:        params.IsAvailable,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	s.log.Infof("Seller %s created listing %s (%s)", seller.ID, listing.ID, listing.Title)
	return listing, nil
}

func (s *listingService) UpdateListing(ctx context.Context, actor entity.Actor, listingID string, params ListingParams) (*entity.Listing, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if err := validateListingParams(params); err != nil {
		return nil, err
	}

	var listing *entity.Listing
	// The row lock serializes the edit against concurrent cart reservations
	// on the same listing.
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		listing, err = s.listingRepo.GetByIDForUpdate(ctx, listingID)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: listing %s", domain.ErrNotFound, listingID)
			}
			return fmt.Errorf("failed to lock listing %s: %w", listingID, err)
		}
		if listing.SellerID != actor.ID && !actor.Role.IsAdmin() {
			return domain.ErrUnauthorized
		}

		listing.Title = params.Title
		listing.Category = params.Category
		listing.Unit = params.Unit
		listing.PricePerUnit = params.PricePerUnit
		listing.AvailableStock = params.AvailableStock
		listing.MinOrderQuantity = params.MinOrderQuantity
		listing.DeliveryCharge = params.DeliveryCharge
		listing.DeliveryChargeType = params.DeliveryChargeType
		listing.IsAvailable = params.IsAvailable
		if err := s.listingRepo.Update(ctx, listing); err != nil {
			return fmt.Errorf("failed to update listing %s: %w", listingID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.listingCache != nil {
		if err := s.listingCache.Delete(ctx, listingID); err != nil {
			s.log.Warnf("Failed to invalidate cached listing %s: %v", listingID, err)
		}
	}
	return listing, nil
}

func (s *listingService) GetListing(ctx context.Context, listingID string) (*entity.Listing, error) {
	if listingID == "" {
		return nil, fmt.Errorf("%w: listing id is required", domain.ErrInvalidInput)
	}
	if s.listingCache != nil {
		if listing, err := s.listingCache.Get(ctx, listingID); err == nil {
			return listing, nil
		}
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: listing %s", domain.ErrNotFound, listingID)
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

func (s *listingService) ListListings(ctx context.Context, params repository.ListListingsParams) ([]entity.Listing, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	listings, err := s.listingRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}
