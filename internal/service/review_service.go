package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

type CreateReviewParams struct {
	OrderID   string
	ListingID string
	Rating    int
	Comment   string
}

// ReviewService accepts one review per (order, listing, buyer) triple, only
// after delivery, and folds each new rating into the rolling averages on the
// listing and the seller profile.
type ReviewService interface {
	CreateReview(ctx context.Context, actor entity.Actor, params CreateReviewParams) (*entity.Review, error)
	ListForListing(ctx context.Context, listingID string, page, pageSize int) ([]entity.Review, error)
}

type reviewService struct {
	txManager    repository.TxManager
	reviewRepo   repository.ReviewRepository
	orderRepo    repository.OrderRepository
	listingRepo  repository.ListingRepository
	userRepo     repository.UserRepository
	listingCache repository.ListingCache
	log          logger.Logger
}

func NewReviewService(
	txManager repository.TxManager,
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	listingCache repository.ListingCache,
	log logger.Logger,
) ReviewService {
	return &reviewService{
		txManager:    txManager,
		reviewRepo:   reviewRepo,
		orderRepo:    orderRepo,
		listingRepo:  listingRepo,
		userRepo:     userRepo,
		listingCache: listingCache,
		log:          log,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, actor entity.Actor, params CreateReviewParams) (*entity.Review, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if params.Rating < 1 || params.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	if params.OrderID == "" || params.ListingID == "" {
		return nil, fmt.Errorf("%w: order id and listing id are required", domain.ErrInvalidInput)
	}

	order, err := s.orderRepo.GetByID(ctx, params.OrderID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, params.OrderID)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", params.OrderID, err)
	}
	if order.BuyerID != actor.ID {
		return nil, domain.ErrUnauthorized
	}
	if order.OrderStatus != entity.OrderDelivered {
		return nil, fmt.Errorf("%w: only delivered orders can be reviewed", domain.ErrInvalidInput)
	}

	items, err := s.orderRepo.GetItems(ctx, params.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items of order %s: %w", params.OrderID, err)
	}
	var sellerID string
	for _, it := range items {
		if it.ListingID == params.ListingID {
			sellerID = it.SellerID
			break
		}
	}
	if sellerID == "" {
		return nil, fmt.Errorf("%w: listing %s is not part of order %s", domain.ErrInvalidInput, params.ListingID, params.OrderID)
	}

	review := &entity.Review{
		ID:        uuid.NewString(),
		OrderID:   params.OrderID,
		ListingID: params.ListingID,
		SellerID:  sellerID,
		BuyerID:   actor.ID,
		Rating:    params.Rating,
		Comment:   params.Comment,
	}
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.reviewRepo.Create(ctx, review); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("%w: this order item has already been reviewed", domain.ErrInvalidInput)
			}
			return fmt.Errorf("failed to create review: %w", err)
		}

		avg, count, err := s.reviewRepo.AggregateForListing(ctx, params.ListingID)
		if err != nil {
			return fmt.Errorf("failed to aggregate listing ratings: %w", err)
		}
		if err := s.listingRepo.UpdateRating(ctx, params.ListingID, avg, count); err != nil && !isNotFound(err) {
			return fmt.Errorf("failed to update listing rating: %w", err)
		}

		avg, count, err = s.reviewRepo.AggregateForSeller(ctx, sellerID)
		if err != nil {
			return fmt.Errorf("failed to aggregate seller ratings: %w", err)
		}
		if err := s.userRepo.UpdateRating(ctx, sellerID, avg, count); err != nil && !isNotFound(err) {
			return fmt.Errorf("failed to update seller rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.listingCache != nil {
		if err := s.listingCache.Delete(ctx, params.ListingID); err != nil {
			s.log.Warnf("Failed to invalidate cached listing %s: %v", params.ListingID, err)
		}
	}
	s.log.Infof("Buyer %s reviewed listing %s on order %s with rating %d", actor.ID, params.ListingID, params.OrderID, params.Rating)
	return review, nil
}

func (s *reviewService) ListForListing(ctx context.Context, listingID string, page, pageSize int) ([]entity.Review, error) {
	if listingID == "" {
		return nil, fmt.Errorf("%w: listing id is required", domain.ErrInvalidInput)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	reviews, err := s.reviewRepo.ListByListing(ctx, listingID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for listing %s: %w", listingID, err)
	}
	return reviews, nil
}
