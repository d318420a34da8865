package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

func newTestReviewService(
	reviewRepo *MockReviewRepository,
	orderRepo *MockOrderRepository,
	listingRepo *MockListingRepository,
	userRepo *MockUserRepository,
) ReviewService {
	return NewReviewService(passthroughTxManager{}, reviewRepo, orderRepo, listingRepo, userRepo, nil, logger.NoOp())
}

func reviewableOrder() (*entity.Order, []entity.OrderItem) {
	order := &entity.Order{ID: "order-1", BuyerID: "buyer-1", OrderStatus: entity.OrderDelivered}
	items := []entity.OrderItem{{OrderID: "order-1", ListingID: "listing-1", SellerID: "seller-1"}}
	return order, items
}

func TestReviewService_Create_UpdatesRollingAverages(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	orderRepo := new(MockOrderRepository)
	listingRepo := new(MockListingRepository)
	userRepo := new(MockUserRepository)
	svc := newTestReviewService(reviewRepo, orderRepo, listingRepo, userRepo)

	order, items := reviewableOrder()
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)
	orderRepo.On("GetItems", mock.Anything, "order-1").Return(items, nil)
	reviewRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	reviewRepo.On("AggregateForListing", mock.Anything, "listing-1").Return(4.5, 2, nil)
	listingRepo.On("UpdateRating", mock.Anything, "listing-1", 4.5, 2).Return(nil)
	reviewRepo.On("AggregateForSeller", mock.Anything, "seller-1").Return(4.2, 5, nil)
	userRepo.On("UpdateRating", mock.Anything, "seller-1", 4.2, 5).Return(nil)

	review, err := svc.CreateReview(context.Background(), entity.Actor{ID: "buyer-1"}, CreateReviewParams{
		OrderID:   "order-1",
		ListingID: "listing-1",
		Rating:    5,
		Comment:   "fresh and on time",
	})

	assert.NoError(t, err)
	assert.Equal(t, "seller-1", review.SellerID)
	listingRepo.AssertCalled(t, "UpdateRating", mock.Anything, "listing-1", 4.5, 2)
	userRepo.AssertCalled(t, "UpdateRating", mock.Anything, "seller-1", 4.2, 5)
}

func TestReviewService_Create_RejectsDuplicate(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	orderRepo := new(MockOrderRepository)
	svc := newTestReviewService(reviewRepo, orderRepo, new(MockListingRepository), new(MockUserRepository))

	order, items := reviewableOrder()
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)
	orderRepo.On("GetItems", mock.Anything, "order-1").Return(items, nil)
	reviewRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.CreateReview(context.Background(), entity.Actor{ID: "buyer-1"}, CreateReviewParams{
		OrderID: "order-1", ListingID: "listing-1", Rating: 4,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReviewService_Create_RequiresDelivery(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newTestReviewService(new(MockReviewRepository), orderRepo, new(MockListingRepository), new(MockUserRepository))

	order, _ := reviewableOrder()
	order.OrderStatus = entity.OrderShipped
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)

	_, err := svc.CreateReview(context.Background(), entity.Actor{ID: "buyer-1"}, CreateReviewParams{
		OrderID: "order-1", ListingID: "listing-1", Rating: 4,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReviewService_Create_RejectsListingNotOnOrder(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	orderRepo := new(MockOrderRepository)
	svc := newTestReviewService(reviewRepo, orderRepo, new(MockListingRepository), new(MockUserRepository))

	order, items := reviewableOrder()
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)
	orderRepo.On("GetItems", mock.Anything, "order-1").Return(items, nil)

	_, err := svc.CreateReview(context.Background(), entity.Actor{ID: "buyer-1"}, CreateReviewParams{
		OrderID: "order-1", ListingID: "other-listing", Rating: 4,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewService_Create_OnlyBuyer(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newTestReviewService(new(MockReviewRepository), orderRepo, new(MockListingRepository), new(MockUserRepository))

	order, _ := reviewableOrder()
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)

	_, err := svc.CreateReview(context.Background(), entity.Actor{ID: "seller-1"}, CreateReviewParams{
		OrderID: "order-1", ListingID: "listing-1", Rating: 3,
	})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestReviewService_Create_RatingBounds(t *testing.T) {
	svc := newTestReviewService(new(MockReviewRepository), new(MockOrderRepository), new(MockListingRepository), new(MockUserRepository))

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.CreateReview(context.Background(), entity.Actor{ID: "buyer-1"}, CreateReviewParams{
			OrderID: "order-1", ListingID: "listing-1", Rating: rating,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}
