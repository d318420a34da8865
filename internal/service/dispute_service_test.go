package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

const disputeWindow = 48 * time.Hour

func newTestDisputeService(
	orderRepo *MockOrderRepository,
	trackingRepo *MockOrderTrackingRepository,
	userRepo *MockUserRepository,
	notificationRepo *MockNotificationRepository,
) DisputeService {
	notifier := NewNotificationService(notificationRepo, logger.NoOp())
	return NewDisputeService(passthroughTxManager{}, orderRepo, trackingRepo, userRepo,
		notifier, nil, nil, disputeWindow, logger.NoOp())
}

func deliveredOrder() *entity.Order {
	return &entity.Order{
		ID:            "order-1",
		BuyerID:       "buyer-1",
		PaymentStatus: entity.PaymentPaid,
		OrderStatus:   entity.OrderDelivered,
		PayoutStatus:  entity.PayoutPending,
	}
}

func TestDisputeService_Open_WithinWindowFreezesPayout(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	trackingRepo := new(MockOrderTrackingRepository)
	userRepo := new(MockUserRepository)
	notificationRepo := new(MockNotificationRepository)
	svc := newTestDisputeService(orderRepo, trackingRepo, userRepo, notificationRepo)

	orderRepo.On("GetByID", mock.Anything, "order-1").Return(deliveredOrder(), nil)
	trackingRepo.On("LatestWithStatus", mock.Anything, "order-1", entity.OrderDelivered).
		Return(&entity.OrderTracking{OrderID: "order-1", CreatedAt: time.Now().Add(-(disputeWindow - time.Minute))}, nil)
	orderRepo.On("OpenDispute", mock.Anything, "order-1", "rotten produce", mock.Anything).Return(nil)
	orderRepo.On("GetItems", mock.Anything, "order-1").Return([]entity.OrderItem{{SellerID: "seller-1"}}, nil)
	userRepo.On("ListByRoles", mock.Anything, entity.RoleAdmin, entity.RoleSuperAdmin).
		Return([]entity.User{{ID: "admin-1", Role: entity.RoleAdmin}}, nil)
	notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	order, err := svc.OpenDispute(context.Background(), entity.Actor{ID: "buyer-1"}, "order-1", "rotten produce")

	assert.NoError(t, err)
	assert.Equal(t, entity.DisputeOpen, order.DisputeStatus)
	assert.Equal(t, entity.PayoutFrozen, order.PayoutStatus)
	// One notification for the seller, one for the admin.
	notificationRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestDisputeService_Open_WindowClosed(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	trackingRepo := new(MockOrderTrackingRepository)
	svc := newTestDisputeService(orderRepo, trackingRepo, new(MockUserRepository), new(MockNotificationRepository))

	orderRepo.On("GetByID", mock.Anything, "order-1").Return(deliveredOrder(), nil)
	trackingRepo.On("LatestWithStatus", mock.Anything, "order-1", entity.OrderDelivered).
		Return(&entity.OrderTracking{OrderID: "order-1", CreatedAt: time.Now().Add(-(disputeWindow + time.Minute))}, nil)

	_, err := svc.OpenDispute(context.Background(), entity.Actor{ID: "buyer-1"}, "order-1", "too late")

	assert.ErrorIs(t, err, domain.ErrDisputeWindowClosed)
	orderRepo.AssertNotCalled(t, "OpenDispute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDisputeService_Open_NoDeliveryEntrySkipsWindow(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	trackingRepo := new(MockOrderTrackingRepository)
	userRepo := new(MockUserRepository)
	notificationRepo := new(MockNotificationRepository)
	svc := newTestDisputeService(orderRepo, trackingRepo, userRepo, notificationRepo)

	orderRepo.On("GetByID", mock.Anything, "order-1").Return(deliveredOrder(), nil)
	trackingRepo.On("LatestWithStatus", mock.Anything, "order-1", entity.OrderDelivered).
		Return(nil, repository.ErrNotFound)
	orderRepo.On("OpenDispute", mock.Anything, "order-1", "never arrived", mock.Anything).Return(nil)
	orderRepo.On("GetItems", mock.Anything, "order-1").Return([]entity.OrderItem{{SellerID: "seller-1"}}, nil)
	userRepo.On("ListByRoles", mock.Anything, entity.RoleAdmin, entity.RoleSuperAdmin).Return([]entity.User{}, nil)
	notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	order, err := svc.OpenDispute(context.Background(), entity.Actor{ID: "buyer-1"}, "order-1", "never arrived")

	assert.NoError(t, err)
	assert.Equal(t, entity.DisputeOpen, order.DisputeStatus)
}

func TestDisputeService_Open_RequiresDeliveredOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newTestDisputeService(orderRepo, new(MockOrderTrackingRepository), new(MockUserRepository), new(MockNotificationRepository))

	order := deliveredOrder()
	order.OrderStatus = entity.OrderInTransit
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)

	_, err := svc.OpenDispute(context.Background(), entity.Actor{ID: "buyer-1"}, "order-1", "reason")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDisputeService_Open_DuplicateOpenDispute(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newTestDisputeService(orderRepo, new(MockOrderTrackingRepository), new(MockUserRepository), new(MockNotificationRepository))

	order := deliveredOrder()
	order.DisputeStatus = entity.DisputeOpen
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)

	_, err := svc.OpenDispute(context.Background(), entity.Actor{ID: "buyer-1"}, "order-1", "again")

	assert.ErrorIs(t, err, domain.ErrDuplicateDispute)
}

func TestDisputeService_Open_AllowedAfterRejection(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	trackingRepo := new(MockOrderTrackingRepository)
	userRepo := new(MockUserRepository)
	notificationRepo := new(MockNotificationRepository)
	svc := newTestDisputeService(orderRepo, trackingRepo, userRepo, notificationRepo)

	order := deliveredOrder()
	order.DisputeStatus = entity.DisputeRejected
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)
	trackingRepo.On("LatestWithStatus", mock.Anything, "order-1", entity.OrderDelivered).
		Return(nil, repository.ErrNotFound)
	orderRepo.On("OpenDispute", mock.Anything, "order-1", "new evidence", mock.Anything).Return(nil)
	orderRepo.On("GetItems", mock.Anything, "order-1").Return([]entity.OrderItem{{SellerID: "seller-1"}}, nil)
	userRepo.On("ListByRoles", mock.Anything, entity.RoleAdmin, entity.RoleSuperAdmin).Return([]entity.User{}, nil)
	notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	reopened, err := svc.OpenDispute(context.Background(), entity.Actor{ID: "buyer-1"}, "order-1", "new evidence")

	assert.NoError(t, err)
	assert.Equal(t, entity.DisputeOpen, reopened.DisputeStatus)
}

func TestDisputeService_Open_ResolvedDisputeIsFinal(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newTestDisputeService(orderRepo, new(MockOrderTrackingRepository), new(MockUserRepository), new(MockNotificationRepository))

	// A resolved dispute already forfeited the seller's payout. Reopening
	// would let an admin rejection release the cancelled payout again.
	order := deliveredOrder()
	order.DisputeStatus = entity.DisputeResolved
	order.PayoutStatus = entity.PayoutCancelled
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)

	_, err := svc.OpenDispute(context.Background(), entity.Actor{ID: "buyer-1"}, "order-1", "once more")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	orderRepo.AssertNotCalled(t, "OpenDispute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDisputeService_Open_RejectsSettledPayout(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newTestDisputeService(orderRepo, new(MockOrderTrackingRepository), new(MockUserRepository), new(MockNotificationRepository))

	order := deliveredOrder()
	order.PayoutStatus = entity.PayoutSettled
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)

	_, err := svc.OpenDispute(context.Background(), entity.Actor{ID: "buyer-1"}, "order-1", "paid out already")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	orderRepo.AssertNotCalled(t, "OpenDispute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDisputeService_Open_OnlyBuyer(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newTestDisputeService(orderRepo, new(MockOrderTrackingRepository), new(MockUserRepository), new(MockNotificationRepository))

	orderRepo.On("GetByID", mock.Anything, "order-1").Return(deliveredOrder(), nil)

	_, err := svc.OpenDispute(context.Background(), entity.Actor{ID: "seller-1"}, "order-1", "reason")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDisputeService_Resolve_BuyerWinsCancelsPayout(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	notificationRepo := new(MockNotificationRepository)
	svc := newTestDisputeService(orderRepo, new(MockOrderTrackingRepository), new(MockUserRepository), notificationRepo)

	order := deliveredOrder()
	order.DisputeStatus = entity.DisputeOpen
	order.PayoutStatus = entity.PayoutFrozen
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)
	orderRepo.On("ResolveDispute", mock.Anything, "order-1", entity.DisputeResolved, entity.PayoutCancelled, mock.Anything).Return(nil)
	orderRepo.On("GetItems", mock.Anything, "order-1").Return([]entity.OrderItem{{SellerID: "seller-1"}}, nil)
	notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	resolved, err := svc.ResolveDispute(context.Background(), entity.Actor{ID: "admin-1", Role: entity.RoleAdmin},
		"order-1", entity.DisputeResolved)

	assert.NoError(t, err)
	assert.Equal(t, entity.DisputeResolved, resolved.DisputeStatus)
	assert.Equal(t, entity.PayoutCancelled, resolved.PayoutStatus)
}

func TestDisputeService_Resolve_RejectionReleasesPayout(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	notificationRepo := new(MockNotificationRepository)
	svc := newTestDisputeService(orderRepo, new(MockOrderTrackingRepository), new(MockUserRepository), notificationRepo)

	order := deliveredOrder()
	order.DisputeStatus = entity.DisputeOpen
	order.PayoutStatus = entity.PayoutFrozen
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)
	orderRepo.On("ResolveDispute", mock.Anything, "order-1", entity.DisputeRejected, entity.PayoutPending, mock.Anything).Return(nil)
	orderRepo.On("GetItems", mock.Anything, "order-1").Return([]entity.OrderItem{{SellerID: "seller-1"}}, nil)
	notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	resolved, err := svc.ResolveDispute(context.Background(), entity.Actor{ID: "admin-1", Role: entity.RoleSuperAdmin},
		"order-1", entity.DisputeRejected)

	assert.NoError(t, err)
	assert.Equal(t, entity.PayoutPending, resolved.PayoutStatus)
}

func TestDisputeService_Resolve_AdminOnly(t *testing.T) {
	svc := newTestDisputeService(new(MockOrderRepository), new(MockOrderTrackingRepository), new(MockUserRepository), new(MockNotificationRepository))

	_, err := svc.ResolveDispute(context.Background(), entity.Actor{ID: "buyer-1", Role: entity.RoleFarmer},
		"order-1", entity.DisputeResolved)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDisputeService_Resolve_NoOpenDispute(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newTestDisputeService(orderRepo, new(MockOrderTrackingRepository), new(MockUserRepository), new(MockNotificationRepository))

	order := deliveredOrder()
	order.DisputeStatus = entity.DisputeResolved
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)

	_, err := svc.ResolveDispute(context.Background(), entity.Actor{ID: "admin-1", Role: entity.RoleAdmin},
		"order-1", entity.DisputeRejected)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDisputeService_Resolve_InvalidOutcome(t *testing.T) {
	svc := newTestDisputeService(new(MockOrderRepository), new(MockOrderTrackingRepository), new(MockUserRepository), new(MockNotificationRepository))

	_, err := svc.ResolveDispute(context.Background(), entity.Actor{ID: "admin-1", Role: entity.RoleAdmin},
		"order-1", entity.DisputeOpen)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
