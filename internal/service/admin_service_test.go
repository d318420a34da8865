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

func newTestAdminService(orderRepo *MockOrderRepository, notificationRepo *MockNotificationRepository) AdminService {
	notifier := NewNotificationService(notificationRepo, logger.NoOp())
	return NewAdminService(passthroughTxManager{}, orderRepo, notifier, nil, nil, logger.NoOp())
}

var adminActor = entity.Actor{ID: "admin-1", Role: entity.RoleAdmin}

func TestAdminService_SettlePayout_PendingPaidOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	notificationRepo := new(MockNotificationRepository)
	svc := newTestAdminService(orderRepo, notificationRepo)

	order := &entity.Order{
		ID:            "order-1",
		PaymentStatus: entity.PaymentPaid,
		PayoutStatus:  entity.PayoutPending,
		SellerAmount:  59,
	}
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)
	orderRepo.On("SetPayoutSettled", mock.Anything, "order-1", "admin-1", mock.Anything).Return(nil)
	orderRepo.On("GetItems", mock.Anything, "order-1").Return([]entity.OrderItem{{SellerID: "seller-1"}}, nil)
	notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	settled, err := svc.MarkPayoutSettled(context.Background(), adminActor, "order-1")

	assert.NoError(t, err)
	assert.Equal(t, entity.PayoutSettled, settled.PayoutStatus)
	assert.Equal(t, "admin-1", settled.PayoutSettledBy)
	assert.NotNil(t, settled.PayoutSettledAt)
}

func TestAdminService_SettlePayout_RejectsFrozenPayout(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newTestAdminService(orderRepo, new(MockNotificationRepository))

	order := &entity.Order{
		ID:            "order-1",
		PaymentStatus: entity.PaymentPaid,
		PayoutStatus:  entity.PayoutFrozen,
	}
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)

	_, err := svc.MarkPayoutSettled(context.Background(), adminActor, "order-1")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	orderRepo.AssertNotCalled(t, "SetPayoutSettled", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminService_SettlePayout_RejectsUnpaidOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newTestAdminService(orderRepo, new(MockNotificationRepository))

	order := &entity.Order{ID: "order-1", PaymentStatus: entity.PaymentPending, PayoutStatus: entity.PayoutPending}
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)

	_, err := svc.MarkPayoutSettled(context.Background(), adminActor, "order-1")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdminService_SettlePayout_AdminOnly(t *testing.T) {
	svc := newTestAdminService(new(MockOrderRepository), new(MockNotificationRepository))

	_, err := svc.MarkPayoutSettled(context.Background(), entity.Actor{ID: "seller-1", Role: entity.RoleAgent}, "order-1")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAdminService_ListOrders_FiltersForPayoutQueue(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newTestAdminService(orderRepo, new(MockNotificationRepository))

	params := repository.ListOrdersParams{
		PaymentStatus: entity.PaymentPaid,
		PayoutStatus:  entity.PayoutPending,
		Page:          1,
		PageSize:      20,
	}
	orderRepo.On("List", mock.Anything, params).Return([]entity.Order{{ID: "order-1"}}, int64(1), nil)

	orders, total, err := svc.ListOrders(context.Background(), adminActor, params)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)
}

func TestAdminService_ListOrders_AdminOnly(t *testing.T) {
	svc := newTestAdminService(new(MockOrderRepository), new(MockNotificationRepository))

	_, _, err := svc.ListOrders(context.Background(), entity.Actor{ID: "buyer-1"}, repository.ListOrdersParams{})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
