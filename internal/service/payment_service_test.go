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

func newTestPaymentService(
	orderRepo *MockOrderRepository,
	cartRepo *MockCartRepository,
	userRepo *MockUserRepository,
	gateway *MockGateway,
	notificationRepo *MockNotificationRepository,
	publisher *MockPublisher,
) PaymentService {
	notifier := NewNotificationService(notificationRepo, logger.NoOp())
	return NewPaymentService(passthroughTxManager{}, orderRepo, cartRepo, userRepo, gateway,
		notifier, publisher, nil, nil, logger.NoOp())
}

func validConfirmParams() ConfirmPaymentParams {
	return ConfirmPaymentParams{
		OrderID:          "order-1",
		GatewayOrderID:   "gw-order-1",
		GatewayPaymentID: "gw-pay-1",
		Signature:        "sig",
	}
}

func TestPaymentService_ConfirmPayment_NotifiesDistinctSellers(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	userRepo := new(MockUserRepository)
	gateway := new(MockGateway)
	notificationRepo := new(MockNotificationRepository)
	publisher := new(MockPublisher)
	svc := newTestPaymentService(orderRepo, cartRepo, userRepo, gateway, notificationRepo, publisher)

	order := &entity.Order{ID: "order-1", BuyerID: "buyer-1", PaymentStatus: entity.PaymentPending}
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)
	gateway.On("VerifySignature", "gw-order-1", "gw-pay-1", "sig").Return(true)
	orderRepo.On("MarkPaid", mock.Anything, "order-1", mock.Anything).Return(true, nil)
	cartRepo.On("GetByBuyer", mock.Anything, "buyer-1").Return(&entity.Cart{ID: "cart-1"}, nil)
	cartRepo.On("DeleteItems", mock.Anything, "cart-1").Return(nil)
	// Two lines from seller-1, one from seller-2: exactly two notifications.
	orderRepo.On("GetItems", mock.Anything, "order-1").Return([]entity.OrderItem{
		{SellerID: "seller-1"}, {SellerID: "seller-1"}, {SellerID: "seller-2"},
	}, nil)
	notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, "order.paid", mock.Anything).Return(nil)

	paid, err := svc.ConfirmPayment(context.Background(), entity.Actor{ID: "buyer-1"}, validConfirmParams())

	assert.NoError(t, err)
	assert.Equal(t, entity.PaymentPaid, paid.PaymentStatus)
	assert.NotEmpty(t, paid.InvoiceNumber)
	notificationRepo.AssertNumberOfCalls(t, "Create", 2)
	cartRepo.AssertCalled(t, "DeleteItems", mock.Anything, "cart-1")
}

func TestPaymentService_ConfirmPayment_Idempotent(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	gateway := new(MockGateway)
	svc := newTestPaymentService(orderRepo, new(MockCartRepository), new(MockUserRepository),
		gateway, new(MockNotificationRepository), new(MockPublisher))

	order := &entity.Order{
		ID: "order-1", BuyerID: "buyer-1",
		PaymentStatus: entity.PaymentPaid, InvoiceNumber: "INV-202608-ABCD1234",
	}
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)

	paid, err := svc.ConfirmPayment(context.Background(), entity.Actor{ID: "buyer-1"}, validConfirmParams())

	assert.NoError(t, err)
	assert.Equal(t, "INV-202608-ABCD1234", paid.InvoiceNumber)
	gateway.AssertNotCalled(t, "VerifySignature", mock.Anything, mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_ConfirmPayment_LostRaceSkipsFanOut(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	gateway := new(MockGateway)
	notificationRepo := new(MockNotificationRepository)
	publisher := new(MockPublisher)
	svc := newTestPaymentService(orderRepo, cartRepo, new(MockUserRepository), gateway, notificationRepo, publisher)

	// Both confirmations read PENDING, but only one wins the conditional
	// flip. The loser reloads the committed state and stays quiet.
	pending := &entity.Order{ID: "order-1", BuyerID: "buyer-1", PaymentStatus: entity.PaymentPending}
	paid := &entity.Order{
		ID: "order-1", BuyerID: "buyer-1",
		PaymentStatus: entity.PaymentPaid, InvoiceNumber: "INV-202608-ABCD1234",
	}
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(pending, nil).Once()
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(paid, nil)
	gateway.On("VerifySignature", "gw-order-1", "gw-pay-1", "sig").Return(true)
	orderRepo.On("MarkPaid", mock.Anything, "order-1", mock.Anything).Return(false, nil)

	got, err := svc.ConfirmPayment(context.Background(), entity.Actor{ID: "buyer-1"}, validConfirmParams())

	assert.NoError(t, err)
	assert.Equal(t, entity.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, "INV-202608-ABCD1234", got.InvoiceNumber)
	cartRepo.AssertNotCalled(t, "DeleteItems", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "GetItems", mock.Anything, mock.Anything)
	notificationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_ConfirmPayment_InvalidSignature(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	gateway := new(MockGateway)
	svc := newTestPaymentService(orderRepo, new(MockCartRepository), new(MockUserRepository),
		gateway, new(MockNotificationRepository), new(MockPublisher))

	order := &entity.Order{ID: "order-1", BuyerID: "buyer-1", PaymentStatus: entity.PaymentPending}
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)
	gateway.On("VerifySignature", "gw-order-1", "gw-pay-1", "sig").Return(false)

	_, err := svc.ConfirmPayment(context.Background(), entity.Actor{ID: "buyer-1"}, validConfirmParams())

	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	orderRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_ConfirmPayment_WrongBuyer(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newTestPaymentService(orderRepo, new(MockCartRepository), new(MockUserRepository),
		new(MockGateway), new(MockNotificationRepository), new(MockPublisher))

	order := &entity.Order{ID: "order-1", BuyerID: "buyer-1", PaymentStatus: entity.PaymentPending}
	orderRepo.On("GetByID", mock.Anything, "order-1").Return(order, nil)

	_, err := svc.ConfirmPayment(context.Background(), entity.Actor{ID: "someone-else"}, validConfirmParams())

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestPaymentService_ConfirmPayment_OrderNotFound(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	svc := newTestPaymentService(orderRepo, new(MockCartRepository), new(MockUserRepository),
		new(MockGateway), new(MockNotificationRepository), new(MockPublisher))

	orderRepo.On("GetByID", mock.Anything, "order-1").Return(nil, repository.ErrNotFound)

	_, err := svc.ConfirmPayment(context.Background(), entity.Actor{ID: "buyer-1"}, validConfirmParams())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceNumberFormat(t *testing.T) {
	at := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

	got := invoiceNumber("a1b2c3d4-e5f6-7890-abcd-ef1234567890", at)

	assert.Equal(t, "INV-202608-A1B2C3D4", got)
}
