package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

// passthroughTxManager runs the callback directly, so repository mocks see
// the same context the test passed in.
type passthroughTxManager struct{}

func (passthroughTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepository) GetByID(ctx context.Context, listingID string) (*entity.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}
func (m *MockListingRepository) GetByIDForUpdate(ctx context.Context, listingID string) (*entity.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}
func (m *MockListingRepository) AdjustStock(ctx context.Context, listingID string, delta float64) error {
	args := m.Called(ctx, listingID, delta)
	return args.Error(0)
}
func (m *MockListingRepository) UpdateRating(ctx context.Context, listingID string, average float64, count int) error {
	args := m.Called(ctx, listingID, average, count)
	return args.Error(0)
}
func (m *MockListingRepository) List(ctx context.Context, params repository.ListListingsParams) ([]entity.Listing, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Listing), args.Error(1)
}

type MockCartRepository struct{ mock.Mock }

func (m *MockCartRepository) GetOrCreateByBuyer(ctx context.Context, buyerID string) (*entity.Cart, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cart), args.Error(1)
}
func (m *MockCartRepository) GetByBuyer(ctx context.Context, buyerID string) (*entity.Cart, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cart), args.Error(1)
}
func (m *MockCartRepository) GetItem(ctx context.Context, cartID, listingID string) (*entity.CartItem, error) {
	args := m.Called(ctx, cartID, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CartItem), args.Error(1)
}
func (m *MockCartRepository) GetItems(ctx context.Context, cartID string) ([]entity.CartItem, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CartItem), args.Error(1)
}
func (m *MockCartRepository) UpsertItem(ctx context.Context, cartID, listingID string, addQuantity float64) error {
	args := m.Called(ctx, cartID, listingID, addQuantity)
	return args.Error(0)
}
func (m *MockCartRepository) SetItemQuantity(ctx context.Context, cartID, listingID string, quantity float64) error {
	args := m.Called(ctx, cartID, listingID, quantity)
	return args.Error(0)
}
func (m *MockCartRepository) DeleteItem(ctx context.Context, cartID, listingID string) error {
	args := m.Called(ctx, cartID, listingID)
	return args.Error(0)
}
func (m *MockCartRepository) DeleteItems(ctx context.Context, cartID string) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Create(ctx context.Context, order *entity.Order, items []entity.OrderItem) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}
func (m *MockOrderRepository) GetByID(ctx context.Context, orderID string) (*entity.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}
func (m *MockOrderRepository) GetItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.OrderItem), args.Error(1)
}
func (m *MockOrderRepository) SetGatewayOrderID(ctx context.Context, orderID, gatewayOrderID string) error {
	args := m.Called(ctx, orderID, gatewayOrderID)
	return args.Error(0)
}
func (m *MockOrderRepository) MarkPaid(ctx context.Context, orderID, invoiceNumber string) (bool, error) {
	args := m.Called(ctx, orderID, invoiceNumber)
	return args.Bool(0), args.Error(1)
}
func (m *MockOrderRepository) SetOrderStatus(ctx context.Context, orderID string, status entity.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}
func (m *MockOrderRepository) OpenDispute(ctx context.Context, orderID, reason string, at time.Time) error {
	args := m.Called(ctx, orderID, reason, at)
	return args.Error(0)
}
func (m *MockOrderRepository) ResolveDispute(ctx context.Context, orderID string, dispute entity.DisputeStatus, payout entity.PayoutStatus, at time.Time) error {
	args := m.Called(ctx, orderID, dispute, payout, at)
	return args.Error(0)
}
func (m *MockOrderRepository) SetPayoutSettled(ctx context.Context, orderID, settledBy string, at time.Time) error {
	args := m.Called(ctx, orderID, settledBy, at)
	return args.Error(0)
}
func (m *MockOrderRepository) List(ctx context.Context, params repository.ListOrdersParams) ([]entity.Order, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Order), args.Get(1).(int64), args.Error(2)
}

type MockOrderTrackingRepository struct{ mock.Mock }

func (m *MockOrderTrackingRepository) Append(ctx context.Context, tracking *entity.OrderTracking) error {
	args := m.Called(ctx, tracking)
	return args.Error(0)
}
func (m *MockOrderTrackingRepository) ListByOrder(ctx context.Context, orderID string) ([]entity.OrderTracking, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.OrderTracking), args.Error(1)
}
func (m *MockOrderTrackingRepository) LatestWithStatus(ctx context.Context, orderID string, status entity.OrderStatus) (*entity.OrderTracking, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OrderTracking), args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}
func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Notification), args.Error(1)
}
func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}
func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}
func (m *MockReviewRepository) ListByListing(ctx context.Context, listingID string, limit, offset int) ([]entity.Review, error) {
	args := m.Called(ctx, listingID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}
func (m *MockReviewRepository) AggregateForListing(ctx context.Context, listingID string) (float64, int, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}
func (m *MockReviewRepository) AggregateForSeller(ctx context.Context, sellerID string) (float64, int, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserRepository) ListByRoles(ctx context.Context, roles ...entity.Role) ([]entity.User, error) {
	callArgs := make([]interface{}, 0, len(roles)+1)
	callArgs = append(callArgs, ctx)
	for _, r := range roles {
		callArgs = append(callArgs, r)
	}
	args := m.Called(callArgs...)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}
func (m *MockUserRepository) UpdateRating(ctx context.Context, userID string, average float64, count int) error {
	args := m.Called(ctx, userID, average, count)
	return args.Error(0)
}

type MockGateway struct{ mock.Mock }

func (m *MockGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	args := m.Called(ctx, amountMinor, currency, receipt)
	return args.String(0), args.Error(1)
}
func (m *MockGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	args := m.Called(gatewayOrderID, gatewayPaymentID, signature)
	return args.Bool(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

type MockEmailSender struct{ mock.Mock }

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error {
	args := m.Called(ctx, to, subject, bodyHTML, bodyText)
	return args.Error(0)
}
