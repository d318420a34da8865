package repository

import (
	"context"
	"time"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
)

type ListOrdersParams struct {
	BuyerID       string
	PaymentStatus entity.PaymentStatus
	PayoutStatus  entity.PayoutStatus
	Page          int
	PageSize      int
}

type OrderRepository interface {
	// Create persists the order header and its item snapshots together.
	Create(ctx context.Context, order *entity.Order, items []entity.OrderItem) error
	GetByID(ctx context.Context, orderID string) (*entity.Order, error)
	GetItems(ctx context.Context, orderID string) ([]entity.OrderItem, error)
	SetGatewayOrderID(ctx context.Context, orderID, gatewayOrderID string) error
	// MarkPaid flips a PENDING order to PAID. It reports false when the
	// order was no longer PENDING, so concurrent confirmations of the same
	// order commit the flip exactly once.
	MarkPaid(ctx context.Context, orderID, invoiceNumber string) (bool, error)
	SetOrderStatus(ctx context.Context, orderID string, status entity.OrderStatus) error
	OpenDispute(ctx context.Context, orderID, reason string, at time.Time) error
	ResolveDispute(ctx context.Context, orderID string, dispute entity.DisputeStatus, payout entity.PayoutStatus, at time.Time) error
	SetPayoutSettled(ctx context.Context, orderID, settledBy string, at time.Time) error
	List(ctx context.Context, params ListOrdersParams) ([]entity.Order, int64, error)
}
