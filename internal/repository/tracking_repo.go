package repository

import (
	"context"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
)

type OrderTrackingRepository interface {
	Append(ctx context.Context, tracking *entity.OrderTracking) error
	ListByOrder(ctx context.Context, orderID string) ([]entity.OrderTracking, error)
	// LatestWithStatus returns the most recent entry with the given status,
	// or ErrNotFound if the order never reached it.
	LatestWithStatus(ctx context.Context, orderID string, status entity.OrderStatus) (*entity.OrderTracking, error)
}
