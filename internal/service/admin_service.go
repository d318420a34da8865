package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/adapter/natsbus"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/metrics"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

// AdminService is the payout console. The payout queue is ListOrders with
// payment status PAID and the payout status of interest.
type AdminService interface {
	MarkPayoutSettled(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error)
	ListOrders(ctx context.Context, actor entity.Actor, params repository.ListOrdersParams) ([]entity.Order, int64, error)
}

type adminService struct {
	txManager repository.TxManager
	orderRepo repository.OrderRepository
	notifier  NotificationService
	publisher natsbus.MessagePublisher
	metrics   *metrics.Manager
	log       logger.Logger
}

func NewAdminService(
	txManager repository.TxManager,
	orderRepo repository.OrderRepository,
	notifier NotificationService,
	publisher natsbus.MessagePublisher,
	m *metrics.Manager,
	log logger.Logger,
) AdminService {
	return &adminService{
		txManager: txManager,
		orderRepo: orderRepo,
		notifier:  notifier,
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

func (s *adminService) MarkPayoutSettled(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if !actor.Role.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	var order *entity.Order
	now := time.Now()
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
			}
			return fmt.Errorf("failed to get order %s: %w", orderID, err)
		}
		if order.PaymentStatus != entity.PaymentPaid {
			return fmt.Errorf("%w: order is not paid", domain.ErrInvalidInput)
		}
		if order.PayoutStatus != entity.PayoutPending {
			return fmt.Errorf("%w: payout is %s, only PENDING payouts can be settled",
				domain.ErrInvalidInput, order.PayoutStatus)
		}
		if err := s.orderRepo.SetPayoutSettled(ctx, orderID, actor.ID, now); err != nil {
			return fmt.Errorf("failed to settle payout on order %s: %w", orderID, err)
		}
		order.PayoutStatus = entity.PayoutSettled
		order.PayoutSettledBy = actor.ID
		order.PayoutSettledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PayoutsSettledTotal.Inc()
	}
	s.log.Infof("Payout for order %s settled by admin %s (%.2f to sellers)", orderID, actor.ID, order.SellerAmount)

	items, err := s.orderRepo.GetItems(ctx, orderID)
	if err != nil {
		s.log.Errorf("Failed to load items of order %s for payout fan-out: %v", orderID, err)
	} else {
		for _, sellerID := range entity.DistinctSellerIDs(items) {
			s.notifier.Notify(ctx, sellerID, entity.NotificationPayoutSettled,
				"Payout settled",
				fmt.Sprintf("Your payout for order %s has been settled.", order.InvoiceNumber),
				"/orders/"+orderID)
		}
	}

	if s.publisher != nil {
		event := map[string]interface{}{
			"order_id":      orderID,
			"settled_by":    actor.ID,
			"seller_amount": order.SellerAmount,
		}
		if err := s.publisher.Publish(ctx, natsbus.SubjectPayoutSettled, event); err != nil {
			s.log.Warnf("Failed to publish %s for order %s: %v", natsbus.SubjectPayoutSettled, orderID, err)
		}
	}
	return order, nil
}

func (s *adminService) ListOrders(ctx context.Context, actor entity.Actor, params repository.ListOrdersParams) ([]entity.Order, int64, error) {
	if actor.ID == "" {
		return nil, 0, domain.ErrAuthRequired
	}
	if !actor.Role.IsAdmin() {
		return nil, 0, domain.ErrUnauthorized
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}
