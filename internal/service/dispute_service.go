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

// DisputeService handles the buyer dispute lifecycle and its coupling to the
// seller payout. Opening a dispute freezes the payout; resolving in the
// buyer's favour cancels it, rejecting the dispute releases it back to
// PENDING.
type DisputeService interface {
	OpenDispute(ctx context.Context, actor entity.Actor, orderID, reason string) (*entity.Order, error)
	// ResolveDispute closes an OPEN dispute with outcome RESOLVED (buyer
	// wins) or REJECTED (seller wins). Admin only.
	ResolveDispute(ctx context.Context, actor entity.Actor, orderID string, outcome entity.DisputeStatus) (*entity.Order, error)
}

type disputeService struct {
	txManager    repository.TxManager
	orderRepo    repository.OrderRepository
	trackingRepo repository.OrderTrackingRepository
	userRepo     repository.UserRepository
	notifier     NotificationService
	publisher    natsbus.MessagePublisher
	metrics      *metrics.Manager
	window       time.Duration
	log          logger.Logger
}

func NewDisputeService(
	txManager repository.TxManager,
	orderRepo repository.OrderRepository,
	trackingRepo repository.OrderTrackingRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	publisher natsbus.MessagePublisher,
	m *metrics.Manager,
	window time.Duration,
	log logger.Logger,
) DisputeService {
	return &disputeService{
		txManager:    txManager,
		orderRepo:    orderRepo,
		trackingRepo: trackingRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		publisher:    publisher,
		metrics:      m,
		window:       window,
		log:          log,
	}
}

func (s *disputeService) OpenDispute(ctx context.Context, actor entity.Actor, orderID, reason string) (*entity.Order, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: a dispute reason is required", domain.ErrInvalidInput)
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
		if order.BuyerID != actor.ID {
			return domain.ErrUnauthorized
		}
		if order.OrderStatus != entity.OrderDelivered {
			return fmt.Errorf("%w: only delivered orders can be disputed", domain.ErrInvalidInput)
		}
		if order.DisputeStatus == entity.DisputeOpen {
			return domain.ErrDuplicateDispute
		}
		// RESOLVED closes the buyer's claim for good. Only REJECTED disputes
		// may be reopened, and only while the payout is still live.
		if order.DisputeStatus == entity.DisputeResolved {
			return fmt.Errorf("%w: the dispute on this order is resolved and cannot be reopened", domain.ErrInvalidInput)
		}
		if order.PayoutStatus == entity.PayoutSettled || order.PayoutStatus == entity.PayoutCancelled {
			return fmt.Errorf("%w: the payout for this order is already %s", domain.ErrInvalidInput, order.PayoutStatus)
		}

		// The window counts from the latest DELIVERED tracking entry. Orders
		// marked delivered on the header without a tracking entry have no
		// reference point, so the window check is skipped for them.
		delivered, err := s.trackingRepo.LatestWithStatus(ctx, orderID, entity.OrderDelivered)
		if err == nil {
			if now.Sub(delivered.CreatedAt) > s.window {
				return domain.ErrDisputeWindowClosed
			}
		} else if !isNotFound(err) {
			return fmt.Errorf("failed to check delivery time of order %s: %w", orderID, err)
		}

		if err := s.orderRepo.OpenDispute(ctx, orderID, reason, now); err != nil {
			return fmt.Errorf("failed to open dispute on order %s: %w", orderID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.DisputeStatus = entity.DisputeOpen
	order.DisputeReason = reason
	order.DisputeCreatedAt = &now
	order.PayoutStatus = entity.PayoutFrozen

	if s.metrics != nil {
		s.metrics.DisputesOpenedTotal.Inc()
	}
	s.log.Infof("Dispute opened on order %s by buyer %s, payout frozen", orderID, actor.ID)

	s.fanOutOpened(ctx, order)
	return order, nil
}

func (s *disputeService) ResolveDispute(ctx context.Context, actor entity.Actor, orderID string, outcome entity.DisputeStatus) (*entity.Order, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if !actor.Role.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	if outcome != entity.DisputeResolved && outcome != entity.DisputeRejected {
		return nil, fmt.Errorf("%w: outcome must be RESOLVED or REJECTED", domain.ErrInvalidInput)
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
		if order.DisputeStatus != entity.DisputeOpen {
			return fmt.Errorf("%w: order has no open dispute", domain.ErrInvalidInput)
		}

		payout := entity.PayoutPending
		if outcome == entity.DisputeResolved {
			payout = entity.PayoutCancelled
		}
		if err := s.orderRepo.ResolveDispute(ctx, orderID, outcome, payout, now); err != nil {
			return fmt.Errorf("failed to resolve dispute on order %s: %w", orderID, err)
		}
		order.DisputeStatus = outcome
		order.DisputeResolvedAt = &now
		order.PayoutStatus = payout
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Dispute on order %s resolved as %s by admin %s, payout now %s",
		orderID, outcome, actor.ID, order.PayoutStatus)

	s.fanOutResolved(ctx, order)
	return order, nil
}

func (s *disputeService) fanOutOpened(ctx context.Context, order *entity.Order) {
	items, err := s.orderRepo.GetItems(ctx, order.ID)
	if err != nil {
		s.log.Errorf("Failed to load items of order %s for dispute fan-out: %v", order.ID, err)
	} else {
		for _, sellerID := range entity.DistinctSellerIDs(items) {
			s.notifier.Notify(ctx, sellerID, entity.NotificationDisputeOpened,
				"Dispute opened",
				fmt.Sprintf("The buyer has opened a dispute on order %s. The payout is frozen until it is resolved.", order.InvoiceNumber),
				"/orders/"+order.ID)
		}
	}

	admins, err := s.userRepo.ListByRoles(ctx, entity.RoleAdmin, entity.RoleSuperAdmin)
	if err != nil {
		s.log.Errorf("Failed to load admins for dispute fan-out: %v", err)
	} else {
		for _, admin := range admins {
			s.notifier.Notify(ctx, admin.ID, entity.NotificationDisputeOpened,
				"Dispute requires review",
				fmt.Sprintf("A dispute was opened on order %s: %s", order.InvoiceNumber, order.DisputeReason),
				"/admin/orders/"+order.ID)
		}
	}

	if s.publisher != nil {
		event := map[string]interface{}{
			"order_id": order.ID,
			"buyer_id": order.BuyerID,
			"reason":   order.DisputeReason,
		}
		if err := s.publisher.Publish(ctx, natsbus.SubjectDisputeOpened, event); err != nil {
			s.log.Warnf("Failed to publish %s for order %s: %v", natsbus.SubjectDisputeOpened, order.ID, err)
		}
	}
}

func (s *disputeService) fanOutResolved(ctx context.Context, order *entity.Order) {
	buyerMsg := "Your dispute was resolved in your favour."
	sellerMsg := "The dispute was resolved in the buyer's favour. The payout for this order is cancelled."
	if order.DisputeStatus == entity.DisputeRejected {
		buyerMsg = "Your dispute was reviewed and rejected."
		sellerMsg = "The dispute was rejected. The payout for this order is released."
	}

	s.notifier.Notify(ctx, order.BuyerID, entity.NotificationDisputeResolved,
		"Dispute "+string(order.DisputeStatus), buyerMsg, "/orders/"+order.ID)

	items, err := s.orderRepo.GetItems(ctx, order.ID)
	if err != nil {
		s.log.Errorf("Failed to load items of order %s for dispute fan-out: %v", order.ID, err)
	} else {
		for _, sellerID := range entity.DistinctSellerIDs(items) {
			s.notifier.Notify(ctx, sellerID, entity.NotificationDisputeResolved,
				"Dispute "+string(order.DisputeStatus), sellerMsg, "/orders/"+order.ID)
		}
	}

	if s.publisher != nil {
		event := map[string]interface{}{
			"order_id":      order.ID,
			"outcome":       order.DisputeStatus,
			"payout_status": order.PayoutStatus,
		}
		if err := s.publisher.Publish(ctx, natsbus.SubjectDisputeResolved, event); err != nil {
			s.log.Warnf("Failed to publish %s for order %s: %v", natsbus.SubjectDisputeResolved, order.ID, err)
		}
	}
}
