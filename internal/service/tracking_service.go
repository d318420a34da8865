package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/adapter/natsbus"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

// TrackingService maintains the append-only fulfilment log. Any seller with
// items on the order may record any of the five statuses in any sequence;
// the order header mirrors the latest entry.
type TrackingService interface {
	UpdateStatus(ctx context.Context, actor entity.Actor, orderID string, status entity.OrderStatus, meta entity.TrackingMeta) (*entity.OrderTracking, error)
	History(ctx context.Context, actor entity.Actor, orderID string) ([]entity.OrderTracking, error)
}

type trackingService struct {
	txManager    repository.TxManager
	orderRepo    repository.OrderRepository
	trackingRepo repository.OrderTrackingRepository
	notifier     NotificationService
	publisher    natsbus.MessagePublisher
	log          logger.Logger
}

func NewTrackingService(
	txManager repository.TxManager,
	orderRepo repository.OrderRepository,
	trackingRepo repository.OrderTrackingRepository,
	notifier NotificationService,
	publisher natsbus.MessagePublisher,
	log logger.Logger,
) TrackingService {
	return &trackingService{
		txManager:    txManager,
		orderRepo:    orderRepo,
		trackingRepo: trackingRepo,
		notifier:     notifier,
		publisher:    publisher,
		log:          log,
	}
}

var statusMessages = map[entity.OrderStatus]string{
	entity.OrderProcessing: "Your order is being processed by the seller.",
	entity.OrderPacked:     "Your order has been packed.",
	entity.OrderShipped:    "Your order has been shipped.",
	entity.OrderInTransit:  "Your order is in transit.",
	entity.OrderDelivered:  "Your order has been delivered.",
}

func (s *trackingService) UpdateStatus(ctx context.Context, actor entity.Actor, orderID string, status entity.OrderStatus, meta entity.TrackingMeta) (*entity.OrderTracking, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if !entity.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalidInput, status)
	}

	order, items, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !sellerOnOrder(actor.ID, items) {
		return nil, domain.ErrUnauthorized
	}
	if order.PaymentStatus != entity.PaymentPaid {
		return nil, fmt.Errorf("%w: order is not paid yet", domain.ErrInvalidInput)
	}

	entry := &entity.OrderTracking{
		ID:               uuid.NewString(),
		OrderID:          orderID,
		Status:           status,
		Notes:            meta.Notes,
		TransportMode:    meta.TransportMode,
		VehicleNumber:    meta.VehicleNumber,
		DriverContact:    meta.DriverContact,
		Location:         meta.Location,
		ExpectedDelivery: meta.ExpectedDelivery,
		CreatedBy:        actor.ID,
	}
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.trackingRepo.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to append tracking entry: %w", err)
		}
		if err := s.orderRepo.SetOrderStatus(ctx, orderID, status); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Order %s moved to %s by seller %s", orderID, status, actor.ID)

	s.notifier.Notify(ctx, order.BuyerID, entity.NotificationOrderStatus,
		fmt.Sprintf("Order update: %s", status), statusMessages[status], "/orders/"+orderID)

	if s.publisher != nil {
		event := map[string]interface{}{
			"order_id": orderID,
			"status":   status,
			"seller":   actor.ID,
		}
		if err := s.publisher.Publish(ctx, natsbus.SubjectOrderStatusUpdated, event); err != nil {
			s.log.Warnf("Failed to publish %s for order %s: %v", natsbus.SubjectOrderStatusUpdated, orderID, err)
		}
	}
	return entry, nil
}

func (s *trackingService) History(ctx context.Context, actor entity.Actor, orderID string) ([]entity.OrderTracking, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	order, items, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actor.ID && !sellerOnOrder(actor.ID, items) && !actor.Role.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}

	history, err := s.trackingRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracking history for order %s: %w", orderID, err)
	}
	return history, nil
}

func (s *trackingService) loadOrder(ctx context.Context, orderID string) (*entity.Order, []entity.OrderItem, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
		}
		return nil, nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	items, err := s.orderRepo.GetItems(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get items of order %s: %w", orderID, err)
	}
	return order, items, nil
}

func sellerOnOrder(userID string, items []entity.OrderItem) bool {
	for _, it := range items {
		if it.SellerID == userID {
			return true
		}
	}
	return false
}
