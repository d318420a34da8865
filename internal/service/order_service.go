package service

import (
	"context"
	"fmt"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

// OrderView is an order header together with its item snapshots.
type OrderView struct {
	Order *entity.Order
	Items []entity.OrderItem
}

type OrderService interface {
	// GetOrder returns the order with items. Visible to the buyer, any
	// seller with items on it, and admins.
	GetOrder(ctx context.Context, actor entity.Actor, orderID string) (*OrderView, error)
	ListMyOrders(ctx context.Context, actor entity.Actor, page, pageSize int) ([]entity.Order, int64, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	log       logger.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, log logger.Logger) OrderService {
	return &orderService{orderRepo: orderRepo, log: log}
}

func (s *orderService) GetOrder(ctx context.Context, actor entity.Actor, orderID string) (*OrderView, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	items, err := s.orderRepo.GetItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items of order %s: %w", orderID, err)
	}
	if order.BuyerID != actor.ID && !sellerOnOrder(actor.ID, items) && !actor.Role.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	return &OrderView{Order: order, Items: items}, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, actor entity.Actor, page, pageSize int) ([]entity.Order, int64, error) {
	if actor.ID == "" {
		return nil, 0, domain.ErrAuthRequired
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	orders, total, err := s.orderRepo.List(ctx, repository.ListOrdersParams{
		BuyerID:  actor.ID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders for buyer %s: %w", actor.ID, err)
	}
	return orders, total, nil
}
