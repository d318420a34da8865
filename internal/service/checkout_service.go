package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/adapter/razorpay"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/metrics"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

// Platform fee tiers. Lines priced under the threshold are charged the low
// rate, everything else the high rate; the summed fee is rounded to the
// nearest whole currency unit once, at the end.
const (
	feeTierThreshold = 20.0
	feeRateLow       = 0.01
	feeRateHigh      = 0.02
)

// CheckoutResult is what the client needs to open the gateway's payment
// flow: the internal order plus the gateway order reference and amount.
type CheckoutResult struct {
	Order          *entity.Order
	GatewayOrderID string
	AmountMinor    int64
	Currency       string
}

type CheckoutService interface {
	// InitiateCheckout converts the buyer's cart into a PENDING order and
	// registers it with the payment gateway. The cart is not cleared until
	// payment is confirmed.
	InitiateCheckout(ctx context.Context, actor entity.Actor) (*CheckoutResult, error)
}

type checkoutService struct {
	txManager   repository.TxManager
	cartRepo    repository.CartRepository
	listingRepo repository.ListingRepository
	orderRepo   repository.OrderRepository
	gateway     razorpay.Gateway
	metrics     *metrics.Manager
	currency    string
	log         logger.Logger
}

func NewCheckoutService(
	txManager repository.TxManager,
	cartRepo repository.CartRepository,
	listingRepo repository.ListingRepository,
	orderRepo repository.OrderRepository,
	gateway razorpay.Gateway,
	m *metrics.Manager,
	currency string,
	log logger.Logger,
) CheckoutService {
	return &checkoutService{
		txManager:   txManager,
		cartRepo:    cartRepo,
		listingRepo: listingRepo,
		orderRepo:   orderRepo,
		gateway:     gateway,
		metrics:     m,
		currency:    currency,
		log:         log,
	}
}

func (s *checkoutService) InitiateCheckout(ctx context.Context, actor entity.Actor) (*CheckoutResult, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}

	var order *entity.Order
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		cart, err := s.cartRepo.GetByBuyer(ctx, actor.ID)
		if err != nil {
			if isNotFound(err) {
				return domain.ErrEmptyCart
			}
			return fmt.Errorf("failed to get cart for buyer %s: %w", actor.ID, err)
		}
		cartItems, err := s.cartRepo.GetItems(ctx, cart.ID)
		if err != nil {
			return fmt.Errorf("failed to get cart items: %w", err)
		}
		if len(cartItems) == 0 {
			return domain.ErrEmptyCart
		}

		orderID := uuid.NewString()
		var (
			productSubtotal float64
			deliveryTotal   float64
			feeRaw          float64
			orderItems      = make([]entity.OrderItem, 0, len(cartItems))
		)
		for _, item := range cartItems {
			listing, err := s.listingRepo.GetByID(ctx, item.ListingID)
			if err != nil {
				if isNotFound(err) {
					return fmt.Errorf("%w: listing %s no longer exists", domain.ErrInvalidInput, item.ListingID)
				}
				return fmt.Errorf("failed to get listing %s: %w", item.ListingID, err)
			}

			lineTotal := item.Quantity * listing.PricePerUnit
			productSubtotal += lineTotal

			switch listing.DeliveryChargeType {
			case entity.DeliveryPerUnit:
				deliveryTotal += item.Quantity * listing.DeliveryCharge
			default:
				deliveryTotal += listing.DeliveryCharge
			}

			rate := feeRateHigh
			if listing.PricePerUnit < feeTierThreshold {
				rate = feeRateLow
			}
			feeRaw += lineTotal * rate

			orderItems = append(orderItems, entity.OrderItem{
				ID:                           uuid.NewString(),
				OrderID:                      orderID,
				ListingID:                    listing.ID,
				ListingTitle:                 listing.Title,
				Unit:                         listing.Unit,
				Quantity:                     item.Quantity,
				PriceAtPurchase:              listing.PricePerUnit,
				DeliveryChargeAtPurchase:     listing.DeliveryCharge,
				DeliveryChargeTypeAtPurchase: listing.DeliveryChargeType,
				SellerID:                     listing.SellerID,
				SellerType:                   listing.SellerType,
				SellerName:                   listing.SellerName,
			})
		}

		platformFee := math.Round(feeRaw)
		sellerAmount := productSubtotal - platformFee
		if sellerAmount < 0 {
			sellerAmount = 0
		}

		order = &entity.Order{
			ID:            orderID,
			BuyerID:       actor.ID,
			TotalAmount:   productSubtotal + deliveryTotal + platformFee,
			PlatformFee:   platformFee,
			SellerAmount:  sellerAmount,
			PaymentStatus: entity.PaymentPending,
			OrderStatus:   entity.OrderProcessing,
			PayoutStatus:  entity.PayoutPending,
		}
		if err := s.orderRepo.Create(ctx, order, orderItems); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The order is committed before the gateway call so a gateway failure
	// leaves a PENDING order behind rather than losing the checkout. Such
	// orders simply never get paid.
	amountMinor := int64(math.Round(order.TotalAmount * 100))
	gatewayOrderID, err := s.gateway.CreateOrder(ctx, amountMinor, s.currency, order.ID)
	if err != nil {
		s.log.Errorf("Gateway order creation failed for order %s: %v", order.ID, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentGateway, err)
	}
	if err := s.orderRepo.SetGatewayOrderID(ctx, order.ID, gatewayOrderID); err != nil {
		s.log.Errorf("Failed to attach gateway order %s to order %s: %v", gatewayOrderID, order.ID, err)
		return nil, fmt.Errorf("failed to attach gateway order id: %w", err)
	}
	order.GatewayOrderID = gatewayOrderID

	if s.metrics != nil {
		s.metrics.OrdersCreatedTotal.Inc()
	}
	s.log.Infof("Checkout initiated: order %s for buyer %s, total %.2f (gateway order %s)",
		order.ID, actor.ID, order.TotalAmount, gatewayOrderID)

	return &CheckoutResult{
		Order:          order,
		GatewayOrderID: gatewayOrderID,
		AmountMinor:    amountMinor,
		Currency:       s.currency,
	}, nil
}
