package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/adapter/email"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/adapter/natsbus"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/adapter/razorpay"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/metrics"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

type ConfirmPaymentParams struct {
	OrderID          string
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

type PaymentService interface {
	// ConfirmPayment verifies the gateway callback signature and flips the
	// order to PAID. Confirming an already paid order is a no-op returning
	// the current order state.
	ConfirmPayment(ctx context.Context, actor entity.Actor, params ConfirmPaymentParams) (*entity.Order, error)
}

type paymentService struct {
	txManager repository.TxManager
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	userRepo  repository.UserRepository
	gateway   razorpay.Gateway
	notifier  NotificationService
	publisher natsbus.MessagePublisher
	emails    email.Sender
	metrics   *metrics.Manager
	log       logger.Logger
}

func NewPaymentService(
	txManager repository.TxManager,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	gateway razorpay.Gateway,
	notifier NotificationService,
	publisher natsbus.MessagePublisher,
	emails email.Sender,
	m *metrics.Manager,
	log logger.Logger,
) PaymentService {
	return &paymentService{
		txManager: txManager,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		gateway:   gateway,
		notifier:  notifier,
		publisher: publisher,
		emails:    emails,
		metrics:   m,
		log:       log,
	}
}

func (s *paymentService) ConfirmPayment(ctx context.Context, actor entity.Actor, params ConfirmPaymentParams) (*entity.Order, error) {
	if actor.ID == "" {
		return nil, domain.ErrAuthRequired
	}
	if params.OrderID == "" || params.GatewayOrderID == "" || params.GatewayPaymentID == "" {
		return nil, fmt.Errorf("%w: order id, gateway order id and payment id are required", domain.ErrInvalidInput)
	}

	order, err := s.orderRepo.GetByID(ctx, params.OrderID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, params.OrderID)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", params.OrderID, err)
	}
	if order.BuyerID != actor.ID {
		return nil, domain.ErrUnauthorized
	}
	if order.PaymentStatus == entity.PaymentPaid {
		s.log.Infof("Order %s already paid, confirmation is a no-op", order.ID)
		return order, nil
	}

	if !s.gateway.VerifySignature(params.GatewayOrderID, params.GatewayPaymentID, params.Signature) {
		s.log.Warnf("Signature verification failed for order %s (gateway order %s)", order.ID, params.GatewayOrderID)
		return nil, domain.ErrInvalidSignature
	}

	invoice := invoiceNumber(order.ID, time.Now())
	var flipped bool
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		flipped, err = s.orderRepo.MarkPaid(ctx, order.ID, invoice)
		if err != nil {
			return err
		}
		if !flipped {
			return nil
		}
		// Stock was already committed at add-to-cart, so clearing the cart
		// only drops the reservation records.
		cart, err := s.cartRepo.GetByBuyer(ctx, order.BuyerID)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return fmt.Errorf("failed to get cart for buyer %s: %w", order.BuyerID, err)
		}
		if err := s.cartRepo.DeleteItems(ctx, cart.ID); err != nil {
			return fmt.Errorf("failed to clear cart %s: %w", cart.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !flipped {
		// A concurrent confirmation flipped the order first and owns the
		// seller fan-out. Return the committed state.
		current, err := s.orderRepo.GetByID(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload order %s: %w", order.ID, err)
		}
		s.log.Infof("Order %s was paid by a concurrent confirmation, this one is a no-op", order.ID)
		return current, nil
	}

	order.PaymentStatus = entity.PaymentPaid
	order.InvoiceNumber = invoice

	if s.metrics != nil {
		s.metrics.PaymentsConfirmedTotal.Inc()
	}
	s.log.Infof("Payment confirmed for order %s, invoice %s", order.ID, invoice)

	s.fanOutPaid(ctx, order)
	return order, nil
}

// fanOutPaid notifies every distinct seller on the order. All of it is
// best-effort; the payment is already committed.
func (s *paymentService) fanOutPaid(ctx context.Context, order *entity.Order) {
	items, err := s.orderRepo.GetItems(ctx, order.ID)
	if err != nil {
		s.log.Errorf("Failed to load items of order %s for seller fan-out: %v", order.ID, err)
		return
	}

	for _, sellerID := range entity.DistinctSellerIDs(items) {
		s.notifier.Notify(ctx, sellerID, entity.NotificationOrderReceived,
			"New order received",
			fmt.Sprintf("Order %s has been paid. Please start processing your items.", order.InvoiceNumber),
			"/orders/"+order.ID)

		if s.emails != nil {
			seller, err := s.userRepo.GetByID(ctx, sellerID)
			if err != nil {
				s.log.Warnf("Failed to load seller %s for order email: %v", sellerID, err)
				continue
			}
			subject := fmt.Sprintf("New order %s on KrishiConnect", order.InvoiceNumber)
			body := fmt.Sprintf("Hello %s,\n\nYou have received a new paid order (%s). Log in to start fulfilment.\n",
				seller.Name, order.InvoiceNumber)
			if err := s.emails.Send(ctx, []string{seller.Email}, subject, "", body); err != nil {
				s.log.Warnf("Failed to email seller %s about order %s: %v", sellerID, order.ID, err)
			}
		}
	}

	if s.publisher != nil {
		event := map[string]interface{}{
			"order_id":       order.ID,
			"buyer_id":       order.BuyerID,
			"invoice_number": order.InvoiceNumber,
			"total_amount":   order.TotalAmount,
		}
		if err := s.publisher.Publish(ctx, natsbus.SubjectOrderPaid, event); err != nil {
			s.log.Warnf("Failed to publish %s for order %s: %v", natsbus.SubjectOrderPaid, order.ID, err)
		}
	}
}

// invoiceNumber builds "INV-YYYYMM-XXXXXXXX" from the payment month and the
// first eight characters of the order id, uppercased.
func invoiceNumber(orderID string, at time.Time) string {
	ref := strings.ReplaceAll(orderID, "-", "")
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return fmt.Sprintf("INV-%s-%s", at.Format("200601"), strings.ToUpper(ref))
}
