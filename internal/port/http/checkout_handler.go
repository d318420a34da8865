package http

import (
	"net/http"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/metrics"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/service"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	payments service.PaymentService
	log      logger.Logger
	metrics  *metrics.Manager
}

func NewCheckoutHandler(checkout service.CheckoutService, payments service.PaymentService, log logger.Logger, m *metrics.Manager) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, payments: payments, log: log, metrics: m}
}

func (h *CheckoutHandler) HandleInitiateCheckout(w http.ResponseWriter, r *http.Request) {
	result, err := h.checkout.InitiateCheckout(r.Context(), actorFrom(r.Context()))
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusCreated, result)
}

type confirmPaymentRequest struct {
	OrderID          string `json:"order_id"`
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
}

func (h *CheckoutHandler) HandleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req confirmPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}

	order, err := h.payments.ConfirmPayment(r.Context(), actorFrom(r.Context()), service.ConfirmPaymentParams{
		OrderID:          req.OrderID,
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		Signature:        req.Signature,
	})
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, order)
}
