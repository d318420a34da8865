package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/metrics"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/service"
)

type OrderHandler struct {
	orders   service.OrderService
	tracking service.TrackingService
	disputes service.DisputeService
	log      logger.Logger
	metrics  *metrics.Manager
}

func NewOrderHandler(
	orders service.OrderService,
	tracking service.TrackingService,
	disputes service.DisputeService,
	log logger.Logger,
	m *metrics.Manager,
) *OrderHandler {
	return &OrderHandler{orders: orders, tracking: tracking, disputes: disputes, log: log, metrics: m}
}

func (h *OrderHandler) HandleListMyOrders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	orders, total, err := h.orders.ListMyOrders(r.Context(), actorFrom(r.Context()), page, pageSize)
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"orders": orders, "total": total})
}

func (h *OrderHandler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	view, err := h.orders.GetOrder(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

type trackingRequest struct {
	Status           string     `json:"status"`
	Notes            string     `json:"notes"`
	TransportMode    string     `json:"transport_mode"`
	VehicleNumber    string     `json:"vehicle_number"`
	DriverContact    string     `json:"driver_contact"`
	Location         string     `json:"location"`
	ExpectedDelivery *time.Time `json:"expected_delivery"`
}

func (h *OrderHandler) HandleUpdateTracking(w http.ResponseWriter, r *http.Request) {
	var req trackingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}

	entry, err := h.tracking.UpdateStatus(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "orderID"),
		entity.OrderStatus(req.Status), entity.TrackingMeta{
			Notes:            req.Notes,
			TransportMode:    req.TransportMode,
			VehicleNumber:    req.VehicleNumber,
			DriverContact:    req.DriverContact,
			Location:         req.Location,
			ExpectedDelivery: req.ExpectedDelivery,
		})
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusCreated, entry)
}

func (h *OrderHandler) HandleTrackingHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.tracking.History(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, history)
}

func (h *OrderHandler) HandleOpenDispute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}

	order, err := h.disputes.OpenDispute(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "orderID"), req.Reason)
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusCreated, order)
}
