package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/metrics"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/service"
)

type AdminHandler struct {
	admin    service.AdminService
	disputes service.DisputeService
	log      logger.Logger
	metrics  *metrics.Manager
}

func NewAdminHandler(admin service.AdminService, disputes service.DisputeService, log logger.Logger, m *metrics.Manager) *AdminHandler {
	return &AdminHandler{admin: admin, disputes: disputes, log: log, metrics: m}
}

// HandleListOrders is the payout console listing. Filters come from query
// parameters; the payout queue is payment_status=PAID&payout_status=PENDING.
func (h *AdminHandler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	orders, total, err := h.admin.ListOrders(r.Context(), actorFrom(r.Context()), repository.ListOrdersParams{
		BuyerID:       r.URL.Query().Get("buyer_id"),
		PaymentStatus: entity.PaymentStatus(r.URL.Query().Get("payment_status")),
		PayoutStatus:  entity.PayoutStatus(r.URL.Query().Get("payout_status")),
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"orders": orders, "total": total})
}

func (h *AdminHandler) HandleResolveDispute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Outcome string `json:"outcome"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}

	order, err := h.disputes.ResolveDispute(r.Context(), actorFrom(r.Context()),
		chi.URLParam(r, "orderID"), entity.DisputeStatus(req.Outcome))
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, order)
}

func (h *AdminHandler) HandleSettlePayout(w http.ResponseWriter, r *http.Request) {
	order, err := h.admin.MarkPayoutSettled(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, order)
}
