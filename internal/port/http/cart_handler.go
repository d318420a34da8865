package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/metrics"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/service"
)

type CartHandler struct {
	carts   service.CartService
	log     logger.Logger
	metrics *metrics.Manager
}

func NewCartHandler(carts service.CartService, log logger.Logger, m *metrics.Manager) *CartHandler {
	return &CartHandler{carts: carts, log: log, metrics: m}
}

type cartItemRequest struct {
	ListingID string  `json:"listing_id"`
	Quantity  float64 `json:"quantity"`
}

func (h *CartHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}

	view, err := h.carts.AddItem(r.Context(), actorFrom(r.Context()), req.ListingID, req.Quantity)
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

func (h *CartHandler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity float64 `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}

	listingID := chi.URLParam(r, "listingID")
	view, err := h.carts.UpdateItemQuantity(r.Context(), actorFrom(r.Context()), listingID, req.Quantity)
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

func (h *CartHandler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	view, err := h.carts.RemoveItem(r.Context(), actorFrom(r.Context()), listingID)
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

func (h *CartHandler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.GetCart(r.Context(), actorFrom(r.Context()))
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, view)
}
