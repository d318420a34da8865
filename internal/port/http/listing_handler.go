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

type ListingHandler struct {
	listings service.ListingService
	log      logger.Logger
	metrics  *metrics.Manager
}

func NewListingHandler(listings service.ListingService, log logger.Logger, m *metrics.Manager) *ListingHandler {
	return &ListingHandler{listings: listings, log: log, metrics: m}
}

type listingRequest struct {
	Title              string  `json:"title"`
	Category           string  `json:"category"`
	Unit               string  `json:"unit"`
	PricePerUnit       float64 `json:"price_per_unit"`
	AvailableStock     float64 `json:"available_stock"`
	MinOrderQuantity   float64 `json:"min_order_quantity"`
	DeliveryCharge     float64 `json:"delivery_charge"`
	DeliveryChargeType string  `json:"delivery_charge_type"`
	IsAvailable        bool    `json:"is_available"`
}

func (req listingRequest) toParams() service.ListingParams {
	return service.ListingParams{
		Title:              req.Title,
		Category:           req.Category,
		Unit:               req.Unit,
		PricePerUnit:       req.PricePerUnit,
		AvailableStock:     req.AvailableStock,
		MinOrderQuantity:   req.MinOrderQuantity,
		DeliveryCharge:     req.DeliveryCharge,
		DeliveryChargeType: entity.DeliveryChargeType(req.DeliveryChargeType),
		IsAvailable:        req.IsAvailable,
	}
}

func (h *ListingHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}

	listing, err := h.listings.CreateListing(r.Context(), actorFrom(r.Context()), req.toParams())
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusCreated, listing)
}

func (h *ListingHandler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}

	listing, err := h.listings.UpdateListing(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "listingID"), req.toParams())
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, listing)
}

func (h *ListingHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.GetListing(r.Context(), chi.URLParam(r, "listingID"))
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, listing)
}

func (h *ListingHandler) HandleListListings(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	listings, err := h.listings.ListListings(r.Context(), repository.ListListingsParams{
		SellerID:      r.URL.Query().Get("seller_id"),
		OnlyAvailable: r.URL.Query().Get("available") == "true",
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, listings)
}
