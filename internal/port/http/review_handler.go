package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/metrics"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/service"
)

type ReviewHandler struct {
	reviews service.ReviewService
	log     logger.Logger
	metrics *metrics.Manager
}

func NewReviewHandler(reviews service.ReviewService, log logger.Logger, m *metrics.Manager) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, log: log, metrics: m}
}

type createReviewRequest struct {
	OrderID   string `json:"order_id"`
	ListingID string `json:"listing_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h *ReviewHandler) HandleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}

	review, err := h.reviews.CreateReview(r.Context(), actorFrom(r.Context()), service.CreateReviewParams{
		OrderID:   req.OrderID,
		ListingID: req.ListingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusCreated, review)
}

func (h *ReviewHandler) HandleListForListing(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	reviews, err := h.reviews.ListForListing(r.Context(), chi.URLParam(r, "listingID"), page, pageSize)
	if err != nil {
		respondError(w, r, h.log, h.metrics, err)
		return
	}
	respondData(w, http.StatusOK, reviews)
}
