package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/metrics"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/service"
)

type RouterDeps struct {
	JWTSecret     string
	UserRepo      repository.UserRepository
	Listings      service.ListingService
	Carts         service.CartService
	Checkout      service.CheckoutService
	Payments      service.PaymentService
	Orders        service.OrderService
	Tracking      service.TrackingService
	Disputes      service.DisputeService
	Admin         service.AdminService
	Notifications service.NotificationService
	Reviews       service.ReviewService
	Log           logger.Logger
	Metrics       *metrics.Manager
}

func NewRouter(deps RouterDeps) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(Observe(deps.Metrics))

	listingHandler := NewListingHandler(deps.Listings, deps.Log, deps.Metrics)
	cartHandler := NewCartHandler(deps.Carts, deps.Log, deps.Metrics)
	checkoutHandler := NewCheckoutHandler(deps.Checkout, deps.Payments, deps.Log, deps.Metrics)
	orderHandler := NewOrderHandler(deps.Orders, deps.Tracking, deps.Disputes, deps.Log, deps.Metrics)
	adminHandler := NewAdminHandler(deps.Admin, deps.Disputes, deps.Log, deps.Metrics)
	notificationHandler := NewNotificationHandler(deps.Notifications, deps.Log, deps.Metrics)
	reviewHandler := NewReviewHandler(deps.Reviews, deps.Log, deps.Metrics)

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public catalogue.
	mux.Get("/api/listings", listingHandler.HandleListListings)
	mux.Get("/api/listings/{listingID}", listingHandler.HandleGetListing)
	mux.Get("/api/listings/{listingID}/reviews", reviewHandler.HandleListForListing)

	// Everything else requires a valid token.
	mux.Group(func(r chi.Router) {
		r.Use(JWTAuth(deps.JWTSecret, deps.UserRepo, deps.Log, deps.Metrics))

		r.Post("/api/listings", listingHandler.HandleCreateListing)
		r.Put("/api/listings/{listingID}", listingHandler.HandleUpdateListing)

		r.Get("/api/cart", cartHandler.HandleGetCart)
		r.Post("/api/cart/items", cartHandler.HandleAddItem)
		r.Patch("/api/cart/items/{listingID}", cartHandler.HandleUpdateItem)
		r.Delete("/api/cart/items/{listingID}", cartHandler.HandleRemoveItem)

		r.Post("/api/checkout", checkoutHandler.HandleInitiateCheckout)
		r.Post("/api/payments/confirm", checkoutHandler.HandleConfirmPayment)

		r.Get("/api/orders", orderHandler.HandleListMyOrders)
		r.Get("/api/orders/{orderID}", orderHandler.HandleGetOrder)
		r.Get("/api/orders/{orderID}/tracking", orderHandler.HandleTrackingHistory)
		r.Post("/api/orders/{orderID}/tracking", orderHandler.HandleUpdateTracking)
		r.Post("/api/orders/{orderID}/dispute", orderHandler.HandleOpenDispute)

		r.Post("/api/reviews", reviewHandler.HandleCreateReview)

		r.Get("/api/notifications", notificationHandler.HandleList)
		r.Get("/api/notifications/unread-count", notificationHandler.HandleUnreadCount)
		r.Post("/api/notifications/{notificationID}/read", notificationHandler.HandleMarkRead)
		r.Post("/api/notifications/read-all", notificationHandler.HandleMarkAllRead)

		r.Get("/api/admin/orders", adminHandler.HandleListOrders)
		r.Post("/api/admin/orders/{orderID}/dispute/resolve", adminHandler.HandleResolveDispute)
		r.Post("/api/admin/orders/{orderID}/payout/settle", adminHandler.HandleSettlePayout)
	})

	return mux
}
