package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/adapter/email"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/adapter/natsbus"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/adapter/postgres"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/adapter/razorpay"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/adapter/rediscache"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/app/config"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/metrics"
	httpport "github.com/kaustubh-ronge/KrishiConnect-sub000/internal/port/http"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/service"
)

// Run wires the whole order platform together and blocks until shutdown.
func Run(cfg *config.Config) error {
	log, err := logger.NewZapLogger(logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Infof("Starting KrishiConnect order platform (env: %s)", cfg.Env)

	db, err := postgres.InitDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to initialize postgres: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var listingCache repository.ListingCache
	redisClient, err := rediscache.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Warnf("Redis unavailable, listing cache disabled: %v", err)
	} else {
		defer redisClient.Close()
		listingCache = rediscache.NewListingCacheRepository(redisClient)
	}

	var publisher natsbus.MessagePublisher
	natsConn, err := natsbus.Connect(cfg.NATS.URL)
	if err != nil {
		log.Warnf("NATS unavailable, event publishing disabled: %v", err)
	} else {
		defer natsConn.Close()
		if publisher, err = natsbus.NewPublisher(natsConn); err != nil {
			return fmt.Errorf("failed to create NATS publisher: %w", err)
		}
	}

	var emailSender email.Sender
	if cfg.SMTP.Host != "" {
		emailSender, err = email.NewSMTPSender(cfg.SMTP, log)
		if err != nil {
			return fmt.Errorf("failed to initialize SMTP sender: %w", err)
		}
	} else {
		log.Warn("SMTP not configured, seller emails disabled")
	}

	gateway, err := razorpay.NewClient(cfg.Razorpay, log)
	if err != nil {
		return fmt.Errorf("failed to initialize payment gateway client: %w", err)
	}

	metricsManager := metrics.NewManager("krishiconnect")
	go func() {
		if err := metrics.StartServer(cfg.Metrics.Port, log, metricsManager.Registry); err != nil && err != http.ErrServerClosed {
			log.Errorf("Metrics server stopped: %v", err)
		}
	}()

	txManager := postgres.NewTxManager(db)
	userRepo := postgres.NewUserRepository(db)
	listingRepo := postgres.NewListingRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	trackingRepo := postgres.NewOrderTrackingRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, log)
	listingService := service.NewListingService(txManager, listingRepo, userRepo, listingCache, cfg.ListingCache.TTL, log)
	cartService := service.NewCartService(txManager, cartRepo, listingRepo, listingCache, cfg.ListingCache.TTL, log)
	checkoutService := service.NewCheckoutService(txManager, cartRepo, listingRepo, orderRepo, gateway, metricsManager, cfg.Razorpay.Currency, log)
	paymentService := service.NewPaymentService(txManager, orderRepo, cartRepo, userRepo, gateway, notificationService, publisher, emailSender, metricsManager, log)
	orderService := service.NewOrderService(orderRepo, log)
	trackingService := service.NewTrackingService(txManager, orderRepo, trackingRepo, notificationService, publisher, log)
	disputeService := service.NewDisputeService(txManager, orderRepo, trackingRepo, userRepo, notificationService, publisher, metricsManager, cfg.Dispute.Window, log)
	adminService := service.NewAdminService(txManager, orderRepo, notificationService, publisher, metricsManager, log)
	reviewService := service.NewReviewService(txManager, reviewRepo, orderRepo, listingRepo, userRepo, listingCache, log)

	router := httpport.NewRouter(httpport.RouterDeps{
		JWTSecret:     cfg.JWT.Secret,
		UserRepo:      userRepo,
		Listings:      listingService,
		Carts:         cartService,
		Checkout:      checkoutService,
		Payments:      paymentService,
		Orders:        orderService,
		Tracking:      trackingService,
		Disputes:      disputeService,
		Admin:         adminService,
		Notifications: notificationService,
		Reviews:       reviewService,
		Log:           log,
		Metrics:       metricsManager,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on :%s", cfg.HTTPServer.Port)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.TimeoutGraceful)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
		return err
	}
	log.Info("Server stopped cleanly")
	return nil
}
