package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/datamartgh/backend/internal/cache"
	"github.com/datamartgh/backend/internal/config"
	"github.com/datamartgh/backend/internal/database"
	"github.com/datamartgh/backend/internal/handlers"
	"github.com/datamartgh/backend/internal/jobs"
	"github.com/datamartgh/backend/internal/middleware"
	"github.com/datamartgh/backend/internal/queue"
	"github.com/datamartgh/backend/internal/routes"
	"github.com/datamartgh/backend/internal/services/delivery"
	"github.com/datamartgh/backend/internal/services/order"
	"github.com/datamartgh/backend/internal/services/payment"
	"github.com/datamartgh/backend/internal/services/payment/providers/paystack"
	"github.com/datamartgh/backend/internal/services/pricing"
	"github.com/datamartgh/backend/internal/services/sms"
	"github.com/datamartgh/backend/internal/services/wallet"
)

func main() {
	cfg := config.LoadConfig()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "development" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logrus.SetLevel(logrus.DebugLevel)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize database")
	}
	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		// Settings fall back to direct database reads without Redis
		logrus.WithError(err).Warn("redis unavailable, settings cache disabled")
		redisClient = nil
	}

	// Services
	walletService := wallet.NewWalletService(db)
	pricingService := pricing.NewPricingService(db)
	settingsCache := cache.NewSettingsCache(db, redisClient)
	deliveryClient := delivery.NewClient(cfg.DeliveryGateway)
	smsClient := sms.NewClient(cfg.SMS)
	notifier := sms.NewNotifier(smsClient)
	orderService := order.NewOrderService(db, pricingService, walletService, deliveryClient, notifier, settingsCache)

	paystackProvider := paystack.NewProvider(cfg.Paystack)
	callbackURL := fmt.Sprintf("%s/wallet/deposit/callback", cfg.FrontendURL)
	paymentService := payment.NewPaymentService(db, walletService, paystackProvider, callbackURL)

	// Background work
	jobQueue := queue.NewQueue(db)
	jobs.RegisterSMSBroadcastHandler(jobQueue, smsClient)
	jobQueue.StartProcessing()

	staleSweep := jobs.NewStaleOrderSweep(db)
	staleSweep.Start()

	rateLimiter := middleware.NewRateLimiter(20, 40)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(router, routes.Handlers{
		Auth:           handlers.NewAuthHandler(db),
		Orders:         handlers.NewOrderHandler(db, orderService),
		Wallet:         handlers.NewWalletHandler(db, walletService, paymentService),
		AdminWallet:    handlers.NewAdminWalletHandler(walletService),
		Bundles:        handlers.NewBundleHandler(db),
		Settings:       handlers.NewSettingsHandler(settingsCache),
		SMS:            handlers.NewSMSHandler(jobQueue, settingsCache),
		PaymentWebhook: handlers.NewPaymentWebhookHandler(paymentService, cfg.Paystack.SecretKey),
	}, rateLimiter)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server")

	staleSweep.Stop()
	jobQueue.StopProcessing()
	rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}

	logrus.Info("server exiting")
}
