package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/datamartgh/backend/internal/handlers"
	"github.com/datamartgh/backend/internal/middleware"
	"github.com/datamartgh/backend/internal/models"
)

// Handlers bundles everything RegisterRoutes needs to wire the API surface
type Handlers struct {
	Auth           *handlers.AuthHandler
	Orders         *handlers.OrderHandler
	Wallet         *handlers.WalletHandler
	AdminWallet    *handlers.AdminWalletHandler
	Bundles        *handlers.BundleHandler
	Settings       *handlers.SettingsHandler
	SMS            *handlers.SMSHandler
	PaymentWebhook *handlers.PaymentWebhookHandler
}

// RegisterRoutes registers all API routes. Admin groups are gated per
// capability rather than per role name, so wallet admins reach the wallet
// adjustment endpoints without getting catalog or settings access.
func RegisterRoutes(router *gin.Engine, h Handlers, rateLimiter *middleware.RateLimiter) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	// Webhooks authenticate by signature, not by bearer token
	router.POST("/api/webhooks/paystack", h.PaymentWebhook.HandlePaystackWebhook)

	auth := router.Group("/api/auth")
	auth.Use(rateLimiter.AuthMiddleware())
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}

	api := router.Group("/api")
	api.Use(rateLimiter.Middleware(), middleware.AuthMiddleware())
	{
		api.GET("/me", h.Auth.Me)

		api.GET("/bundles", h.Bundles.List)
		api.GET("/bundles/:id", h.Bundles.Get)

		api.GET("/wallet", h.Wallet.GetBalance)
		api.GET("/wallet/transactions", h.Wallet.GetTransactions)
		api.POST("/wallet/deposit", h.Wallet.InitiateDeposit)
		api.GET("/wallet/deposit/verify/:reference", h.Wallet.VerifyDeposit)

		api.POST("/orders/place", h.Orders.PlaceOrder)
		api.POST("/orders/bulk-purchase", h.Orders.BulkPurchase)
		api.GET("/orders", h.Orders.ListMyOrders)
		api.GET("/orders/:id", h.Orders.GetOrder)
		api.GET("/orders/reference/:reference", h.Orders.LookupByReference)

		api.PUT("/orders/:id/status",
			middleware.RequireCapability(func(caps models.Capabilities) bool { return caps.CanTransitionOrders }),
			h.Orders.UpdateStatus)
	}

	admin := router.Group("/api/admin")
	admin.Use(rateLimiter.Middleware(), middleware.AuthMiddleware())
	{
		admin.GET("/orders",
			middleware.RequireCapability(func(caps models.Capabilities) bool { return caps.CanViewAllOrders }),
			h.Orders.ListAllOrders)

		walletAdmin := admin.Group("/users/:id/wallet")
		{
			walletAdmin.POST("/deposit",
				middleware.RequireCapability(func(caps models.Capabilities) bool { return caps.CanCreditWallet }),
				h.AdminWallet.Credit)
			walletAdmin.POST("/debit",
				middleware.RequireCapability(func(caps models.Capabilities) bool { return caps.CanDebitWallet }),
				h.AdminWallet.Debit)
		}

		bundles := admin.Group("/bundles")
		bundles.Use(middleware.RequireCapability(func(caps models.Capabilities) bool { return caps.CanManageBundles }))
		{
			bundles.POST("", h.Bundles.Create)
			bundles.PUT("/:id", h.Bundles.Update)
			bundles.DELETE("/:id", h.Bundles.Delete)
		}

		settings := admin.Group("/settings")
		settings.Use(middleware.RequireCapability(func(caps models.Capabilities) bool { return caps.CanManageSettings }))
		{
			settings.GET("", h.Settings.Get)
			settings.PUT("", h.Settings.Update)
		}

		smsGroup := admin.Group("/sms")
		smsGroup.Use(middleware.RequireCapability(func(caps models.Capabilities) bool { return caps.CanBroadcastSMS }))
		{
			smsGroup.POST("/broadcast", h.SMS.Broadcast)
			smsGroup.GET("/broadcast/:id", h.SMS.BroadcastStatus)
		}
	}
}
