package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tindahan-pos/internal/config"
	domainRepo "github.com/sangkips/tindahan-pos/internal/domain/repository"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/handler"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/middleware"
	"github.com/sangkips/tindahan-pos/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth       *handler.AuthHandler
	Product    *handler.ProductHandler
	Customer   *handler.CustomerHandler
	Order      *handler.OrderHandler
	Settlement *handler.SettlementHandler
	Rider      *handler.RiderHandler
	Shift      *handler.ShiftHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/auth/me", h.Auth.Me)

	// Settlement writes replay safely when the client retries with the
	// same Idempotency-Key.
	idem := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	// Catalog
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", middleware.RequireRole("manager"), h.Product.Create)
		products.PATCH("/:id", middleware.RequireRole("manager"), h.Product.Update)
	}

	// Customers
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.POST("", h.Customer.Create)
	}

	// Orders and settlement
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
		orders.POST("", h.Order.Create)
		orders.PUT("/:id/items", h.Order.Amend)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.POST("/:id/settle-cash", idem, h.Settlement.SettleCash)
		orders.POST("/:id/settle-delivery", idem, h.Settlement.SettleDelivery)
	}

	// Rider run receipts and variances
	protected.POST("/run-receipts", idem, h.Rider.CaptureReceipt)
	variances := protected.Group("/variances")
	{
		variances.GET("", middleware.RequireRole("manager"), h.Rider.ListVariances)
		variances.POST("/:id/decide", middleware.RequireRole("manager"), h.Rider.DecideVariance)
		variances.POST("/:id/accept", h.Rider.AcceptCharge)
	}
	protected.GET("/rider-charges", h.Rider.ListCharges)

	// Shifts and drawer
	shifts := protected.Group("/shifts")
	{
		shifts.POST("", middleware.RequireRole("manager"), h.Shift.Open)
		shifts.GET("/current", h.Shift.Current)
		shifts.POST("/:id/accept-opening", h.Shift.AcceptOpening)
		shifts.POST("/:id/dispute-opening", h.Shift.DisputeOpening)
		shifts.POST("/:id/correct-opening", middleware.RequireRole("manager"), h.Shift.CorrectOpening)
		shifts.POST("/:id/submit-closing", h.Shift.SubmitClosing)
		shifts.POST("/:id/final-close", middleware.RequireRole("manager"), h.Shift.FinalClose)
		shifts.POST("/:id/drawer-txns", idem, h.Shift.PostDrawerTxn)
		shifts.GET("/:id/drawer", h.Shift.DrawerStatus)
	}

	// Accounts-receivable cash
	protected.POST("/ar-payments", idem, h.Shift.ReceiveARPayment)
}
