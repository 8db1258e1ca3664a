package routes

import (
	"net/http"
	"time"

	"surplus-food-api/config"
	"surplus-food-api/handlers"
	"surplus-food-api/metrics"
	"surplus-food-api/middleware"
	"surplus-food-api/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps are the components the router wires into the middleware chain
type Deps struct {
	Config  *config.Config
	Handler *handlers.Handler
	Tokens  *middleware.TokenIssuer
	Limiter *middleware.RateLimiter
	Metrics *metrics.Metrics
	Log     *logrus.Logger
}

// NewRouter builds the engine with the global middleware and every API route
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(d.Metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", d.Handler.Health)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Surplus Food Marketplace API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []models.UserRole{models.RoleCustomer, models.RoleRestaurant},
		})
	})

	SetupRoutes(r, d)
	return r
}

func SetupRoutes(r *gin.Engine, d Deps) {
	h := d.Handler
	authRequired := middleware.AuthRequired(d.Tokens)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth, rate limited per client
		public.POST("/auth/register", d.Limiter.Handler(), h.Register)
		public.POST("/auth/login", d.Limiter.Handler(), h.Login)

		public.GET("/dietary-restrictions", h.ListRestrictions)
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes (any role) ────────────────────────────
	auth := r.Group("/api")
	auth.Use(authRequired)
	{
		auth.GET("/auth/me", h.Me)

		auth.GET("/restaurants/search", h.SearchRestaurants)
		auth.GET("/restaurants/:id/menu", h.GetMenu)
		auth.GET("/restaurants/:id/pickup-slots", h.GetPickupSlots)

		auth.GET("/discovery/restaurants", d.Limiter.Handler(), h.DiscoverRestaurants)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api")
	customer.Use(authRequired, middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("/users/restrictions", h.SetMyRestrictions)

		customer.POST("/orders", h.PlaceOrder)
		customer.GET("/orders", h.GetMyOrders)
		customer.GET("/orders/:id", h.GetOrderDetail)
		customer.PATCH("/orders/:id/cancel", h.CancelOrder)
	}

	// ── Restaurant owner routes ────────────────────────────────────
	restaurant := r.Group("/api/restaurant")
	restaurant.Use(authRequired, middleware.RoleRequired(models.RoleRestaurant))
	{
		// Restaurant profile
		restaurant.POST("", h.CreateRestaurant)
		restaurant.GET("", h.GetMyRestaurant)
		restaurant.PUT("", h.UpdateRestaurant)

		// Inventory
		restaurant.GET("/inventory", h.GetInventory)
		restaurant.POST("/foods", h.AddFood)
		restaurant.POST("/foods/import", h.ImportFoods)
		restaurant.DELETE("/foods/:foodId", h.DeleteFood)

		// Pickup slots
		restaurant.GET("/pickup-slots", h.ListMySlots)
		restaurant.POST("/pickup-slots", h.CreateSlot)
		restaurant.DELETE("/pickup-slots/:slotId", h.DeleteSlot)

		// Order management
		restaurant.GET("/orders", h.GetRestaurantOrders)
		restaurant.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	}
}
