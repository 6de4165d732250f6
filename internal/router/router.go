package router

import (
	"github.com/pizzeria-next/internal/cache"
	"github.com/pizzeria-next/internal/http/handlers/admin"
	"github.com/pizzeria-next/internal/http/handlers/public"
	"github.com/pizzeria-next/internal/logger"
	"github.com/pizzeria-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Setup builds the HTTP engine: public storefront API plus the protected
// back-office API.
func Setup(container *provider.Container) *gin.Engine {
	cfg := container.Config

	gin.SetMode(resolveGinMode(cfg.Server.Mode))
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestIDMiddleware())
	engine.Use(LoggerMiddleware(logger.Z()))
	engine.Use(CORSMiddleware(cfg.CORS))
	engine.Use(SessionMiddleware())

	engine.Static("/uploads", cfg.Upload.Dir)
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	publicHandler := public.New(container)
	adminHandler := admin.New(container)

	api := engine.Group("/api")
	{
		api.GET("/categories", publicHandler.ListCategories)
		api.GET("/products", publicHandler.ListProducts)
		api.GET("/products/:slug", publicHandler.GetProduct)
		api.GET("/products/:slug/reviews", publicHandler.ListReviews)
		api.POST("/products/:slug/reviews", publicHandler.CreateReview)
		api.GET("/rate", publicHandler.GetRate)

		cart := api.Group("/cart")
		{
			cart.GET("", publicHandler.GetCart)
			cart.POST("/open", publicHandler.OpenCart)
			cart.POST("/items", publicHandler.AddItem)
			cart.PATCH("/items/:item_id", publicHandler.UpdateItemQuantity)
			cart.DELETE("/items/:item_id", publicHandler.RemoveItem)
			cart.DELETE("", publicHandler.ClearCart)
			cart.PUT("/customer", publicHandler.SetCustomer)
			cart.PUT("/delivery", publicHandler.SetDelivery)
			cart.PUT("/language", publicHandler.SetLanguage)
			cart.GET("/orders", publicHandler.ListSessionOrders)
		}

		api.POST("/checkout", publicHandler.Checkout)
	}

	adminAPI := engine.Group("/api/admin")
	{
		adminAPI.GET("/captcha", adminHandler.GetCaptcha)

		loginLimit := RateLimitMiddleware(cache.Client(), RateLimitRule{
			Prefix:        "ratelimit:admin_login",
			WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
			MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
			MessageKey:    "error.login_too_many",
		}, KeyByIPAndJSONField("username"))
		adminAPI.POST("/login", loginLimit, adminHandler.Login)

		protected := adminAPI.Group("")
		protected.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, container.AdminRepo))
		{
			protected.GET("/me", adminHandler.Me)

			protected.GET("/categories", adminHandler.ListCategories)
			protected.POST("/categories", adminHandler.CreateCategory)
			protected.PUT("/categories/:id", adminHandler.UpdateCategory)
			protected.DELETE("/categories/:id", adminHandler.DeleteCategory)

			protected.GET("/products", adminHandler.ListProducts)
			protected.GET("/products/:id", adminHandler.GetProduct)
			protected.POST("/products", adminHandler.CreateProduct)
			protected.PUT("/products/:id", adminHandler.UpdateProduct)
			protected.PATCH("/products/:id/availability", adminHandler.SetProductAvailability)
			protected.DELETE("/products/:id", adminHandler.DeleteProduct)

			protected.GET("/orders", adminHandler.ListOrders)
			protected.GET("/orders/changes", adminHandler.OrderChanges)
			protected.GET("/orders/:id", adminHandler.GetOrder)
			protected.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)

			protected.DELETE("/reviews/:id", adminHandler.DeleteReview)

			protected.POST("/upload", adminHandler.Upload)
		}
	}

	return engine
}

func resolveGinMode(mode string) string {
	switch mode {
	case gin.ReleaseMode:
		return gin.ReleaseMode
	case gin.TestMode:
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
