// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/miastore/storefront/internal/config"
	"github.com/miastore/storefront/internal/handlers"
	"github.com/miastore/storefront/internal/middleware"
	"github.com/miastore/storefront/internal/services"
	"github.com/miastore/storefront/internal/utils"
)

func Initialize(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	// Initialize services
	productService := services.NewProductService(db)

	cartStorage := services.NewRedisCartStorage(rdb, cfg.Cart)
	cartService := services.NewCartService(productService, cartStorage, cfg.Cart)

	authService := services.NewAuthService(db, cfg)
	orderService := services.NewOrderService(db, cartService)
	paymentService := services.NewPaymentService(db, orderService, cfg)
	wishlistService := services.NewWishlistService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
			auth.PUT("/me", middleware.AuthRequired(), authHandler.UpdateProfile)
		}

		// Product routes (public browse)
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.GetProducts)
			products.GET("/popular", productHandler.GetPopularProducts)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", productHandler.GetCategories)
			categories.GET("/:slug", productHandler.GetCategory)
		}

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:lineId", cartHandler.UpdateQuantity)
			cart.PUT("/items/:lineId/variants", cartHandler.UpdateVariants)
			cart.DELETE("/items/:lineId", cartHandler.RemoveItem)
			cart.GET("/quantity/:productId", cartHandler.GetItemQuantity)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", middleware.CheckoutRateLimit(), orderHandler.CreateOrder)
			orders.GET("", orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrder)
		}

		// Payment routes
		payments := v1.Group("/payments")
		{
			payments.POST("", middleware.AuthRequired(), middleware.CheckoutRateLimit(), paymentHandler.CreatePayment)
			// Gateway redirect target, authenticated by signature
			payments.GET("/callback", paymentHandler.HandleCallback)
		}

		// Wishlist routes
		wishlist := v1.Group("/wishlist")
		wishlist.Use(middleware.AuthRequired())
		{
			wishlist.GET("", wishlistHandler.GetWishlist)
			wishlist.POST("", wishlistHandler.AddItem)
			wishlist.DELETE("/:id", wishlistHandler.RemoveItem)
			wishlist.GET("/contains/:productId", wishlistHandler.Contains)
		}
	}

	return r
}
