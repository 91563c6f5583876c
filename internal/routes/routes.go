package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"crochet_storefront/internal/handlers"
	"crochet_storefront/internal/middleware"
)

// RegisterRoutes monte l'API de la boutique. allowedOrigins vide autorise
// toutes les origines (développement).
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, store sessions.Store, allowedOrigins []string) {
	r.Use(corsMiddleware(allowedOrigins))
	r.Use(middleware.Visitor(store))

	api := r.Group("/api")
	{
		api.GET("/config", h.GetConfig)
		api.GET("/health/gateway", h.CheckGateway)
		api.GET("/state", h.GetState)
		api.POST("/theme/toggle", h.ToggleTheme)
	}

	// Produits
	requireAdmin := middleware.RequireAdmin(h.IsAdmin)
	products := api.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/search", h.SearchProducts)
		products.POST("/editor", requireAdmin, h.OpenProductEditor)
		products.DELETE("/editor", h.CloseProductEditor)
		products.POST("", requireAdmin, h.CreateProduct)
		products.PUT("/:id", requireAdmin, h.UpdateProduct)
		products.DELETE("/:id", requireAdmin, h.DeleteProduct)
	}

	// Avis
	reviews := api.Group("/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.POST("/form", h.OpenReviewForm)
		reviews.DELETE("/form", h.CloseReviewForm)
		reviews.POST("", h.CreateReview)
	}

	api.POST("/images", h.UploadImage)

	// Panier
	cart := api.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddToCart)
		cart.DELETE("/items/:id", h.RemoveFromCart)
		cart.PATCH("/items/:id", h.UpdateQuantity)
		cart.POST("/open", h.OpenCart)
		cart.POST("/close", h.CloseCart)
	}

	// Commande WhatsApp
	checkout := api.Group("/checkout")
	{
		checkout.GET("", h.Checkout)
		checkout.GET("/message", h.CheckoutMessage)
		checkout.GET("/qr", h.CheckoutQR)
	}

	// Admin
	adminGroup := api.Group("/admin")
	{
		adminGroup.POST("/toggle", h.ToggleAdmin)
		adminGroup.POST("/login", h.AdminLogin)
		adminGroup.POST("/logout", h.AdminLogout)
		adminGroup.DELETE("/prompt", h.CloseAdminPrompt)
	}

	r.GET("/ws", h.Events)
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		// le cookie visiteur impose une origine explicite, pas "*"
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}
