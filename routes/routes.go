package routes

import (
	"net/http"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/controllers"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups the controllers mounted under /api.
type Handlers struct {
	Auth   *controllers.AuthController
	Sweets *controllers.SweetController
	Orders *controllers.OrderController
	Cart   *controllers.CartController
}

// RegisterRoutes registers the health probe and every /api route. authLimiter
// throttles the public auth endpoints per client IP.
func RegisterRoutes(r *gin.Engine, h Handlers, tokens middleware.TokenValidator, authLimiter *middleware.RateLimiter) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	api := r.Group("/api")
	requireAuth := middleware.Auth(tokens)
	adminOnly := middleware.AdminOnly()

	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RateLimit(authLimiter), h.Auth.Register)
		auth.POST("/login", middleware.RateLimit(authLimiter), h.Auth.Login)
		auth.GET("/me", requireAuth, h.Auth.Me)
	}

	sweets := api.Group("/sweets")
	{
		// Public catalog
		sweets.GET("", h.Sweets.ListSweets)
		sweets.GET("/search", h.Sweets.SearchSweets)
		sweets.GET("/:id", h.Sweets.GetSweet)

		sweets.POST("/:id/purchase", requireAuth, h.Sweets.PurchaseSweet)

		admin := sweets.Group("", requireAuth, adminOnly)
		admin.POST("", h.Sweets.CreateSweet)
		admin.PUT("/:id", h.Sweets.UpdateSweet)
		admin.DELETE("/:id", h.Sweets.DeleteSweet)
		admin.POST("/:id/restock", h.Sweets.RestockSweet)
		admin.POST("/:id/image-upload-url", h.Sweets.CreateImageUploadURL)
	}

	orders := api.Group("/orders", requireAuth)
	{
		orders.POST("", h.Orders.CreateOrder)
		orders.POST("/verify-payment", h.Orders.VerifyPayment)
		orders.GET("/my-orders", h.Orders.GetMyOrders)
		orders.GET("/:orderId", h.Orders.GetOrderByID)
		orders.POST("/:orderId/cancel", h.Orders.CancelOrder)

		orders.GET("", adminOnly, h.Orders.GetAllOrders)
		orders.PUT("/:orderId/status", adminOnly, h.Orders.UpdateOrderStatus)
	}

	cart := api.Group("/cart", requireAuth)
	{
		cart.GET("", h.Cart.GetCart)
		cart.PUT("", h.Cart.SaveCart)
		cart.DELETE("", h.Cart.ClearCart)
	}

	wishlist := api.Group("/wishlist", requireAuth)
	{
		wishlist.GET("", h.Cart.GetWishlist)
		wishlist.POST("/:sweetId", h.Cart.AddToWishlist)
		wishlist.DELETE("/:sweetId", h.Cart.RemoveFromWishlist)
	}
}
