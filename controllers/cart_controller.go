package controllers

import (
	"net/http"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/apperrors"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/services"
	"github.com/gin-gonic/gin"
)

// CartController serves the caller's cart and wishlist
type CartController struct {
	cartService services.CartService
}

func NewCartController(cartService services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

func (cc *CartController) GetCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cart, appErr := cc.cartService.GetCart(c.Request.Context(), userID)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// SaveCart replaces the cart with the posted items
func (cc *CartController) SaveCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.SaveCartRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, appErr := cc.cartService.SaveCart(c.Request.Context(), userID, req.Items)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart saved", "cart": cart})
}

func (cc *CartController) ClearCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if appErr := cc.cartService.ClearCart(c.Request.Context(), userID); appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

func (cc *CartController) GetWishlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	wishlist, appErr := cc.cartService.GetWishlist(c.Request.Context(), userID)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": wishlist})
}

func (cc *CartController) AddToWishlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	wishlist, appErr := cc.cartService.AddToWishlist(c.Request.Context(), userID, c.Param("sweetId"))
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": wishlist})
}

func (cc *CartController) RemoveFromWishlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	wishlist, appErr := cc.cartService.RemoveFromWishlist(c.Request.Context(), userID, c.Param("sweetId"))
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": wishlist})
}
