package controllers

import (
	"net/http"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/apperrors"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/services"
	"github.com/gin-gonic/gin"
)

// SweetController handles HTTP requests for the catalog and inventory
type SweetController struct {
	service services.SweetService
	images  services.ImageService
}

// NewSweetController creates a new SweetController
func NewSweetController(service services.SweetService, images services.ImageService) *SweetController {
	return &SweetController{service: service, images: images}
}

// ListSweets returns the whole catalog, newest first
// GET /api/sweets
func (sc *SweetController) ListSweets(c *gin.Context) {
	sweets, appErr := sc.service.ListSweets(c.Request.Context())
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(sweets), "sweets": sweets})
}

// SearchSweets filters by name, category and price range
// GET /api/sweets/search?name=&category=&minPrice=&maxPrice=
func (sc *SweetController) SearchSweets(c *gin.Context) {
	minPrice, err := parsePriceParam(c, "minPrice")
	if err != nil {
		apperrors.Respond(c, apperrors.BadRequest("Invalid price filter"))
		return
	}
	maxPrice, err := parsePriceParam(c, "maxPrice")
	if err != nil {
		apperrors.Respond(c, apperrors.BadRequest("Invalid price filter"))
		return
	}

	sweets, appErr := sc.service.SearchSweets(c.Request.Context(), models.SweetSearch{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	})
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(sweets), "sweets": sweets})
}

// GetSweet returns one sweet
// GET /api/sweets/:id
func (sc *SweetController) GetSweet(c *gin.Context) {
	sweet, appErr := sc.service.GetSweet(c.Request.Context(), c.Param("id"))
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sweet": sweet})
}

// CreateSweet adds a sweet to the catalog
// POST /api/sweets
func (sc *SweetController) CreateSweet(c *gin.Context) {
	var req models.CreateSweetRequest
	if !bindJSON(c, &req) {
		return
	}

	sweet, appErr := sc.service.CreateSweet(c.Request.Context(), &req)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Sweet created successfully", "sweet": sweet})
}

// UpdateSweet applies a partial update
// PUT /api/sweets/:id
func (sc *SweetController) UpdateSweet(c *gin.Context) {
	var req models.UpdateSweetRequest
	if !bindJSON(c, &req) {
		return
	}

	sweet, appErr := sc.service.UpdateSweet(c.Request.Context(), c.Param("id"), &req)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sweet updated successfully", "sweet": sweet})
}

// DeleteSweet removes a sweet and returns the removed record
// DELETE /api/sweets/:id
func (sc *SweetController) DeleteSweet(c *gin.Context) {
	sweet, appErr := sc.service.DeleteSweet(c.Request.Context(), c.Param("id"))
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sweet deleted successfully", "sweet": sweet})
}

// PurchaseSweet decrements stock
// POST /api/sweets/:id/purchase
func (sc *SweetController) PurchaseSweet(c *gin.Context) {
	var req models.StockRequest
	if !bindJSON(c, &req) {
		return
	}

	sweet, appErr := sc.service.PurchaseSweet(c.Request.Context(), c.Param("id"), req.Quantity)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Purchase successful", "sweet": sweet})
}

// RestockSweet increments stock
// POST /api/sweets/:id/restock
func (sc *SweetController) RestockSweet(c *gin.Context) {
	var req models.StockRequest
	if !bindJSON(c, &req) {
		return
	}

	sweet, appErr := sc.service.RestockSweet(c.Request.Context(), c.Param("id"), req.Quantity)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restock successful", "sweet": sweet})
}

// CreateImageUploadURL issues a presigned PUT for the sweet's image
// POST /api/sweets/:id/image-upload-url
func (sc *SweetController) CreateImageUploadURL(c *gin.Context) {
	var req models.ImageUploadRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, appErr := sc.images.PresignUpload(c.Request.Context(), c.Param("id"), &req)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, upload)
}
