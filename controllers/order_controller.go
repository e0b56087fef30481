package controllers

import (
	"net/http"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/apperrors"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/middleware"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/services"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService services.OrderService
}

func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder places an order and opens a payment intent for it
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, appErr := oc.orderService.CreateOrder(c.Request.Context(), userID, &req)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": models.CreateOrderResponse{
		ID:                    order.ID,
		PaymentIntentID:       order.PaymentIntentID,
		TotalAmount:           order.TotalAmount,
		EstimatedDeliveryDate: order.EstimatedDeliveryDate,
		OrderStatus:           order.OrderStatus,
		PaymentStatus:         order.PaymentStatus,
	}})
}

// VerifyPayment checks the checkout signature and confirms the order
func (oc *OrderController) VerifyPayment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.VerifyPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	order, appErr := oc.orderService.VerifyPayment(c.Request.Context(), userID, middleware.IsAdmin(c), &req)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment verified successfully", "order": order})
}

// GetAllOrders returns every order (admin only)
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, appErr := oc.orderService.ListOrders(c.Request.Context())
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetMyOrders returns the caller's orders
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	orders, appErr := oc.orderService.ListUserOrders(c.Request.Context(), userID)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderByID returns an order to its owner or an admin
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	order, appErr := oc.orderService.GetOrder(c.Request.Context(), c.Param("orderId"), userID, middleware.IsAdmin(c))
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus advances an order (admin only)
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, appErr := oc.orderService.UpdateOrderStatus(c.Request.Context(), c.Param("orderId"), req.OrderStatus)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
}

// CancelOrder cancels the caller's own order
func (oc *OrderController) CancelOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	order, appErr := oc.orderService.CancelOrder(c.Request.Context(), c.Param("orderId"), userID)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order": order})
}
