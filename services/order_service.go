package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/apperrors"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/events"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	aws_pkg "github.com/Jaypatel0924/Sweet-Shop-Management-System/pkg/aws"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	deliveryDateLayout    = "2006-01-02"
	defaultDeliveryDays   = 5
	subtotalTolerance     = 0.01
	defaultOrderCurrency  = "inr"
	paymentReceiptPattern = "order_%s"
)

var (
	phonePattern   = regexp.MustCompile(`^\d{10}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
	validate       = validator.New()
)

// OrderService defines the order lifecycle operations.
type OrderService interface {
	CreateOrder(ctx context.Context, userID string, req *models.CreateOrderRequest) (*models.Order, *apperrors.Error)
	VerifyPayment(ctx context.Context, userID string, isAdmin bool, req *models.VerifyPaymentRequest) (*models.Order, *apperrors.Error)
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, *apperrors.Error)
	CancelOrder(ctx context.Context, orderID, userID string) (*models.Order, *apperrors.Error)
	GetOrder(ctx context.Context, orderID, userID string, isAdmin bool) (*models.Order, *apperrors.Error)
	ListOrders(ctx context.Context) ([]*models.Order, *apperrors.Error)
	ListUserOrders(ctx context.Context, userID string) ([]*models.Order, *apperrors.Error)
}

// OrderServiceConfig holds the payment settings used by the order service.
type OrderServiceConfig struct {
	Currency      string
	SigningSecret string
}

type orderServiceImpl struct {
	repo    repository.OrderRepository
	gateway PaymentGateway
	events  *events.OrderEvents
	metrics MetricsRecorder
	cfg     OrderServiceConfig
	logger  *zap.Logger
}

func NewOrderService(
	repo repository.OrderRepository,
	gateway PaymentGateway,
	orderEvents *events.OrderEvents,
	metrics MetricsRecorder,
	cfg OrderServiceConfig,
	logger *zap.Logger,
) OrderService {
	if cfg.Currency == "" {
		cfg.Currency = defaultOrderCurrency
	}
	return &orderServiceImpl{
		repo:    repo,
		gateway: gateway,
		events:  orderEvents,
		metrics: metrics,
		cfg:     cfg,
		logger:  logger,
	}
}

// CreateOrder validates the request, opens a payment intent and stores the
// order as placed with a pending payment. Nothing is stored when the gateway fails.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, userID string, req *models.CreateOrderRequest) (*models.Order, *apperrors.Error) {
	if appErr := validateOrderRequest(req); appErr != nil {
		return nil, appErr
	}

	deliveryDate, appErr := resolveDeliveryDate(req.EstimatedDeliveryDate)
	if appErr != nil {
		return nil, appErr
	}

	orderID := uuid.NewString()
	intentID, err := s.gateway.CreatePaymentIntent(ctx, ToMinorUnits(req.TotalAmount), s.cfg.Currency, fmt.Sprintf(paymentReceiptPattern, orderID))
	if err != nil {
		s.logger.Error("Failed to create payment intent", zap.String("order_id", orderID), zap.Error(err))
		return nil, apperrors.BadGateway("Failed to create payment intent", err)
	}

	order := &models.Order{
		ID:                    orderID,
		UserID:                userID,
		Items:                 req.Items,
		TotalAmount:           req.TotalAmount,
		PaymentStatus:         models.PaymentStatusPending,
		PaymentIntentID:       intentID,
		DeliveryInfo:          trimDeliveryInfo(req.DeliveryInfo),
		EstimatedDeliveryDate: deliveryDate,
		OrderStatus:           models.OrderStatusPlaced,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create order", zap.String("order_id", orderID), zap.Error(err))
		return nil, apperrors.Internal("Failed to create order", err)
	}

	s.events.Emit(ctx, models.EventOrderCreated, order, "")
	recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricOrdersCreated, nil)
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Float64("total_amount", order.TotalAmount),
		zap.String("payment_intent_id", intentID),
	)
	return order, nil
}

// VerifyPayment checks the checkout signature and confirms the order.
func (s *orderServiceImpl) VerifyPayment(ctx context.Context, userID string, isAdmin bool, req *models.VerifyPaymentRequest) (*models.Order, *apperrors.Error) {
	orderID := strings.TrimSpace(req.OrderID)
	paymentID := strings.TrimSpace(req.PaymentID)
	signature := strings.TrimSpace(req.Signature)
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, apperrors.BadRequest("Missing payment details")
	}

	order, appErr := s.findOrder(ctx, orderID)
	if appErr != nil {
		return nil, appErr
	}
	if order.UserID != userID && !isAdmin {
		return nil, apperrors.Forbidden("Unauthorized to verify this order")
	}
	if order.OrderStatus == models.OrderStatusCancelled {
		return nil, apperrors.BadRequest("Cannot verify payment for a cancelled order")
	}
	if order.PaymentStatus == models.PaymentStatusCompleted {
		if order.PaymentID == paymentID {
			return order, nil
		}
		return nil, apperrors.BadRequest("Payment already completed for this order")
	}

	if !VerifyPaymentSignature(s.cfg.SigningSecret, orderID, paymentID, signature) {
		if err := s.repo.MarkPaymentFailed(ctx, orderID); err != nil {
			s.logger.Error("Failed to mark payment failed", zap.String("order_id", orderID), zap.Error(err))
		}
		recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricPaymentFailed, nil)
		s.logger.Warn("Payment signature mismatch", zap.String("order_id", orderID), zap.String("user_id", userID))
		return nil, apperrors.BadRequest("Invalid payment signature")
	}

	if order.OrderStatus != models.OrderStatusPlaced {
		return nil, apperrors.BadRequest("Order is not awaiting payment")
	}

	previous := order.OrderStatus
	updated, err := s.repo.MarkPaid(ctx, orderID, paymentID)
	if errors.Is(err, repository.ErrStatusConflict) {
		// A concurrent verify with the same payment may have won the race.
		if current, ferr := s.repo.FindByID(ctx, orderID); ferr == nil &&
			current.PaymentStatus == models.PaymentStatusCompleted && current.PaymentID == paymentID {
			return current, nil
		}
		return nil, apperrors.Conflict("Order was modified concurrently, please retry")
	}
	if err != nil {
		return nil, s.mapError(err, "Payment verification failed", orderID)
	}

	s.events.Emit(ctx, models.EventOrderConfirmed, updated, previous)
	recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricPaymentSucceeded, nil)
	s.logger.Info("Payment verified", zap.String("order_id", orderID), zap.String("payment_id", paymentID))
	return updated, nil
}

// UpdateOrderStatus moves an order forward, or cancels it from placed or confirmed.
func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, *apperrors.Error) {
	if !status.IsValid() {
		return nil, apperrors.BadRequest("Invalid order status")
	}

	order, appErr := s.findOrder(ctx, orderID)
	if appErr != nil {
		return nil, appErr
	}
	if order.OrderStatus == models.OrderStatusCancelled {
		return nil, apperrors.BadRequest("Cannot update a cancelled order")
	}
	if err := models.ValidateTransition(order.OrderStatus, status); err != nil {
		return nil, apperrors.BadRequest(fmt.Sprintf("Invalid status transition from %s to %s", order.OrderStatus, status))
	}

	return s.transition(ctx, order, status)
}

// CancelOrder cancels the caller's own order while it is placed or confirmed.
func (s *orderServiceImpl) CancelOrder(ctx context.Context, orderID, userID string) (*models.Order, *apperrors.Error) {
	order, appErr := s.findOrder(ctx, orderID)
	if appErr != nil {
		return nil, appErr
	}
	if order.UserID != userID {
		return nil, apperrors.Forbidden("Unauthorized to cancel this order")
	}
	if !order.OrderStatus.Cancellable() {
		return nil, apperrors.BadRequest("Cannot cancel this order")
	}

	return s.transition(ctx, order, models.OrderStatusCancelled)
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID, userID string, isAdmin bool) (*models.Order, *apperrors.Error) {
	order, appErr := s.findOrder(ctx, orderID)
	if appErr != nil {
		return nil, appErr
	}
	if order.UserID != userID && !isAdmin {
		return nil, apperrors.Forbidden("Unauthorized to view this order")
	}
	return order, nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context) ([]*models.Order, *apperrors.Error) {
	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch orders", err)
	}
	return orders, nil
}

func (s *orderServiceImpl) ListUserOrders(ctx context.Context, userID string) ([]*models.Order, *apperrors.Error) {
	orders, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list user orders", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch orders", err)
	}
	return orders, nil
}

// transition writes the new status with a compare-and-set on the status read.
func (s *orderServiceImpl) transition(ctx context.Context, order *models.Order, to models.OrderStatus) (*models.Order, *apperrors.Error) {
	from := order.OrderStatus
	updated, err := s.repo.UpdateStatus(ctx, order.ID, from, to)
	if errors.Is(err, repository.ErrStatusConflict) {
		s.logger.Warn("Order status changed concurrently",
			zap.String("order_id", order.ID),
			zap.String("expected", string(from)),
			zap.String("target", string(to)),
		)
		return nil, apperrors.Conflict("Order status changed concurrently, please retry")
	}
	if err != nil {
		return nil, s.mapError(err, "Failed to update order", order.ID)
	}

	eventType := models.EventOrderStatusChanged
	if to == models.OrderStatusCancelled {
		eventType = models.EventOrderCancelled
		recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricOrdersCancelled, nil)
	}
	s.events.Emit(ctx, eventType, updated, from)
	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return updated, nil
}

func (s *orderServiceImpl) findOrder(ctx context.Context, orderID string) (*models.Order, *apperrors.Error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, s.mapError(err, "Failed to fetch order", orderID)
	}
	return order, nil
}

func (s *orderServiceImpl) mapError(err error, msg, orderID string) *apperrors.Error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("Order not found")
	}
	s.logger.Error(msg, zap.String("order_id", orderID), zap.Error(err))
	return apperrors.Internal(msg, err)
}

func validateOrderRequest(req *models.CreateOrderRequest) *apperrors.Error {
	if req == nil || len(req.Items) == 0 {
		return apperrors.BadRequest("Order must contain at least one item")
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.SweetID) == "" || item.Quantity < 1 || item.Price < 0 {
			return apperrors.BadRequest("Invalid order item")
		}
	}
	if req.TotalAmount <= 0 {
		return apperrors.BadRequest("Total amount must be greater than zero")
	}

	subtotal := (&models.Order{Items: req.Items}).Subtotal()
	if req.TotalAmount+subtotalTolerance < subtotal {
		return apperrors.BadRequest("Total amount cannot be less than the items subtotal")
	}

	d := trimDeliveryInfo(req.DeliveryInfo)
	if d.FullName == "" || d.Email == "" || d.Phone == "" || d.Street == "" ||
		d.City == "" || d.State == "" || d.Pincode == "" {
		return apperrors.BadRequest("Complete delivery information is required")
	}
	if !phonePattern.MatchString(d.Phone) {
		return apperrors.BadRequest("Phone number must be 10 digits")
	}
	if !pincodePattern.MatchString(d.Pincode) {
		return apperrors.BadRequest("Pincode must be 6 digits")
	}
	if err := validate.Var(d.Email, "email"); err != nil {
		return apperrors.BadRequest("Invalid email address")
	}
	return nil
}

func resolveDeliveryDate(requested string) (string, *apperrors.Error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return time.Now().UTC().AddDate(0, 0, defaultDeliveryDays).Format(deliveryDateLayout), nil
	}
	if _, err := time.Parse(deliveryDateLayout, requested); err != nil {
		return "", apperrors.BadRequest("Estimated delivery date must be YYYY-MM-DD")
	}
	return requested, nil
}

func trimDeliveryInfo(d models.DeliveryInfo) models.DeliveryInfo {
	return models.DeliveryInfo{
		FullName: strings.TrimSpace(d.FullName),
		Email:    strings.TrimSpace(d.Email),
		Phone:    strings.TrimSpace(d.Phone),
		Street:   strings.TrimSpace(d.Street),
		City:     strings.TrimSpace(d.City),
		State:    strings.TrimSpace(d.State),
		Pincode:  strings.TrimSpace(d.Pincode),
	}
}
