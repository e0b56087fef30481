package controllers

import (
	"context"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/apperrors"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	"github.com/stretchr/testify/mock"
)

func appErrAt(args mock.Arguments, i int) *apperrors.Error {
	if e, ok := args.Get(i).(*apperrors.Error); ok {
		return e
	}
	return nil
}

// --- Sweet service ---
type MockSweetService struct {
	mock.Mock
}

func (m *MockSweetService) sweetResult(args mock.Arguments) (*models.Sweet, *apperrors.Error) {
	s, _ := args.Get(0).(*models.Sweet)
	return s, appErrAt(args, 1)
}

func (m *MockSweetService) CreateSweet(ctx context.Context, req *models.CreateSweetRequest) (*models.Sweet, *apperrors.Error) {
	return m.sweetResult(m.Called(ctx, req))
}

func (m *MockSweetService) ListSweets(ctx context.Context) ([]*models.Sweet, *apperrors.Error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]*models.Sweet)
	return s, appErrAt(args, 1)
}

func (m *MockSweetService) SearchSweets(ctx context.Context, q models.SweetSearch) ([]*models.Sweet, *apperrors.Error) {
	args := m.Called(ctx, q)
	s, _ := args.Get(0).([]*models.Sweet)
	return s, appErrAt(args, 1)
}

func (m *MockSweetService) GetSweet(ctx context.Context, id string) (*models.Sweet, *apperrors.Error) {
	return m.sweetResult(m.Called(ctx, id))
}

func (m *MockSweetService) UpdateSweet(ctx context.Context, id string, req *models.UpdateSweetRequest) (*models.Sweet, *apperrors.Error) {
	return m.sweetResult(m.Called(ctx, id, req))
}

func (m *MockSweetService) DeleteSweet(ctx context.Context, id string) (*models.Sweet, *apperrors.Error) {
	return m.sweetResult(m.Called(ctx, id))
}

func (m *MockSweetService) PurchaseSweet(ctx context.Context, id string, quantity int) (*models.Sweet, *apperrors.Error) {
	return m.sweetResult(m.Called(ctx, id, quantity))
}

func (m *MockSweetService) RestockSweet(ctx context.Context, id string, quantity int) (*models.Sweet, *apperrors.Error) {
	return m.sweetResult(m.Called(ctx, id, quantity))
}

// --- Image service ---
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) PresignUpload(ctx context.Context, sweetID string, req *models.ImageUploadRequest) (*models.ImageUploadResponse, *apperrors.Error) {
	args := m.Called(ctx, sweetID, req)
	r, _ := args.Get(0).(*models.ImageUploadResponse)
	return r, appErrAt(args, 1)
}

// --- Order service ---
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) orderResult(args mock.Arguments) (*models.Order, *apperrors.Error) {
	o, _ := args.Get(0).(*models.Order)
	return o, appErrAt(args, 1)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, userID string, req *models.CreateOrderRequest) (*models.Order, *apperrors.Error) {
	return m.orderResult(m.Called(ctx, userID, req))
}

func (m *MockOrderService) VerifyPayment(ctx context.Context, userID string, isAdmin bool, req *models.VerifyPaymentRequest) (*models.Order, *apperrors.Error) {
	return m.orderResult(m.Called(ctx, userID, isAdmin, req))
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, *apperrors.Error) {
	return m.orderResult(m.Called(ctx, orderID, status))
}

func (m *MockOrderService) CancelOrder(ctx context.Context, orderID, userID string) (*models.Order, *apperrors.Error) {
	return m.orderResult(m.Called(ctx, orderID, userID))
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID, userID string, isAdmin bool) (*models.Order, *apperrors.Error) {
	return m.orderResult(m.Called(ctx, orderID, userID, isAdmin))
}

func (m *MockOrderService) ListOrders(ctx context.Context) ([]*models.Order, *apperrors.Error) {
	args := m.Called(ctx)
	o, _ := args.Get(0).([]*models.Order)
	return o, appErrAt(args, 1)
}

func (m *MockOrderService) ListUserOrders(ctx context.Context, userID string) ([]*models.Order, *apperrors.Error) {
	args := m.Called(ctx, userID)
	o, _ := args.Get(0).([]*models.Order)
	return o, appErrAt(args, 1)
}

// --- Auth service ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, *apperrors.Error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*models.AuthResponse)
	return r, appErrAt(args, 1)
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *apperrors.Error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*models.AuthResponse)
	return r, appErrAt(args, 1)
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*models.UserResponse, *apperrors.Error) {
	args := m.Called(ctx, userID)
	r, _ := args.Get(0).(*models.UserResponse)
	return r, appErrAt(args, 1)
}

// --- Cart service ---
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, userID string) (*models.Cart, *apperrors.Error) {
	args := m.Called(ctx, userID)
	r, _ := args.Get(0).(*models.Cart)
	return r, appErrAt(args, 1)
}

func (m *MockCartService) SaveCart(ctx context.Context, userID string, items []models.OrderItem) (*models.Cart, *apperrors.Error) {
	args := m.Called(ctx, userID, items)
	r, _ := args.Get(0).(*models.Cart)
	return r, appErrAt(args, 1)
}

func (m *MockCartService) ClearCart(ctx context.Context, userID string) *apperrors.Error {
	return appErrAt(m.Called(ctx, userID), 0)
}

func (m *MockCartService) GetWishlist(ctx context.Context, userID string) (*models.Wishlist, *apperrors.Error) {
	args := m.Called(ctx, userID)
	r, _ := args.Get(0).(*models.Wishlist)
	return r, appErrAt(args, 1)
}

func (m *MockCartService) AddToWishlist(ctx context.Context, userID, sweetID string) (*models.Wishlist, *apperrors.Error) {
	args := m.Called(ctx, userID, sweetID)
	r, _ := args.Get(0).(*models.Wishlist)
	return r, appErrAt(args, 1)
}

func (m *MockCartService) RemoveFromWishlist(ctx context.Context, userID, sweetID string) (*models.Wishlist, *apperrors.Error) {
	args := m.Called(ctx, userID, sweetID)
	r, _ := args.Get(0).(*models.Wishlist)
	return r, appErrAt(args, 1)
}
