package services

import (
	"context"
	"strings"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/apperrors"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/repository"
	"go.uber.org/zap"
)

// CartService manages per-user cart and wishlist state.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, *apperrors.Error)
	SaveCart(ctx context.Context, userID string, items []models.OrderItem) (*models.Cart, *apperrors.Error)
	ClearCart(ctx context.Context, userID string) *apperrors.Error
	GetWishlist(ctx context.Context, userID string) (*models.Wishlist, *apperrors.Error)
	AddToWishlist(ctx context.Context, userID, sweetID string) (*models.Wishlist, *apperrors.Error)
	RemoveFromWishlist(ctx context.Context, userID, sweetID string) (*models.Wishlist, *apperrors.Error)
}

type cartServiceImpl struct {
	repo   repository.CartRepository
	logger *zap.Logger
}

func NewCartService(repo repository.CartRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{repo: repo, logger: logger}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*models.Cart, *apperrors.Error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get cart", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch cart", err)
	}
	if cart == nil {
		return &models.Cart{UserID: userID, Items: []models.OrderItem{}}, nil
	}
	if cart.Items == nil {
		cart.Items = []models.OrderItem{}
	}
	return cart, nil
}

// SaveCart replaces the stored cart. Lines for the same sweet and size are merged.
func (s *cartServiceImpl) SaveCart(ctx context.Context, userID string, items []models.OrderItem) (*models.Cart, *apperrors.Error) {
	merged := make([]models.OrderItem, 0, len(items))
	index := make(map[string]int)
	for _, item := range items {
		item.SweetID = strings.TrimSpace(item.SweetID)
		if item.SweetID == "" || item.Quantity < 1 || item.Price < 0 {
			return nil, apperrors.BadRequest("Invalid cart item")
		}
		key := item.SweetID + "|" + item.SelectedSize
		if i, ok := index[key]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, item)
	}

	cart := &models.Cart{UserID: userID, Items: merged}
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal("Failed to save cart", err)
	}
	return cart, nil
}

func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) *apperrors.Error {
	if err := s.repo.DeleteCart(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		return apperrors.Internal("Failed to clear cart", err)
	}
	return nil
}

func (s *cartServiceImpl) GetWishlist(ctx context.Context, userID string) (*models.Wishlist, *apperrors.Error) {
	ids, err := s.repo.GetWishlist(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get wishlist", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch wishlist", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return &models.Wishlist{UserID: userID, SweetIDs: ids}, nil
}

func (s *cartServiceImpl) AddToWishlist(ctx context.Context, userID, sweetID string) (*models.Wishlist, *apperrors.Error) {
	sweetID = strings.TrimSpace(sweetID)
	if sweetID == "" {
		return nil, apperrors.BadRequest("Sweet ID is required")
	}
	if err := s.repo.AddToWishlist(ctx, userID, sweetID); err != nil {
		s.logger.Error("Failed to add to wishlist", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal("Failed to update wishlist", err)
	}
	return s.GetWishlist(ctx, userID)
}

func (s *cartServiceImpl) RemoveFromWishlist(ctx context.Context, userID, sweetID string) (*models.Wishlist, *apperrors.Error) {
	if err := s.repo.RemoveFromWishlist(ctx, userID, strings.TrimSpace(sweetID)); err != nil {
		s.logger.Error("Failed to remove from wishlist", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal("Failed to update wishlist", err)
	}
	return s.GetWishlist(ctx, userID)
}
