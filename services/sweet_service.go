package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/apperrors"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	aws_pkg "github.com/Jaypatel0924/Sweet-Shop-Management-System/pkg/aws"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SweetService defines the catalog and inventory operations.
type SweetService interface {
	CreateSweet(ctx context.Context, req *models.CreateSweetRequest) (*models.Sweet, *apperrors.Error)
	ListSweets(ctx context.Context) ([]*models.Sweet, *apperrors.Error)
	SearchSweets(ctx context.Context, q models.SweetSearch) ([]*models.Sweet, *apperrors.Error)
	GetSweet(ctx context.Context, id string) (*models.Sweet, *apperrors.Error)
	UpdateSweet(ctx context.Context, id string, req *models.UpdateSweetRequest) (*models.Sweet, *apperrors.Error)
	DeleteSweet(ctx context.Context, id string) (*models.Sweet, *apperrors.Error)
	PurchaseSweet(ctx context.Context, id string, quantity int) (*models.Sweet, *apperrors.Error)
	RestockSweet(ctx context.Context, id string, quantity int) (*models.Sweet, *apperrors.Error)
}

type sweetServiceImpl struct {
	repo    repository.SweetRepository
	metrics MetricsRecorder
	logger  *zap.Logger
}

func NewSweetService(repo repository.SweetRepository, metrics MetricsRecorder, logger *zap.Logger) SweetService {
	return &sweetServiceImpl{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *sweetServiceImpl) CreateSweet(ctx context.Context, req *models.CreateSweetRequest) (*models.Sweet, *apperrors.Error) {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)
	if name == "" || category == "" || req.Price == nil || req.Quantity == nil {
		return nil, apperrors.BadRequest("Name, category, price, and quantity are required")
	}
	if *req.Price < 0 {
		return nil, apperrors.BadRequest("Price cannot be negative")
	}
	if *req.Quantity < 0 {
		return nil, apperrors.BadRequest("Quantity cannot be negative")
	}

	sweet := &models.Sweet{
		ID:          uuid.NewString(),
		Name:        name,
		Category:    category,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
		Description: strings.TrimSpace(req.Description),
		Image:       strings.TrimSpace(req.Image),
	}
	if err := s.repo.Create(ctx, sweet); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.BadRequest("Sweet already exists")
		}
		s.logger.Error("Failed to create sweet", zap.Error(err))
		return nil, apperrors.Internal("Failed to create sweet", err)
	}

	s.logger.Info("Sweet created", zap.String("sweet_id", sweet.ID), zap.String("name", sweet.Name))
	return sweet, nil
}

func (s *sweetServiceImpl) ListSweets(ctx context.Context) ([]*models.Sweet, *apperrors.Error) {
	sweets, err := s.repo.Search(ctx, models.SweetSearch{})
	if err != nil {
		s.logger.Error("Failed to list sweets", zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch sweets", err)
	}
	return sweets, nil
}

// SearchSweets filters the catalog. An inverted price range matches nothing.
func (s *sweetServiceImpl) SearchSweets(ctx context.Context, q models.SweetSearch) ([]*models.Sweet, *apperrors.Error) {
	q.Name = strings.TrimSpace(q.Name)
	q.Category = strings.TrimSpace(q.Category)
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return []*models.Sweet{}, nil
	}

	sweets, err := s.repo.Search(ctx, q)
	if err != nil {
		s.logger.Error("Failed to search sweets", zap.Error(err))
		return nil, apperrors.Internal("Search failed", err)
	}
	return sweets, nil
}

func (s *sweetServiceImpl) GetSweet(ctx context.Context, id string) (*models.Sweet, *apperrors.Error) {
	sweet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err, "Failed to fetch sweet", id)
	}
	return sweet, nil
}

func (s *sweetServiceImpl) UpdateSweet(ctx context.Context, id string, req *models.UpdateSweetRequest) (*models.Sweet, *apperrors.Error) {
	if req == nil || req.IsEmpty() {
		return nil, apperrors.BadRequest("No update data provided")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.BadRequest("Name cannot be empty")
		}
		req.Name = &name
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, apperrors.BadRequest("Category cannot be empty")
		}
		req.Category = &category
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, apperrors.BadRequest("Price cannot be negative")
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, apperrors.BadRequest("Quantity cannot be negative")
	}

	sweet, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, s.mapError(err, "Failed to update sweet", id)
	}
	s.logger.Info("Sweet updated", zap.String("sweet_id", id))
	return sweet, nil
}

func (s *sweetServiceImpl) DeleteSweet(ctx context.Context, id string) (*models.Sweet, *apperrors.Error) {
	sweet, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.mapError(err, "Failed to delete sweet", id)
	}
	s.logger.Info("Sweet deleted", zap.String("sweet_id", id))
	return sweet, nil
}

// PurchaseSweet takes quantity out of stock in one conditional update.
// Stock is untouched when it cannot cover the full quantity.
func (s *sweetServiceImpl) PurchaseSweet(ctx context.Context, id string, quantity int) (*models.Sweet, *apperrors.Error) {
	if quantity < 1 {
		return nil, apperrors.BadRequest("Valid quantity is required")
	}

	sweet, err := s.repo.DecrementStock(ctx, id, quantity)
	if errors.Is(err, repository.ErrInsufficientStock) {
		recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricOutOfStock, map[string]string{"SweetId": id})
		return nil, apperrors.BadRequest("Insufficient quantity in stock")
	}
	if err != nil {
		return nil, s.mapError(err, "Purchase failed", id)
	}

	recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricSweetsPurchased, map[string]string{"Category": sweet.Category})
	s.logger.Info("Sweet purchased",
		zap.String("sweet_id", id),
		zap.Int("quantity", quantity),
		zap.Int("remaining", sweet.Quantity),
	)
	return sweet, nil
}

func (s *sweetServiceImpl) RestockSweet(ctx context.Context, id string, quantity int) (*models.Sweet, *apperrors.Error) {
	if quantity < 1 {
		return nil, apperrors.BadRequest("Valid quantity is required")
	}

	sweet, err := s.repo.IncrementStock(ctx, id, quantity)
	if err != nil {
		return nil, s.mapError(err, "Restock failed", id)
	}

	s.logger.Info("Sweet restocked",
		zap.String("sweet_id", id),
		zap.Int("quantity", quantity),
		zap.Int("stock", sweet.Quantity),
	)
	return sweet, nil
}

func (s *sweetServiceImpl) mapError(err error, msg, id string) *apperrors.Error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("Sweet not found")
	}
	s.logger.Error(msg, zap.String("sweet_id", id), zap.Error(err))
	return apperrors.Internal(msg, err)
}
