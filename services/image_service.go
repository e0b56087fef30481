package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/apperrors"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	aws_pkg "github.com/Jaypatel0924/Sweet-Shop-Management-System/pkg/aws"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultUploadExpiry = 15 * time.Minute

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ObjectPresigner issues presigned PUT requests. *aws.S3Presigner satisfies it.
type ObjectPresigner interface {
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (*aws_pkg.PresignedUpload, error)
}

// ImageService hands out direct-to-bucket upload URLs for sweet images.
type ImageService interface {
	PresignUpload(ctx context.Context, sweetID string, req *models.ImageUploadRequest) (*models.ImageUploadResponse, *apperrors.Error)
}

type ImageServiceConfig struct {
	PublicBaseURL string
	Expiry        time.Duration
}

type imageServiceImpl struct {
	sweets    repository.SweetRepository
	presigner ObjectPresigner
	cfg       ImageServiceConfig
	logger    *zap.Logger
}

// NewImageService returns an ImageService. A nil presigner reports the feature as unavailable.
func NewImageService(sweets repository.SweetRepository, presigner ObjectPresigner, cfg ImageServiceConfig, logger *zap.Logger) ImageService {
	if cfg.Expiry <= 0 {
		cfg.Expiry = defaultUploadExpiry
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return &imageServiceImpl{sweets: sweets, presigner: presigner, cfg: cfg, logger: logger}
}

func (s *imageServiceImpl) PresignUpload(ctx context.Context, sweetID string, req *models.ImageUploadRequest) (*models.ImageUploadResponse, *apperrors.Error) {
	if s.presigner == nil {
		return nil, apperrors.Unavailable("Image uploads are not configured")
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, apperrors.BadRequest("Unsupported image type")
	}
	if contentType == "image/jpeg" && strings.ToLower(path.Ext(req.Filename)) == ".jpeg" {
		ext = ".jpeg"
	}

	if _, err := s.sweets.FindByID(ctx, sweetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Sweet not found")
		}
		s.logger.Error("Failed to load sweet for upload", zap.String("sweet_id", sweetID), zap.Error(err))
		return nil, apperrors.Internal("Failed to create upload URL", err)
	}

	key := fmt.Sprintf("sweets/%s/%s%s", sweetID, uuid.NewString(), ext)
	upload, err := s.presigner.PresignPut(ctx, key, contentType, s.cfg.Expiry)
	if err != nil {
		s.logger.Error("Failed to presign upload", zap.String("key", key), zap.Error(err))
		return nil, apperrors.BadGateway("Failed to create upload URL", err)
	}

	s.logger.Info("Image upload URL issued", zap.String("sweet_id", sweetID), zap.String("key", key))
	return &models.ImageUploadResponse{
		UploadURL: upload.URL,
		Method:    "PUT",
		Headers:   upload.Headers,
		Key:       key,
		PublicURL: s.publicURL(key),
		ExpiresIn: int(s.cfg.Expiry.Seconds()),
	}, nil
}

func (s *imageServiceImpl) publicURL(key string) string {
	if s.cfg.PublicBaseURL == "" {
		return key
	}
	return s.cfg.PublicBaseURL + "/" + key
}
