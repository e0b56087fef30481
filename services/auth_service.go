package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/apperrors"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// ITokenService issues access tokens.
type ITokenService interface {
	GenerateAccessToken(userID, email, role string) (string, error)
	ValidateToken(tokenStr string) (*TokenClaims, error)
}

// AuthService defines registration, login and identity lookup.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, *apperrors.Error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *apperrors.Error)
	Me(ctx context.Context, userID string) (*models.UserResponse, *apperrors.Error)
}

type authServiceImpl struct {
	userRepo     repository.UserRepository
	tokenService ITokenService
	logger       *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokenService ITokenService, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo:     userRepo,
		tokenService: tokenService,
		logger:       logger,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, *apperrors.Error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" || username == "" || req.Password == "" || req.ConfirmPassword == "" {
		return nil, apperrors.BadRequest("All fields are required")
	}
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.BadRequest("Passwords do not match")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperrors.BadRequest("Password must be at least 6 characters")
	}

	exists, err := s.userRepo.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		s.logger.Error("Failed to check existing user", zap.Error(err))
		return nil, apperrors.Internal("Registration failed", err)
	}
	if exists {
		return nil, apperrors.BadRequest("User with this email or username already exists")
	}

	user, appErr := s.createUser(ctx, email, username, req.Password, models.RoleUser)
	if appErr != nil {
		return nil, appErr
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.authResponse("User registered successfully", user)
}

func (s *authServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *apperrors.Error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperrors.BadRequest("Email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		s.logger.Error("Failed to load user", zap.Error(err))
		return nil, apperrors.Internal("Login failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, apperrors.Unauthorized("Invalid password")
	}

	return s.authResponse("Login successful", user)
}

func (s *authServiceImpl) Me(ctx context.Context, userID string) (*models.UserResponse, *apperrors.Error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.NotFound("User not found")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		s.logger.Error("Failed to load user", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch user", err)
	}

	resp := user.ToResponse()
	return &resp, nil
}

// createUser hashes password and stores a new user. A unique violation on
// insert is reported the same way as the pre-check.
func (s *authServiceImpl) createUser(ctx context.Context, email, username, password, role string) (*models.User, *apperrors.Error) {
	hash, err := HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, apperrors.Internal("Registration failed", err)
	}

	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Username: username,
		Password: hash,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.BadRequest("User with this email or username already exists")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, apperrors.Internal("Registration failed", err)
	}
	return user, nil
}

func (s *authServiceImpl) authResponse(message string, user *models.User) (*models.AuthResponse, *apperrors.Error) {
	token, err := s.tokenService.GenerateAccessToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to generate token", err)
	}
	return &models.AuthResponse{
		Message: message,
		Token:   token,
		User:    user.ToResponse(),
	}, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
