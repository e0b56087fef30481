package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeedConfig controls which seed steps run.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	DemoUsers     bool
}

type demoUser struct {
	email    string
	username string
	password string
}

var demoUsers = []demoUser{
	{email: "customer@example.com", username: "customer1", password: "password123"},
	{email: "user@example.com", username: "sweetheart", password: "password123"},
}

var initialSweets = []models.Sweet{
	{Name: "Chocolate Truffle", Category: "Chocolate", Price: 2.99, Quantity: 50},
	{Name: "Strawberry Cheesecake", Category: "Dessert", Price: 4.99, Quantity: 30},
	{Name: "Vanilla Macarons", Category: "Pastry", Price: 3.49, Quantity: 45},
	{Name: "Caramel Popcorn", Category: "Candy", Price: 2.49, Quantity: 60},
	{Name: "Dark Chocolate Bark", Category: "Chocolate", Price: 3.99, Quantity: 40},
	{Name: "Fruit Gummies", Category: "Candy", Price: 1.99, Quantity: 100},
	{Name: "Lemon Tart", Category: "Pastry", Price: 3.99, Quantity: 25},
	{Name: "Cinnamon Donuts", Category: "Dessert", Price: 1.49, Quantity: 80},
	{Name: "Mint Chocolate Chip", Category: "Chocolate", Price: 4.49, Quantity: 35},
	{Name: "Rainbow Lollipops", Category: "Candy", Price: 0.99, Quantity: 150},
}

// Seeder populates an empty deployment with an admin, demo users and a catalog.
type Seeder struct {
	users  repository.UserRepository
	sweets repository.SweetRepository
	cfg    SeedConfig
	logger *zap.Logger
}

func NewSeeder(users repository.UserRepository, sweets repository.SweetRepository, cfg SeedConfig, logger *zap.Logger) *Seeder {
	return &Seeder{users: users, sweets: sweets, cfg: cfg, logger: logger}
}

// Run executes every seed step. Each step is skipped when its data already exists.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedAdmin(ctx); err != nil {
		return err
	}
	if s.cfg.DemoUsers {
		if err := s.seedDemoUsers(ctx); err != nil {
			return err
		}
	}
	return s.seedSweets(ctx)
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		s.logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	count, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		s.logger.Info("Admin user already exists")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(s.cfg.AdminEmail))
	username := strings.SplitN(email, "@", 2)[0]
	if err := s.createUser(ctx, email, username, s.cfg.AdminPassword, models.RoleAdmin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info("Admin user created", zap.String("email", email))
	return nil
}

func (s *Seeder) seedDemoUsers(ctx context.Context) error {
	count, err := s.users.CountByRole(ctx, models.RoleUser)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		s.logger.Info("Demo users already exist")
		return nil
	}

	for _, u := range demoUsers {
		if err := s.createUser(ctx, u.email, u.username, u.password, models.RoleUser); err != nil {
			return fmt.Errorf("create demo user %s: %w", u.email, err)
		}
	}
	s.logger.Info("Demo users created", zap.Int("count", len(demoUsers)))
	return nil
}

func (s *Seeder) seedSweets(ctx context.Context) error {
	count, err := s.sweets.Count(ctx)
	if err != nil {
		return fmt.Errorf("count sweets: %w", err)
	}
	if count > 0 {
		s.logger.Info("Sweets already exist", zap.Int64("count", count))
		return nil
	}

	for _, sweet := range initialSweets {
		sweet.ID = uuid.NewString()
		if err := s.sweets.Create(ctx, &sweet); err != nil {
			return fmt.Errorf("create sweet %s: %w", sweet.Name, err)
		}
	}
	s.logger.Info("Initial sweets created", zap.Int("count", len(initialSweets)))
	return nil
}

func (s *Seeder) createUser(ctx context.Context, email, username, password, role string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.Create(ctx, &models.User{
		ID:       uuid.New(),
		Email:    email,
		Username: username,
		Password: hash,
		Role:     role,
	})
}
