package config

import (
	"context"
	"errors"
	"fmt"
	"log"

	"agrismart-api/internal/adapters/persistence/models"
	"agrismart-api/internal/adapters/persistence/repositories"
	"agrismart-api/internal/core/domain"
	"agrismart-api/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	users repositories.UserRepository
	cfg   *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(users repositories.UserRepository, cfg *Config) *Seeder {
	return &Seeder{users: users, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(ctx); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the bootstrap admin from SEED_ADMIN_* when no
// account with that email exists yet. Admins cannot self-register.
func (s *Seeder) seedAdminUser(ctx context.Context) error {
	email := domain.NormalizeEmail(s.cfg.SeedAdmin.Email)
	if email == "" {
		return nil
	}
	if !password.ValidatePassword(s.cfg.SeedAdmin.Password) {
		return fmt.Errorf("SEED_ADMIN_PASSWORD must be %d to %d bytes", password.MinLength, password.MaxLength)
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil // already present
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := password.Hash(s.cfg.SeedAdmin.Password, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleAdmin,
		Phone:        "-",
		Location:     "-",
		Approved:     true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}
