package services

import (
	"context"
	"errors"
	"log"

	"agrismart-api/internal/adapters/persistence/models"
	"agrismart-api/internal/adapters/persistence/repositories"
	"agrismart-api/internal/core/domain"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// AdminService handles moderation of users and products
type AdminService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	messageRepo repositories.MessageRepository
}

// NewAdminService creates a new admin service
func NewAdminService(
	userRepo repositories.UserRepository,
	productRepo repositories.ProductRepository,
	messageRepo repositories.MessageRepository,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		productRepo: productRepo,
		messageRepo: messageRepo,
	}
}

// Stats summarises the marketplace for moderators
type Stats struct {
	Farmers         int64 `json:"farmers"`
	Buyers          int64 `json:"buyers"`
	Admins          int64 `json:"admins"`
	PendingUsers    int64 `json:"pendingUsers"`
	PendingProducts int64 `json:"pendingProducts"`
	UnreadMessages  int64 `json:"unreadMessages"`
}

// ListUsers lists every account newest first
func (s *AdminService) ListUsers(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, offset, limit)
}

// ListProducts lists every product, approved or not
func (s *AdminService) ListProducts(ctx context.Context, offset, limit int) ([]*models.Product, int64, error) {
	return s.productRepo.List(ctx, offset, limit)
}

// ApproveUser marks an account approved
func (s *AdminService) ApproveUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.Approved = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User approved: %s", user.Email)
	return user, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, actor *models.User, id string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if actor != nil && user.ID == actor.ID {
		return domain.ErrCannotDeleteSelf
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}

	log.Printf("✅ User deleted: %s", user.Email)
	return nil
}

// ApproveProduct marks a product approved
func (s *AdminService) ApproveProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	product.Approved = true
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	log.Printf("✅ Product approved: %s", product.ID)
	return product, nil
}

// DeleteProduct removes any product
func (s *AdminService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrProductNotFound
		}
		return err
	}

	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return err
	}

	log.Printf("✅ Product deleted by admin: %s", product.ID)
	return nil
}

// Stats runs the counters concurrently
func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Farmers, err = s.userRepo.CountByRole(ctx, domain.RoleFarmer)
		return err
	})
	g.Go(func() (err error) {
		stats.Buyers, err = s.userRepo.CountByRole(ctx, domain.RoleBuyer)
		return err
	})
	g.Go(func() (err error) {
		stats.Admins, err = s.userRepo.CountByRole(ctx, domain.RoleAdmin)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingUsers, err = s.userRepo.CountPending(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingProducts, err = s.productRepo.CountPending(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.UnreadMessages, err = s.messageRepo.CountUnread(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
