package repositories

import (
	"context"

	"agrismart-api/internal/adapters/persistence/models"
	"agrismart-api/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByClerkID(ctx context.Context, clerkID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}

// ProductFilter narrows the public catalog listing
type ProductFilter struct {
	Category domain.Category // empty means any
	Search   string          // case-insensitive substring over name and description
}

// ProductRepository defines product repository interface
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	ListApproved(ctx context.Context, filter ProductFilter) ([]*models.Product, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]*models.Product, error)
	List(ctx context.Context, offset, limit int) ([]*models.Product, int64, error)
	CountPending(ctx context.Context) (int64, error)
}

// MessageRepository defines message repository interface
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	GetWithParties(ctx context.Context, id string) (*models.Message, error)
	MarkRead(ctx context.Context, id string) error
	ListByFarmer(ctx context.Context, farmerID string) ([]*models.Message, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]*models.Message, error)
	CountUnread(ctx context.Context) (int64, error)
}
