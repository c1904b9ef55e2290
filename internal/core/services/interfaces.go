package services

import (
	"context"

	"agrismart-api/internal/adapters/persistence/models"
)

// Note: AuthService implementation is in auth_service.go

// EventPublisher delivers domain events to an external broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
func (NoopPublisher) Close() error                               { return nil }

// AuthResult bundles the identity and its fresh session credential.
type AuthResult struct {
	User  *models.User
	Token string
}

// SyncInput is one identity-provider event.
type SyncInput struct {
	ClerkID  string
	Email    string
	Name     string
	Role     string
	Phone    string
	Location string
}

// RegisterInput represents legacy registration input
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
	Location string
}

// LoginInput represents legacy login input
type LoginInput struct {
	Email    string
	Password string
}

// CreateProductInput carries a new listing. Price and Quantity are pointers
// so a missing value is distinguishable from zero.
type CreateProductInput struct {
	Name        string
	Category    string
	Price       *float64
	Quantity    *float64
	Unit        string
	Description string
	Image       string
}

// UpdateProductInput carries a partial update; nil means unchanged.
type UpdateProductInput struct {
	Name        *string
	Category    *string
	Price       *float64
	Quantity    *float64
	Unit        *string
	Description *string
	Image       *string
}

// SendMessageInput carries a buyer inquiry
type SendMessageInput struct {
	FarmerID  string
	ProductID string
	Message   string
}
