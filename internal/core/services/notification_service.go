package services

import (
	"context"
	"log"
	"time"

	"agrismart-api/internal/adapters/persistence/models"
	"agrismart-api/internal/core/domain"
)

// Routing keys for published events
const (
	EventIdentityCreated = "user.created"
	EventInquirySent     = "inquiry.created"
)

const publishTimeout = 3 * time.Second

// IdentityCreatedEvent is published when a sync creates a new account
type IdentityCreatedEvent struct {
	UserID    string      `json:"userId"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// InquirySentEvent is published when a buyer messages a farmer
type InquirySentEvent struct {
	MessageID string    `json:"messageId"`
	BuyerID   string    `json:"buyerId"`
	FarmerID  string    `json:"farmerId"`
	ProductID string    `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationService fans domain events out to the broker. Delivery is
// best-effort: failures are logged and never reach the caller.
type NotificationService struct {
	publisher EventPublisher
}

// NewNotificationService creates a new notification service
func NewNotificationService(publisher EventPublisher) *NotificationService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &NotificationService{publisher: publisher}
}

// IdentityCreated announces a new account
func (s *NotificationService) IdentityCreated(ctx context.Context, user *models.User) {
	if s == nil || user == nil {
		return
	}
	s.publish(ctx, EventIdentityCreated, IdentityCreatedEvent{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	})
}

// InquirySent announces a new buyer inquiry so the farmer can be alerted
func (s *NotificationService) InquirySent(ctx context.Context, msg *models.Message) {
	if s == nil || msg == nil {
		return
	}
	s.publish(ctx, EventInquirySent, InquirySentEvent{
		MessageID: msg.ID,
		BuyerID:   msg.BuyerID,
		FarmerID:  msg.FarmerID,
		ProductID: msg.ProductID,
		CreatedAt: msg.CreatedAt,
	})
}

func (s *NotificationService) publish(ctx context.Context, key string, payload any) {
	// Detach from the request so a finished response does not cancel delivery.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, key, payload); err != nil {
		log.Printf("⚠️ Failed to publish %s: %v", key, err)
	}
}
