package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"agrismart-api/internal/adapters/persistence/models"
	"agrismart-api/internal/adapters/persistence/repositories"
	"agrismart-api/internal/core/domain"

	"gorm.io/gorm"
)

// MessageService handles buyer-to-farmer inquiries
type MessageService struct {
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	notify      *NotificationService
}

// NewMessageService creates a new message service
func NewMessageService(
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	productRepo repositories.ProductRepository,
	notify *NotificationService,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		notify:      notify,
	}
}

// Send stores an inquiry from buyer about one of the farmer's products
func (s *MessageService) Send(ctx context.Context, buyer *models.User, input *SendMessageInput) (*models.Message, error) {
	if err := Authorize(buyer, domain.RoleBuyer); err != nil {
		return nil, err
	}

	farmerID := strings.TrimSpace(input.FarmerID)
	productID := strings.TrimSpace(input.ProductID)
	body := strings.TrimSpace(input.Message)

	switch {
	case farmerID == "":
		return nil, domain.Invalid("farmerId", "Farmer is required")
	case productID == "":
		return nil, domain.Invalid("productId", "Product is required")
	case body == "":
		return nil, domain.Invalid("message", "Message is required")
	}

	farmer, err := s.userRepo.GetByID(ctx, farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFarmerNotFound
		}
		return nil, err
	}
	if farmer.Role != domain.RoleFarmer {
		return nil, domain.ErrFarmerNotFound
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	if product.FarmerID != farmer.ID {
		return nil, domain.Invalid("productId", "Product does not belong to this farmer")
	}

	msg := &models.Message{
		BuyerID:   buyer.ID,
		FarmerID:  farmer.ID,
		ProductID: product.ID,
		Body:      body,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.notify.InquirySent(ctx, msg)
	log.Printf("✅ Inquiry %s sent to farmer %s", msg.ID, farmer.Email)

	full, err := s.messageRepo.GetWithParties(ctx, msg.ID)
	if err != nil {
		// The message is stored; answer with what we already have.
		msg.Buyer, msg.Farmer, msg.Product = buyer, farmer, product
		return msg, nil
	}
	return full, nil
}

// FarmerInbox lists inquiries addressed to farmer
func (s *MessageService) FarmerInbox(ctx context.Context, farmerID string) ([]*models.InboxItem, error) {
	messages, err := s.messageRepo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	items := make([]*models.InboxItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, m.ToInboxItem())
	}
	return items, nil
}

// BuyerOutbox lists inquiries sent by buyer
func (s *MessageService) BuyerOutbox(ctx context.Context, buyerID string) ([]*models.MessageResponse, error) {
	messages, err := s.messageRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	out := make([]*models.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ToResponse())
	}
	return out, nil
}

// MarkRead flags an inquiry as read. Only the addressed farmer may do so.
func (s *MessageService) MarkRead(ctx context.Context, farmer *models.User, id string) error {
	if err := Authorize(farmer, domain.RoleFarmer); err != nil {
		return err
	}

	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrMessageNotFound
		}
		return err
	}

	if msg.FarmerID != farmer.ID {
		return domain.ErrNotMessageAddress
	}

	return s.messageRepo.MarkRead(ctx, msg.ID)
}
