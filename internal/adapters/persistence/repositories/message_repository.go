package repositories

import (
	"context"

	"agrismart-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// messageRepository implements MessageRepository interface
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func contactFields(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "name", "email", "phone")
}

func productName(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "name")
}

// Create creates a new message
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Omit("Buyer", "Farmer", "Product").Create(message).Error
}

// GetByID gets a message by ID
func (r *messageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// GetWithParties gets a message with buyer, farmer and product stubs loaded
func (r *messageRepository) GetWithParties(ctx context.Context, id string) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Preload("Buyer", contactFields).
		Preload("Farmer", contactFields).
		Preload("Product", productName).
		Where("id = ?", id).
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// MarkRead sets the read flag
func (r *messageRepository) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

// ListByFarmer lists inquiries addressed to a farmer, newest first
func (r *messageRepository) ListByFarmer(ctx context.Context, farmerID string) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Preload("Buyer", contactFields).
		Preload("Product", productName).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// ListByBuyer lists inquiries sent by a buyer, newest first
func (r *messageRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Preload("Farmer", contactFields).
		Preload("Product", productName).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// CountUnread counts inquiries no farmer has opened yet
func (r *messageRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Where("is_read = ?", false).Count(&count).Error
	return count, err
}
