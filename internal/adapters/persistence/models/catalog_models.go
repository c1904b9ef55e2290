package models

import (
	"time"

	"agrismart-api/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Catalog & Inquiries
// ============================================================

// Product represents products table
type Product struct {
	ID          string          `gorm:"type:char(36);primaryKey" json:"_id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Category    domain.Category `gorm:"size:20;not null;index" json:"category"`
	Price       float64         `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity    float64         `gorm:"type:decimal(12,2);not null" json:"quantity"`
	Unit        domain.Unit     `gorm:"size:10;not null" json:"unit"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Image       string          `gorm:"size:1024" json:"image"`
	FarmerID    string          `gorm:"type:char(36);not null;index" json:"farmer"`
	Approved    bool            `gorm:"not null;index" json:"approved"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relations
	Farmer *User `gorm:"foreignKey:FarmerID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProductResponse DTO
type ProductResponse struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Category    domain.Category `json:"category"`
	Price       float64         `json:"price"`
	Quantity    float64         `json:"quantity"`
	Unit        domain.Unit     `json:"unit"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	FarmerID    string          `json:"farmer"`
	Approved    bool            `json:"approved"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (p *Product) ToResponse() *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Unit:        p.Unit,
		Description: p.Description,
		Image:       p.Image,
		FarmerID:    p.FarmerID,
		Approved:    p.Approved,
		CreatedAt:   p.CreatedAt,
	}
}

// ProductsToResponse converts a slice, never returning nil.
func ProductsToResponse(products []*Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, p.ToResponse())
	}
	return out
}

// ProductListing is the catalog view: farmer carries the owner's contact
// card instead of the bare id. It is null when the owner no longer exists.
type ProductListing struct {
	*ProductResponse
	Farmer *UserSummary `json:"farmer"`
}

func (p *Product) ToListing() *ProductListing {
	return &ProductListing{
		ProductResponse: p.ToResponse(),
		Farmer:          p.Farmer.ToSummary(),
	}
}

// ProductsToListing converts a slice of products loaded with their farmer.
func ProductsToListing(products []*Product) []*ProductListing {
	out := make([]*ProductListing, 0, len(products))
	for _, p := range products {
		out = append(out, p.ToListing())
	}
	return out
}

// Message represents messages table (buyer inquiry to a farmer)
type Message struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"_id"`
	BuyerID   string    `gorm:"type:char(36);not null;index" json:"buyer"`
	FarmerID  string    `gorm:"type:char(36);not null;index" json:"farmer"`
	ProductID string    `gorm:"type:char(36);not null;index" json:"product"`
	Body      string    `gorm:"column:message;type:text;not null" json:"message"`
	Read      bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`

	// Relations
	Buyer   *User    `gorm:"foreignKey:BuyerID" json:"-"`
	Farmer  *User    `gorm:"foreignKey:FarmerID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ProductRef is the product stub embedded in message views.
type ProductRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// MessageResponse DTO
type MessageResponse struct {
	ID        string       `json:"_id"`
	Buyer     *UserSummary `json:"buyer,omitempty"`
	Farmer    *UserSummary `json:"farmer,omitempty"`
	Product   *ProductRef  `json:"product,omitempty"`
	Message   string       `json:"message"`
	Read      bool         `json:"read"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (m *Message) ToResponse() *MessageResponse {
	resp := &MessageResponse{
		ID:        m.ID,
		Buyer:     m.Buyer.ToSummary(),
		Farmer:    m.Farmer.ToSummary(),
		Message:   m.Body,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
	if m.Product != nil {
		resp.Product = &ProductRef{ID: m.Product.ID, Name: m.Product.Name}
	}
	return resp
}

// InboxItem is the flattened view a farmer sees for each inquiry.
type InboxItem struct {
	ID          string    `json:"_id"`
	BuyerName   string    `json:"buyerName"`
	BuyerEmail  string    `json:"buyerEmail"`
	BuyerPhone  string    `json:"buyerPhone"`
	ProductName string    `json:"productName"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (m *Message) ToInboxItem() *InboxItem {
	item := &InboxItem{
		ID:          m.ID,
		BuyerName:   "Unknown Buyer",
		ProductName: "Unknown Product",
		Message:     m.Body,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt,
	}
	if m.Buyer != nil {
		item.BuyerName = m.Buyer.Name
		item.BuyerEmail = m.Buyer.Email
		item.BuyerPhone = m.Buyer.Phone
	}
	if m.Product != nil {
		item.ProductName = m.Product.Name
	}
	return item
}
