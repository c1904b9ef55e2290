package models

import (
	"time"

	"agrismart-api/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Identity
// ============================================================

// User represents users table
type User struct {
	ID           string      `gorm:"type:char(36);primaryKey" json:"_id"`
	ClerkID      *string     `gorm:"size:64;uniqueIndex" json:"clerkId,omitempty"`
	Name         string      `gorm:"size:100;not null" json:"name"`
	Email        string      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"column:password;size:255" json:"-"`
	Role         domain.Role `gorm:"size:10;not null;index" json:"role"`
	Phone        string      `gorm:"size:30;not null" json:"phone"`
	Location     string      `gorm:"size:255;not null" json:"location"`
	Approved     bool        `gorm:"not null;index" json:"approved"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the opaque internal id.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave enforces the record invariants the schema cannot express.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if !u.Role.Valid() {
		return domain.Invalid("role", "Role must be one of farmer, buyer, admin")
	}
	if !u.HasExternalIdentity() && u.PasswordHash == "" {
		return domain.Invalid("password", "Password is required")
	}
	return nil
}

// HasExternalIdentity reports whether the account is linked to the identity provider.
func (u *User) HasExternalIdentity() bool {
	return u.ClerkID != nil && *u.ClerkID != ""
}

// UserResponse DTO. It has no password field at all.
type UserResponse struct {
	ID        string      `json:"_id"`
	ClerkID   string      `json:"clerkId,omitempty"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Phone     string      `json:"phone"`
	Location  string      `json:"location"`
	Approved  bool        `json:"approved"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
		Location:  u.Location,
		Approved:  u.Approved,
		CreatedAt: u.CreatedAt,
	}
	if u.ClerkID != nil {
		resp.ClerkID = *u.ClerkID
	}
	return resp
}

// UserSummary is the public contact card embedded in products and messages.
type UserSummary struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

func (u *User) ToSummary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Location: u.Location,
	}
}

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Product{},
		&Message{},
	)
}
