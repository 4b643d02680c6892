package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a citizen registered through the mobile app
type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ClerkID   string `gorm:"size:64;uniqueIndex;not null" json:"clerk_id"` // Subject ID from the auth provider
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`
	Phone     string `gorm:"size:32" json:"phone"`

	// Address tiers; nil means not provided
	Region   *string `gorm:"size:100;index:idx_user_address" json:"region"`
	City     *string `gorm:"size:100;index:idx_user_address" json:"city"`
	Barangay *string `gorm:"size:100;index:idx_user_address" json:"barangay"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// HasAddress checks if the user has a complete address
func (u *User) HasAddress() bool {
	return u.Region != nil && u.City != nil && u.Barangay != nil
}

// FullName returns first and last name joined
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
