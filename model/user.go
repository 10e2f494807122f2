package model

import (
	"time"

	"gorm.io/gorm"
)

// User mirrors the account record owned by the external identity provider.
// Tokens are issued elsewhere; this row exists for the admin flag and for
// enriching payment listings with name/email.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Name      string         `gorm:"not null" json:"name"`
	IsAdmin   bool           `gorm:"default:false" json:"is_admin"`

	// Relationships
	Payments    []ManualPayment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Enrollments []Enrollment    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
