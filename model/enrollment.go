package model

import (
	"time"
)

// Enrollment statuses.
const (
	EnrollmentStatusActive  = "active"
	EnrollmentStatusRevoked = "revoked"
)

// Enrollment grants a user access to a course. Created on payment approval.
// At most one active row per (user_id, course_id), enforced by a partial
// index created in database.Init. PaymentID/OrderID/AmountPaid are
// bookkeeping enrichment; the row's existence is what grants access.
type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	CourseID   uint      `gorm:"not null;index" json:"course_id"`
	Status     string    `gorm:"type:varchar(20);default:'active'" json:"status"`
	PaymentID  *uint     `json:"payment_id"`
	OrderID    string    `gorm:"type:varchar(64)" json:"order_id"`
	AmountPaid float64   `json:"amount_paid"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

// TableName specifies the table name for Enrollment
func (Enrollment) TableName() string {
	return "enrollments"
}
