package model

import (
	"time"

	"gorm.io/gorm"
)

// Course is a sellable course. Creation and editing happen through a separate
// admin surface; the payment flow only reads price and display fields.
type Course struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Title     string         `gorm:"not null" json:"title"`
	Price     float64        `gorm:"not null" json:"price"` // INR
	Thumbnail string         `gorm:"type:varchar(512)" json:"thumbnail"`

	// Relationships
	Payments    []ManualPayment `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Enrollments []Enrollment    `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Course
func (Course) TableName() string {
	return "courses"
}
