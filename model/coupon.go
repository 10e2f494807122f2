package model

import (
	"time"

	"gorm.io/gorm"
)

// Coupon is a percentage discount code. Codes are stored uppercase and matched
// case-insensitively. ValidFrom/ValidTo are inclusive bounds; nil means
// unbounded on that side.
type Coupon struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Code            string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	DiscountPercent float64        `gorm:"not null" json:"discount_percent"`
	Active          bool           `gorm:"default:true" json:"active"`
	ValidFrom       *time.Time     `json:"valid_from"`
	ValidTo         *time.Time     `json:"valid_to"`
}

// TableName specifies the table name for Coupon
func (Coupon) TableName() string {
	return "coupons"
}
