package model

import (
	"time"
)

// Payment statuses. Transitions only ever run pending -> approved or
// pending -> rejected; terminal rows are never mutated again and never deleted.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"
)

// ManualPayment is a buyer-submitted proof of an out-of-band UPI payment.
// Amount is the discounted amount actually owed, recomputed at submission
// time. Exactly one of TransactionID/ReceiptEmail is set at creation.
//
// Two uniqueness rules are enforced by the schema, not just the pre-checks:
// transaction_id is globally unique among all rows, and at most one pending
// row may exist per (user_id, course_id) via a partial index created in
// database.Init.
type ManualPayment struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	CourseID      uint       `gorm:"not null;index" json:"course_id"`
	Amount        float64    `gorm:"not null" json:"amount"`
	PaymentMethod string     `gorm:"type:varchar(30);default:'UPI'" json:"payment_method"`
	TransactionID *string    `gorm:"type:varchar(100);uniqueIndex" json:"transaction_id"`
	ReceiptEmail  *string    `gorm:"type:varchar(160)" json:"receipt_email"`
	Status        string     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CouponCode    *string    `gorm:"type:varchar(50)" json:"coupon_code"`
	CreatedAt     time.Time  `json:"created_at"`
	ProcessedBy   *uint      `json:"processed_by"`
	ProcessedAt   *time.Time `json:"processed_at"`
	RejectionNote *string    `gorm:"type:varchar(512)" json:"rejection_note"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

// TableName specifies the table name for ManualPayment
func (ManualPayment) TableName() string {
	return "manual_payments"
}
