package model

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentReconciliation is the outbox row written when approving a payment
// created the enrollment but the follow-up status update on the payment row
// failed. The cron sweep re-applies the update and marks the row resolved,
// so the drift window is durable instead of silent.
type PaymentReconciliation struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	PaymentID  uint           `gorm:"not null;index" json:"payment_id"`
	AdminID    uint           `gorm:"not null" json:"admin_id"`
	Reason     string         `gorm:"type:varchar(255)" json:"reason"`
	Payload    datatypes.JSON `json:"payload"`
	Resolved   bool           `gorm:"default:false;index" json:"resolved"`
	ResolvedAt *time.Time     `json:"resolved_at"`
}

// TableName specifies the table name for PaymentReconciliation
func (PaymentReconciliation) TableName() string {
	return "payment_reconciliations"
}
