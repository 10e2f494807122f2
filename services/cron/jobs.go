package cron

import (
	"log"
	"time"

	"github.com/coursekart/api/model"
)

// staleAfter is the advisory review SLA communicated to buyers at submission.
const staleAfter = 24 * time.Hour

// ReconcilePayments re-applies the approved status for payments whose
// enrollment was created but whose status update failed during approval. The
// admin already saw success for these; this sweep closes the bookkeeping gap.
func (m *CronManager) ReconcilePayments() {
	var rows []model.PaymentReconciliation
	if err := m.db.Where("resolved = ?", false).Find(&rows).Error; err != nil {
		log.Printf("[CRON] reconcile_payments: failed to load outbox: %v", err)
		return
	}

	if len(rows) == 0 {
		return
	}

	resolved := 0
	for _, row := range rows {
		update := map[string]interface{}{
			"status":       model.PaymentStatusApproved,
			"processed_by": row.AdminID,
			// Approval happened when the outbox row was written, not now.
			"processed_at": row.CreatedAt,
		}
		err := m.db.Model(&model.ManualPayment{}).
			Where("id = ? AND status = ?", row.PaymentID, model.PaymentStatusPending).
			Updates(update).Error
		if err != nil {
			log.Printf("[CRON] reconcile_payments: payment %d still failing: %v", row.PaymentID, err)
			continue
		}

		now := time.Now()
		if err := m.db.Model(&model.PaymentReconciliation{}).
			Where("id = ?", row.ID).
			Updates(map[string]interface{}{"resolved": true, "resolved_at": now}).Error; err != nil {
			log.Printf("[CRON] reconcile_payments: failed to mark row %d resolved: %v", row.ID, err)
			continue
		}
		resolved++
	}

	log.Printf("[CRON] reconcile_payments: resolved %d of %d outbox rows", resolved, len(rows))
}

// LogStalePendingPayments logs how many submissions have been waiting on
// review longer than the advisory SLA. Verification is human; this is the
// nudge.
func (m *CronManager) LogStalePendingPayments() {
	cutoff := time.Now().Add(-staleAfter)

	var count int64
	err := m.db.Model(&model.ManualPayment{}).
		Where("status = ? AND created_at < ?", model.PaymentStatusPending, cutoff).
		Count(&count).Error
	if err != nil {
		log.Printf("[CRON] stale_pending_payments: count failed: %v", err)
		return
	}

	if count > 0 {
		log.Printf("[CRON] stale_pending_payments: %d payments pending review for over %s", count, staleAfter)
	}
}
