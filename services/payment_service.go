package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/coursekart/api/model"
	"github.com/coursekart/api/utils/validation"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentService owns the manual payment lifecycle: buyer submission of
// proof-of-payment, admin approval/rejection, and the enrollment side effect
// of approval.
type PaymentService struct {
	db      *gorm.DB
	coupons *CouponService
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, coupons *CouponService) *PaymentService {
	return &PaymentService{
		db:      db,
		coupons: coupons,
	}
}

// SubmitRequest carries buyer-provided proof of an out-of-band UPI payment.
type SubmitRequest struct {
	TransactionID string
	ReceiptEmail  string
	PaymentMethod string
	CouponCode    string
}

// Submit records a pending manual payment. The owed amount is recomputed here
// from the current course price and coupon; whatever checkout displayed is
// advisory. The duplicate-transaction and single-pending pre-checks are a
// fast path only — the partial unique indexes make the same guarantees hold
// under concurrent submissions, surfacing as unique violations on insert.
func (s *PaymentService) Submit(userID, courseID uint, req SubmitRequest) (*model.ManualPayment, error) {
	txnID := validation.Truncate(req.TransactionID, 100)
	receiptEmail := validation.Truncate(req.ReceiptEmail, 160)
	method := validation.Truncate(req.PaymentMethod, 30)
	if method == "" {
		method = "UPI"
	}

	if txnID == "" && receiptEmail == "" {
		return nil, ErrMissingProof
	}
	if txnID != "" && receiptEmail != "" {
		return nil, ErrAmbiguousProof
	}
	if receiptEmail != "" && !validation.ValidateEmail(receiptEmail) {
		return nil, ErrInvalidEmail
	}

	var course model.Course
	if err := s.db.First(&course, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if txnID != "" {
		var count int64
		if err := s.db.Model(&model.ManualPayment{}).
			Where("transaction_id = ?", txnID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateTransaction
		}
	}

	var pendingCount int64
	if err := s.db.Model(&model.ManualPayment{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, model.PaymentStatusPending).
		Count(&pendingCount).Error; err != nil {
		return nil, err
	}
	if pendingCount > 0 {
		return nil, ErrPendingExists
	}

	quote := s.coupons.Evaluate(req.CouponCode, course.Price, time.Now())

	payment := model.ManualPayment{
		UserID:        userID,
		CourseID:      courseID,
		Amount:        quote.DiscountedAmount,
		PaymentMethod: method,
		Status:        model.PaymentStatusPending,
		CouponCode:    quote.Code,
	}
	if txnID != "" {
		payment.TransactionID = &txnID
	}
	if receiptEmail != "" {
		payment.ReceiptEmail = &receiptEmail
	}

	if err := s.db.Create(&payment).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost a race past the pre-checks; map the violated index back
			// onto the matching conflict.
			if strings.Contains(err.Error(), "transaction_id") {
				return nil, ErrDuplicateTransaction
			}
			return nil, ErrPendingExists
		}
		return nil, err
	}

	return &payment, nil
}

// ApproveResult reports what approval actually did.
type ApproveResult struct {
	Payment         *model.ManualPayment
	AlreadyEnrolled bool
	// Reconciling is true when the enrollment exists but the payment row is
	// still pending; a sweep will finish the status update.
	Reconciling bool
}

// Approve transitions a pending payment to approved and grants the
// enrollment. The enrollment is the critical effect: once it exists the
// operation reports success even if the payment status update fails — that
// failure is written to the reconciliation outbox for the cron sweep instead
// of being surfaced to the admin.
func (s *PaymentService) Approve(adminID, paymentID uint) (*ApproveResult, error) {
	var payment model.ManualPayment
	if err := s.db.First(&payment, paymentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.Status != model.PaymentStatusPending {
		return nil, ErrPaymentNotPending
	}

	result := &ApproveResult{Payment: &payment}

	var existing model.Enrollment
	err := s.db.
		Where("user_id = ? AND course_id = ? AND status = ?",
			payment.UserID, payment.CourseID, model.EnrollmentStatusActive).
		First(&existing).Error
	switch {
	case err == nil:
		// Access already granted, approval is idempotent on enrollment.
		result.AlreadyEnrolled = true
	case err == gorm.ErrRecordNotFound:
		enrollment := model.Enrollment{
			UserID:   payment.UserID,
			CourseID: payment.CourseID,
			Status:   model.EnrollmentStatusActive,
		}
		if err := s.db.Create(&enrollment).Error; err != nil {
			if isUniqueViolation(err) {
				// Concurrent approval for the same (user, course) won.
				result.AlreadyEnrolled = true
			} else {
				return nil, fmt.Errorf("failed to create enrollment: %w", err)
			}
		} else {
			// Bookkeeping enrichment is best effort; the enrollment row
			// itself is what grants access.
			enrich := map[string]interface{}{
				"payment_id":  payment.ID,
				"order_id":    uuid.New().String(),
				"amount_paid": payment.Amount,
			}
			if err := s.db.Model(&model.Enrollment{}).
				Where("id = ?", enrollment.ID).
				Updates(enrich).Error; err != nil {
				log.Printf("Warning: failed to enrich enrollment %d for payment %d: %v",
					enrollment.ID, payment.ID, err)
			}
		}
	default:
		return nil, err
	}

	now := time.Now()
	update := map[string]interface{}{
		"status":       model.PaymentStatusApproved,
		"processed_by": adminID,
		"processed_at": now,
	}
	if err := s.db.Model(&model.ManualPayment{}).
		Where("id = ?", payment.ID).
		Updates(update).Error; err != nil {
		// Access is granted but the payment row still says pending. Never
		// fail the request at this point; leave a durable marker instead.
		log.Printf("Warning: payment %d approved but status update failed: %v", payment.ID, err)
		s.writeReconciliation(payment.ID, adminID, err)
		result.Reconciling = true
		return result, nil
	}

	payment.Status = model.PaymentStatusApproved
	payment.ProcessedBy = &adminID
	payment.ProcessedAt = &now
	return result, nil
}

func (s *PaymentService) writeReconciliation(paymentID, adminID uint, cause error) {
	payload, _ := json.Marshal(map[string]interface{}{
		"error":       cause.Error(),
		"approved_at": time.Now().UTC(),
	})

	row := model.PaymentReconciliation{
		PaymentID: paymentID,
		AdminID:   adminID,
		Reason:    "payment status update failed after enrollment",
		Payload:   datatypes.JSON(payload),
	}
	if err := s.db.Create(&row).Error; err != nil {
		// Worst case: drift is only visible in logs until someone compares
		// approved enrollments against pending payments.
		log.Printf("ERROR: failed to write reconciliation row for payment %d: %v", paymentID, err)
	}
}

// Reject transitions a pending payment to rejected with an optional note.
func (s *PaymentService) Reject(adminID, paymentID uint, note string) (*model.ManualPayment, error) {
	var payment model.ManualPayment
	if err := s.db.First(&payment, paymentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.Status != model.PaymentStatusPending {
		return nil, ErrPaymentNotPending
	}

	now := time.Now()
	update := map[string]interface{}{
		"status":       model.PaymentStatusRejected,
		"processed_by": adminID,
		"processed_at": now,
	}
	note = validation.Truncate(note, 512)
	if note != "" {
		update["rejection_note"] = note
	}

	if err := s.db.Model(&model.ManualPayment{}).
		Where("id = ?", payment.ID).
		Updates(update).Error; err != nil {
		return nil, err
	}

	payment.Status = model.PaymentStatusRejected
	payment.ProcessedBy = &adminID
	payment.ProcessedAt = &now
	if note != "" {
		payment.RejectionNote = &note
	}
	return &payment, nil
}

// List returns payments newest-first with user and course attached, optionally
// filtered by status.
func (s *PaymentService) List(status string, page, limit int) ([]model.ManualPayment, int64, error) {
	query := s.db.Model(&model.ManualPayment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var payments []model.ManualPayment
	err := query.
		Preload("User").
		Preload("Course").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&payments).Error
	return payments, total, err
}

// MyPayments returns the caller's own payment history newest-first with the
// course attached for title/thumbnail display.
func (s *PaymentService) MyPayments(userID uint) ([]model.ManualPayment, error) {
	var payments []model.ManualPayment
	err := s.db.
		Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// isUniqueViolation reports whether err is a unique index violation. Postgres
// reports 23505 through pgconn; the sqlite driver used in tests reports a
// translated gorm error or a plain constraint message.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
