package services

import (
	"time"

	"github.com/coursekart/api/config"
	"github.com/coursekart/api/model"
	"github.com/coursekart/api/storage"
	"github.com/coursekart/api/utils/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutSessionTTL is advisory. Sessions are never persisted and expiry is
// not enforced at submission; the frontend uses it to prompt a refresh.
const CheckoutSessionTTL = 6 * time.Hour

// CheckoutService assembles display-only payment intents. Nothing here is
// durable: a second call with the same inputs recomputes from current course
// and coupon state, and the charged amount is recomputed again at submission.
type CheckoutService struct {
	db      *gorm.DB
	coupons *CouponService
	spaces  *storage.SpacesClient
	upiQR   string
	upiAddr string
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(db *gorm.DB, coupons *CouponService, spaces *storage.SpacesClient, cfg *config.Config) *CheckoutService {
	return &CheckoutService{
		db:      db,
		coupons: coupons,
		spaces:  spaces,
		upiQR:   cfg.MANUAL_UPI_QR,
		upiAddr: cfg.MANUAL_UPI,
	}
}

// CheckoutSession is what the buyer sees before paying out-of-band via UPI.
type CheckoutSession struct {
	SessionID        string           `json:"session_id"`
	CourseID         uint             `json:"course_id"`
	CourseTitle      string           `json:"course_title"`
	Thumbnail        string           `json:"thumbnail"`
	OriginalAmount   float64          `json:"original_amount"`
	DiscountPercent  float64          `json:"discount_percent"`
	Amount           float64          `json:"amount"`
	Currency         string           `json:"currency"`
	UPIQR            *string          `json:"upi_qr"`
	UPIAddress       *string          `json:"upi_address"`
	SessionExpiresAt time.Time        `json:"session_expires_at"`
	Checkout         CheckoutIdentity `json:"checkout"`
}

// CheckoutIdentity echoes the buyer details back to the frontend.
type CheckoutIdentity struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Coupon *string `json:"coupon"`
}

// BuildCheckout validates buyer details, resolves the course and prices the
// coupon for display.
func (s *CheckoutService) BuildCheckout(courseID uint, name, email, couponCode string) (*CheckoutSession, error) {
	name = validation.SanitizeString(name)
	if name == "" || len(name) > 120 {
		return nil, ErrInvalidName
	}

	email = validation.SanitizeString(email)
	if !validation.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}

	var course model.Course
	if err := s.db.First(&course, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	now := time.Now()
	quote := s.coupons.Evaluate(couponCode, course.Price, now)

	session := &CheckoutSession{
		SessionID:        uuid.New().String(),
		CourseID:         course.ID,
		CourseTitle:      course.Title,
		Thumbnail:        s.spaces.ResolveThumbnailURL(course.Thumbnail),
		OriginalAmount:   RoundMoney(course.Price),
		DiscountPercent:  quote.DiscountPercent,
		Amount:           quote.DiscountedAmount,
		Currency:         "INR",
		SessionExpiresAt: now.Add(CheckoutSessionTTL),
		Checkout: CheckoutIdentity{
			Name:   name,
			Email:  email,
			Coupon: quote.Code,
		},
	}

	// Absent UPI configuration surfaces as null; the frontend renders a
	// fallback instruction block.
	if s.upiQR != "" {
		session.UPIQR = &s.upiQR
	}
	if s.upiAddr != "" {
		session.UPIAddress = &s.upiAddr
	}

	return session, nil
}
