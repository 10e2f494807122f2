package services

import (
	"strings"
	"testing"
	"time"

	"github.com/coursekart/api/config"
	"github.com/coursekart/api/model"
)

func newCheckoutService(t *testing.T, cfg *config.Config) (*CheckoutService, *CouponService, func() *model.Course) {
	t.Helper()
	db := newTestDB(t)
	coupons := NewCouponService(db)
	svc := NewCheckoutService(db, coupons, nil, cfg)

	createCoupon(t, db, model.Coupon{Code: "MS10", DiscountPercent: 10, Active: true})
	course := createCourse(t, db, "Mastering System Design", 1000)

	return svc, coupons, func() *model.Course { return &course }
}

func TestBuildCheckoutValidation(t *testing.T) {
	svc, _, course := newCheckoutService(t, &config.Config{})

	cases := []struct {
		name      string
		buyerName string
		email     string
		wantErr   error
	}{
		{"empty name", "", "asha@example.com", ErrInvalidName},
		{"whitespace name", "   ", "asha@example.com", ErrInvalidName},
		{"overlong name", strings.Repeat("a", 121), "asha@example.com", ErrInvalidName},
		{"empty email", "Asha", "", ErrInvalidEmail},
		{"email without domain", "Asha", "asha@", ErrInvalidEmail},
		{"email with spaces", "Asha", "a sha@example.com", ErrInvalidEmail},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.BuildCheckout(course().ID, tc.buyerName, tc.email, "")
			if err != tc.wantErr {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	t.Run("missing course", func(t *testing.T) {
		_, err := svc.BuildCheckout(9999, "Asha", "asha@example.com", "")
		if err != ErrCourseNotFound {
			t.Errorf("expected ErrCourseNotFound, got %v", err)
		}
	})
}

func TestBuildCheckoutSession(t *testing.T) {
	cfg := &config.Config{
		MANUAL_UPI:    "coursekart@upi",
		MANUAL_UPI_QR: "https://cdn.example.com/upi-qr.png",
	}
	svc, _, course := newCheckoutService(t, cfg)

	before := time.Now()
	session, err := svc.BuildCheckout(course().ID, "Asha", "asha@example.com", "ms10")
	if err != nil {
		t.Fatalf("BuildCheckout failed: %v", err)
	}

	if session.CourseID != course().ID || session.CourseTitle != "Mastering System Design" {
		t.Errorf("course fields wrong: %+v", session)
	}
	if session.Currency != "INR" {
		t.Errorf("currency = %q, want INR", session.Currency)
	}
	if session.OriginalAmount != 1000 || session.DiscountPercent != 10 || session.Amount != 900 {
		t.Errorf("pricing wrong: original=%v percent=%v amount=%v", session.OriginalAmount, session.DiscountPercent, session.Amount)
	}
	if session.UPIAddress == nil || *session.UPIAddress != "coursekart@upi" {
		t.Errorf("upi address = %v", session.UPIAddress)
	}
	if session.UPIQR == nil || *session.UPIQR != "https://cdn.example.com/upi-qr.png" {
		t.Errorf("upi qr = %v", session.UPIQR)
	}
	if session.SessionID == "" {
		t.Error("session id not set")
	}
	if session.Checkout.Name != "Asha" || session.Checkout.Email != "asha@example.com" {
		t.Errorf("checkout echo wrong: %+v", session.Checkout)
	}
	if session.Checkout.Coupon == nil || *session.Checkout.Coupon != "MS10" {
		t.Errorf("coupon echo = %v, want MS10", session.Checkout.Coupon)
	}

	expiry := session.SessionExpiresAt.Sub(before)
	if expiry < CheckoutSessionTTL-time.Minute || expiry > CheckoutSessionTTL+time.Minute {
		t.Errorf("session expiry %v not ~%v out", expiry, CheckoutSessionTTL)
	}
}

func TestBuildCheckoutMissingUPIConfig(t *testing.T) {
	svc, _, course := newCheckoutService(t, &config.Config{})

	session, err := svc.BuildCheckout(course().ID, "Asha", "asha@example.com", "")
	if err != nil {
		t.Fatalf("BuildCheckout failed: %v", err)
	}
	if session.UPIAddress != nil || session.UPIQR != nil {
		t.Errorf("expected null UPI fields when unconfigured, got addr=%v qr=%v", session.UPIAddress, session.UPIQR)
	}
}

func TestBuildCheckoutRecomputes(t *testing.T) {
	svc, _, course := newCheckoutService(t, &config.Config{})

	first, err := svc.BuildCheckout(course().ID, "Asha", "asha@example.com", "MS10")
	if err != nil {
		t.Fatalf("BuildCheckout failed: %v", err)
	}
	second, err := svc.BuildCheckout(course().ID, "Asha", "asha@example.com", "MS10")
	if err != nil {
		t.Fatalf("BuildCheckout failed: %v", err)
	}

	// Stateless: same inputs and unchanged backing data price identically.
	if first.Amount != second.Amount || first.DiscountPercent != second.DiscountPercent {
		t.Errorf("repeated checkout priced differently: %v/%v vs %v/%v",
			first.Amount, first.DiscountPercent, second.Amount, second.DiscountPercent)
	}
	if first.SessionID == second.SessionID {
		t.Error("sessions should get distinct reference ids")
	}
}
