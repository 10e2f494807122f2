package services

import (
	"testing"
	"time"

	"github.com/coursekart/api/model"
)

func TestDiscountedAmount(t *testing.T) {
	cases := []struct {
		name    string
		price   float64
		percent float64
		want    float64
	}{
		{"ten percent off", 1000, 10, 900},
		{"no discount", 1000, 0, 1000},
		{"full discount", 1000, 100, 0},
		{"percent clamped low", 1000, -5, 1000},
		{"percent clamped high", 1000, 150, 0},
		{"negative price treated as zero", -10, 10, 0},
		{"zero price", 0, 50, 0},
		{"rounds to two decimals", 999.99, 10, 899.99},
		{"third decimal rounds", 0.125, 0, 0.13},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DiscountedAmount(tc.price, tc.percent)
			if got != tc.want {
				t.Errorf("DiscountedAmount(%v, %v) = %v, want %v", tc.price, tc.percent, got, tc.want)
			}
			if got < 0 {
				t.Errorf("discounted amount went negative: %v", got)
			}
			if tc.price >= 0 && got > tc.price {
				t.Errorf("discounted amount %v exceeds price %v", got, tc.price)
			}
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  ms10 "); got != "MS10" {
		t.Errorf("NormalizeCode = %q, want MS10", got)
	}
	if got := NormalizeCode(""); got != "" {
		t.Errorf("NormalizeCode empty = %q", got)
	}
}

func TestApplies(t *testing.T) {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	cases := []struct {
		name   string
		coupon model.Coupon
		want   bool
	}{
		{"active unbounded", model.Coupon{Active: true}, true},
		{"inactive", model.Coupon{Active: false}, false},
		{"inside window", model.Coupon{Active: true, ValidFrom: &yesterday, ValidTo: &tomorrow}, true},
		{"not yet valid", model.Coupon{Active: true, ValidFrom: &tomorrow}, false},
		{"expired", model.Coupon{Active: true, ValidTo: &yesterday}, false},
		{"bound is inclusive", model.Coupon{Active: true, ValidFrom: &now, ValidTo: &now}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Applies(&tc.coupon, now); got != tc.want {
				t.Errorf("Applies = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	db := newTestDB(t)
	svc := NewCouponService(db)
	now := time.Now()

	yesterday := now.AddDate(0, 0, -1)
	lastWeek := now.AddDate(0, 0, -7)

	createCoupon(t, db, model.Coupon{Code: "MS10", DiscountPercent: 10, Active: true})
	createCoupon(t, db, model.Coupon{Code: "EXPIRED", DiscountPercent: 50, Active: true, ValidFrom: &lastWeek, ValidTo: &yesterday})
	createCoupon(t, db, model.Coupon{Code: "BROKEN", DiscountPercent: 150, Active: true})

	t.Run("known code lowercased input", func(t *testing.T) {
		quote := svc.Evaluate("ms10", 1000, now)
		if quote.DiscountPercent != 10 || quote.DiscountedAmount != 900 {
			t.Errorf("got %+v, want 10%% / 900", quote)
		}
		if quote.Code == nil || *quote.Code != "MS10" {
			t.Errorf("expected normalized code MS10, got %v", quote.Code)
		}
	})

	t.Run("unknown code silently ignored", func(t *testing.T) {
		quote := svc.Evaluate("NOPE", 1000, now)
		if quote.DiscountPercent != 0 || quote.DiscountedAmount != 1000 || quote.Code != nil {
			t.Errorf("unknown coupon should yield full price, got %+v", quote)
		}
	})

	t.Run("expired coupon yields full price", func(t *testing.T) {
		quote := svc.Evaluate("EXPIRED", 1000, now)
		if quote.DiscountPercent != 0 || quote.DiscountedAmount != 1000 {
			t.Errorf("expired coupon should yield full price, got %+v", quote)
		}
	})

	t.Run("stored percent clamped", func(t *testing.T) {
		quote := svc.Evaluate("BROKEN", 1000, now)
		if quote.DiscountPercent != 100 || quote.DiscountedAmount != 0 {
			t.Errorf("percent should clamp to 100, got %+v", quote)
		}
	})

	t.Run("empty code", func(t *testing.T) {
		quote := svc.Evaluate("", 1000, now)
		if quote.DiscountPercent != 0 || quote.DiscountedAmount != 1000 {
			t.Errorf("empty coupon should yield full price, got %+v", quote)
		}
	})
}

func TestActiveCouponsOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := NewCouponService(db)
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	createCoupon(t, db, model.Coupon{Code: "ZED5", DiscountPercent: 5, Active: true})
	createCoupon(t, db, model.Coupon{Code: "ALPHA10", DiscountPercent: 10, Active: true})
	createCoupon(t, db, model.Coupon{Code: "OFF", DiscountPercent: 20, Active: false})
	createCoupon(t, db, model.Coupon{Code: "GONE", DiscountPercent: 20, Active: true, ValidTo: &yesterday})

	coupons, err := svc.ActiveCoupons(now)
	if err != nil {
		t.Fatalf("ActiveCoupons failed: %v", err)
	}

	if len(coupons) != 2 {
		t.Fatalf("expected 2 active coupons, got %d", len(coupons))
	}
	if coupons[0].Code != "ALPHA10" || coupons[1].Code != "ZED5" {
		t.Errorf("expected code ordering [ALPHA10 ZED5], got [%s %s]", coupons[0].Code, coupons[1].Code)
	}
}

func TestInferCoupon(t *testing.T) {
	candidates := []model.Coupon{
		{Code: "MS10", DiscountPercent: 10, Active: true},
		{Code: "SAVE25", DiscountPercent: 25, Active: true},
	}

	t.Run("exact match", func(t *testing.T) {
		match := InferCoupon(900, 1000, candidates)
		if match == nil || match.Code != "MS10" {
			t.Fatalf("expected MS10, got %v", match)
		}
	})

	t.Run("within tolerance", func(t *testing.T) {
		if match := InferCoupon(900.02, 1000, candidates); match == nil || match.Code != "MS10" {
			t.Fatalf("amount within tolerance should match, got %v", match)
		}
	})

	t.Run("outside tolerance", func(t *testing.T) {
		if match := InferCoupon(900.05, 1000, candidates); match != nil {
			t.Fatalf("amount outside tolerance should not match, got %v", match)
		}
	})

	t.Run("second candidate", func(t *testing.T) {
		if match := InferCoupon(750, 1000, candidates); match == nil || match.Code != "SAVE25" {
			t.Fatalf("expected SAVE25, got %v", match)
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		if match := InferCoupon(900, 1000, nil); match != nil {
			t.Fatalf("expected nil, got %v", match)
		}
	})
}
