package services

import (
	"math"
	"strings"
	"time"

	"github.com/coursekart/api/model"
	"gorm.io/gorm"
)

// InferenceTolerance is how far (in currency units) a stored amount may sit
// from price*(1-discount/100) and still be attributed to a coupon when
// reconstructing usage for unlabeled legacy payments.
const InferenceTolerance = 0.02

// CouponService evaluates coupon codes against the current course price and
// reconstructs probable coupons from historical amounts.
type CouponService struct {
	db *gorm.DB
}

// NewCouponService creates a new coupon service
func NewCouponService(db *gorm.DB) *CouponService {
	return &CouponService{db: db}
}

// CouponQuote is the outcome of evaluating a code against a price.
type CouponQuote struct {
	// Code is the normalized code when an applicable coupon matched, nil
	// otherwise. Unknown or inapplicable codes silently yield full price.
	Code             *string `json:"code"`
	DiscountPercent  float64 `json:"discount_percent"`
	DiscountedAmount float64 `json:"discounted_amount"`
}

// RoundMoney rounds to two decimal places.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// NormalizeCode trims and uppercases a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ClampPercent clamps a stored discount percent to [0,100]. The table is
// edited elsewhere; evaluation never trusts the stored value to be in range.
func ClampPercent(p float64) float64 {
	if p < 0 || math.IsNaN(p) {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// DiscountedAmount computes round(price*(1-percent/100), 2), floored at 0.
// Malformed prices count as 0.
func DiscountedAmount(price, percent float64) float64 {
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		price = 0
	}
	percent = ClampPercent(percent)

	amount := RoundMoney(price * (1 - percent/100))
	if amount < 0 {
		return 0
	}
	return amount
}

// Applies reports whether a coupon is usable at the given instant. Bounds are
// inclusive; a nil bound is open.
func Applies(c *model.Coupon, now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidTo != nil && now.After(*c.ValidTo) {
		return false
	}
	return true
}

// Evaluate resolves a coupon code against a course price. Empty, unknown and
// inapplicable codes all yield the full price with no error; a lookup failure
// is treated the same way so a degraded coupon table never blocks checkout.
func (s *CouponService) Evaluate(code string, coursePrice float64, now time.Time) CouponQuote {
	quote := CouponQuote{
		DiscountPercent:  0,
		DiscountedAmount: DiscountedAmount(coursePrice, 0),
	}

	normalized := NormalizeCode(code)
	if normalized == "" {
		return quote
	}

	var coupon model.Coupon
	if err := s.db.Where("code = ?", normalized).First(&coupon).Error; err != nil {
		return quote
	}

	if !Applies(&coupon, now) {
		return quote
	}

	quote.Code = &coupon.Code
	quote.DiscountPercent = ClampPercent(coupon.DiscountPercent)
	quote.DiscountedAmount = DiscountedAmount(coursePrice, quote.DiscountPercent)
	return quote
}

// ActiveCoupons lists coupons applicable right now, ordered by code so that
// coupon inference is deterministic when multiple coupons produce the same
// discounted price.
func (s *CouponService) ActiveCoupons(now time.Time) ([]model.Coupon, error) {
	var coupons []model.Coupon
	err := s.db.
		Where("active = ?", true).
		Where("valid_from IS NULL OR valid_from <= ?", now).
		Where("valid_to IS NULL OR valid_to >= ?", now).
		Order("code ASC").
		Find(&coupons).Error
	return coupons, err
}

// InferCoupon reconstructs the probable coupon behind an unlabeled payment by
// comparing the stored amount against each candidate's discounted price.
// First match in candidate order wins; nil when nothing matches within
// tolerance. Advisory only, never fed into financial totals.
func InferCoupon(amount, coursePrice float64, candidates []model.Coupon) *model.Coupon {
	for i := range candidates {
		expected := DiscountedAmount(coursePrice, candidates[i].DiscountPercent)
		if math.Abs(expected-amount) <= InferenceTolerance {
			return &candidates[i]
		}
	}
	return nil
}
