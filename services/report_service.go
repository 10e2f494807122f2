package services

import (
	"context"
	"time"

	"github.com/coursekart/api/model"
	"github.com/coursekart/api/utils/cache"
	"gorm.io/gorm"
)

const statsCacheKey = "coupon:stats"
const statsCacheTTL = 60 * time.Second

// ReportService aggregates coupon usage across payments for admin analytics.
// Historical payments predating coupon tracking have a null coupon_code;
// those can optionally be attributed to a coupon by matching their amount
// against the currently active coupon set (advisory only).
type ReportService struct {
	db      *gorm.DB
	coupons *CouponService
	cache   *cache.RedisCache
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB, coupons *CouponService, redis *cache.RedisCache) *ReportService {
	return &ReportService{
		db:      db,
		coupons: coupons,
		cache:   redis,
	}
}

// UsageRow is one coupon usage, enriched for the admin panel.
type UsageRow struct {
	PaymentID   uint      `json:"payment_id"`
	UserID      uint      `json:"user_id"`
	UserName    string    `json:"user_name"`
	UserEmail   string    `json:"user_email"`
	CourseID    uint      `json:"course_id"`
	CourseTitle string    `json:"course_title"`
	CouponCode  string    `json:"coupon_code"`
	Amount      float64   `json:"amount"`
	Inferred    bool      `json:"inferred"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListCouponUsages returns explicit coupon usages (payments labeled with a
// code), optionally prefixed by inferred usages reconstructed from unlabeled
// payments. Inferred rows come first and are de-duplicated by payment id.
func (s *ReportService) ListCouponUsages(code string, includeInferred bool) ([]UsageRow, error) {
	code = NormalizeCode(code)

	query := s.db.Model(&model.ManualPayment{}).Where("coupon_code IS NOT NULL")
	if code != "" {
		query = query.Where("coupon_code = ?", code)
	}

	var explicit []model.ManualPayment
	if err := query.Order("created_at DESC").Find(&explicit).Error; err != nil {
		return nil, err
	}

	var inferred []model.ManualPayment
	inferredCodes := map[uint]string{}
	if includeInferred {
		var unlabeled []model.ManualPayment
		if err := s.db.
			Where("coupon_code IS NULL").
			Order("created_at DESC").
			Find(&unlabeled).Error; err != nil {
			return nil, err
		}

		candidates, err := s.coupons.ActiveCoupons(time.Now())
		if err != nil {
			return nil, err
		}

		courses, err := s.lookupCourses(paymentCourseIDs(unlabeled))
		if err != nil {
			return nil, err
		}

		for _, p := range unlabeled {
			course, ok := courses[p.CourseID]
			if !ok {
				continue
			}
			match := InferCoupon(p.Amount, course.Price, candidates)
			if match == nil {
				continue
			}
			if code != "" && match.Code != code {
				continue
			}
			inferred = append(inferred, p)
			inferredCodes[p.ID] = match.Code
		}
	}

	merged := make([]model.ManualPayment, 0, len(inferred)+len(explicit))
	seen := make(map[uint]bool, len(inferred))
	for _, p := range inferred {
		merged = append(merged, p)
		seen[p.ID] = true
	}
	for _, p := range explicit {
		if !seen[p.ID] {
			merged = append(merged, p)
		}
	}

	users, err := s.lookupUsers(paymentUserIDs(merged))
	if err != nil {
		return nil, err
	}
	courses, err := s.lookupCourses(paymentCourseIDs(merged))
	if err != nil {
		return nil, err
	}

	rows := make([]UsageRow, 0, len(merged))
	for _, p := range merged {
		row := UsageRow{
			PaymentID: p.ID,
			UserID:    p.UserID,
			CourseID:  p.CourseID,
			Amount:    p.Amount,
			CreatedAt: p.CreatedAt,
		}
		if c, ok := inferredCodes[p.ID]; ok {
			row.CouponCode = c
			row.Inferred = true
		} else if p.CouponCode != nil {
			row.CouponCode = *p.CouponCode
		}
		if u, ok := users[p.UserID]; ok {
			row.UserName = u.Name
			row.UserEmail = u.Email
		}
		if c, ok := courses[p.CourseID]; ok {
			row.CourseTitle = c.Title
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// CouponStats counts explicit usages per code. Inferred usages are
// deliberately excluded: stats stay a plain frequency count over recorded
// labels while the usage listing carries the speculative rows.
func (s *ReportService) CouponStats(ctx context.Context) (map[string]int64, error) {
	cached := map[string]int64{}
	if err := s.cache.GetJSON(ctx, statsCacheKey, &cached); err == nil {
		return cached, nil
	}

	type bucket struct {
		CouponCode string
		Count      int64
	}
	var buckets []bucket
	err := s.db.Model(&model.ManualPayment{}).
		Select("coupon_code, COUNT(*) as count").
		Where("coupon_code IS NOT NULL").
		Group("coupon_code").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		stats[b.CouponCode] = b.Count
	}

	_ = s.cache.SetJSON(ctx, statsCacheKey, stats, statsCacheTTL)

	return stats, nil
}

// lookupUsers batch-fetches users into an id-keyed map.
func (s *ReportService) lookupUsers(ids []uint) (map[uint]model.User, error) {
	out := make(map[uint]model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []model.User
	if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// lookupCourses batch-fetches courses into an id-keyed map.
func (s *ReportService) lookupCourses(ids []uint) (map[uint]model.Course, error) {
	out := make(map[uint]model.Course, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var courses []model.Course
	if err := s.db.Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, err
	}
	for _, c := range courses {
		out[c.ID] = c
	}
	return out, nil
}

func paymentUserIDs(payments []model.ManualPayment) []uint {
	seen := map[uint]bool{}
	var ids []uint
	for _, p := range payments {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

func paymentCourseIDs(payments []model.ManualPayment) []uint {
	seen := map[uint]bool{}
	var ids []uint
	for _, p := range payments {
		if !seen[p.CourseID] {
			seen[p.CourseID] = true
			ids = append(ids, p.CourseID)
		}
	}
	return ids
}
