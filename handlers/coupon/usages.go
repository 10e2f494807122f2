package coupon

import (
	"github.com/coursekart/api/services"
	"github.com/coursekart/api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// CouponHandler handles admin coupon analytics requests
type CouponHandler struct {
	reports *services.ReportService
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(reports *services.ReportService) *CouponHandler {
	return &CouponHandler{reports: reports}
}

// Usages handles GET /api/v1/coupons/usages?code=&include_inferred= (admin only)
func (h *CouponHandler) Usages(c *fiber.Ctx) error {
	code := c.Query("code", "")
	includeInferred := c.Query("include_inferred", "true") != "false"

	rows, err := h.reports.ListCouponUsages(code, includeInferred)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch coupon usages", err)
	}

	return response.Success(c, rows)
}

// Stats handles GET /api/v1/coupons/stats (admin only)
func (h *CouponHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.reports.CouponStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch coupon stats", err)
	}

	return response.Success(c, fiber.Map{"stats": stats})
}
