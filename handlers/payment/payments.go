package payment

import (
	"strconv"

	"github.com/coursekart/api/services"
	"github.com/coursekart/api/utils/middleware"
	"github.com/coursekart/api/utils/response"
	"github.com/coursekart/api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles checkout and manual payment requests
type PaymentHandler struct {
	checkout  *services.CheckoutService
	payments  *services.PaymentService
	validator *validation.Validator
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(checkout *services.CheckoutService, payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		checkout:  checkout,
		payments:  payments,
		validator: validation.NewValidator(),
	}
}

// CheckoutRequest represents the request body for building a checkout session
type CheckoutRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Email  string `json:"email" validate:"required,max=160"`
	Coupon string `json:"coupon" validate:"omitempty,max=50"`
}

// SubmitRequest represents the request body for submitting proof of payment
type SubmitRequest struct {
	TransactionID string `json:"transaction_id" validate:"omitempty,max=100"`
	ReceiptEmail  string `json:"receipt_email" validate:"omitempty,max=160"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,max=30"`
	Coupon        string `json:"coupon" validate:"omitempty,max=50"`
}

// RejectRequest represents the request body for rejecting a payment
type RejectRequest struct {
	RejectionNote string `json:"rejection_note" validate:"omitempty,max=512"`
}

// Checkout handles POST /api/v1/payments/checkout/:courseId
//
// The returned session is display-only: nothing is persisted and the amount
// is recomputed at submission time.
func (h *PaymentHandler) Checkout(c *fiber.Ctx) error {
	courseID, err := parseID(c, "courseId")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	session, err := h.checkout.BuildCheckout(courseID, req.Name, req.Email, req.Coupon)
	if err != nil {
		return mapServiceError(c, err, "Failed to build checkout session")
	}

	return response.Success(c, session)
}

// Submit handles POST /api/v1/payments/submit/:courseId
func (h *PaymentHandler) Submit(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	courseID, err := parseID(c, "courseId")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	payment, err := h.payments.Submit(userID, courseID, services.SubmitRequest{
		TransactionID: req.TransactionID,
		ReceiptEmail:  req.ReceiptEmail,
		PaymentMethod: req.PaymentMethod,
		CouponCode:    req.Coupon,
	})
	if err != nil {
		return mapServiceError(c, err, "Failed to submit payment")
	}

	return response.Created(c, "Payment submitted. We verify manual payments within hours.", payment)
}

// Mine handles GET /api/v1/payments/mine
func (h *PaymentHandler) Mine(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	payments, err := h.payments.MyPayments(userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch payments", err)
	}

	return response.Success(c, payments)
}

// List handles GET /api/v1/payments/manual-payments (admin only)
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	status := c.Query("status", "")

	payments, total, err := h.payments.List(status, page, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch payments", err)
	}

	return response.Paginated(c, payments, response.CalculatePagination(page, limit, total))
}

// Approve handles POST /api/v1/payments/manual-payments/:id/approve (admin only)
func (h *PaymentHandler) Approve(c *fiber.Ctx) error {
	admin, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	paymentID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid payment id")
	}

	result, err := h.payments.Approve(admin.ID, paymentID)
	if err != nil {
		return mapServiceError(c, err, "Failed to approve payment")
	}

	message := "Payment approved and enrollment created"
	if result.AlreadyEnrolled {
		message = "Payment approved; user was already enrolled"
	}

	return response.SuccessWithMessage(c, message, result.Payment)
}

// Reject handles POST /api/v1/payments/manual-payments/:id/reject (admin only)
func (h *PaymentHandler) Reject(c *fiber.Ctx) error {
	admin, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	paymentID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid payment id")
	}

	var req RejectRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
		if err := h.validator.ValidateStruct(req); err != nil {
			return response.ValidationError(c, err)
		}
	}

	payment, err := h.payments.Reject(admin.ID, paymentID, req.RejectionNote)
	if err != nil {
		return mapServiceError(c, err, "Failed to reject payment")
	}

	return response.SuccessWithMessage(c, "Payment rejected", payment)
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	return uint(id), err
}

// mapServiceError translates service sentinels onto the HTTP taxonomy.
func mapServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch err {
	case services.ErrCourseNotFound:
		return response.NotFound(c, "Course not found")
	case services.ErrPaymentNotFound:
		return response.NotFound(c, "Payment not found")
	case services.ErrInvalidName, services.ErrInvalidEmail, services.ErrMissingProof, services.ErrAmbiguousProof:
		return response.BadRequest(c, err.Error())
	case services.ErrDuplicateTransaction, services.ErrPendingExists:
		return response.Conflict(c, err.Error())
	case services.ErrPaymentNotPending:
		return response.InvalidState(c, err.Error())
	default:
		return response.InternalServerError(c, fallback, err)
	}
}
