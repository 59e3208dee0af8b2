package payment

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/services"
	"github.com/sahilchouksey/studynotion-api/utils/middleware"
	"github.com/sahilchouksey/studynotion-api/utils/response"
	"github.com/sahilchouksey/studynotion-api/utils/validation"
)

// PaymentHandler handles order creation and payment verification
type PaymentHandler struct {
	enrollments *services.EnrollmentService
	validator   *validation.Validator
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(enrollments *services.EnrollmentService) *PaymentHandler {
	return &PaymentHandler{
		enrollments: enrollments,
		validator:   validation.NewValidator(),
	}
}

// CapturePaymentRequest represents the courses a student wants to buy
type CapturePaymentRequest struct {
	Courses []uint `json:"courses"`
}

// VerifyPaymentRequest is the gateway callback relayed by the client
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	Courses   []uint `json:"courses"`
}

// PaymentSuccessEmailRequest represents the receipt details to email
type PaymentSuccessEmailRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
}

// CapturePayment handles POST /api/v1/payment/capturePayment
func (h *PaymentHandler) CapturePayment(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CapturePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	order, err := h.enrollments.InitiateOrder(c.UserContext(), req.Courses, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCourseList):
			return response.BadRequest(c, "Please provide Course Id")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrCourseNotFound):
			return response.NotFound(c, "Could not find the course")
		case errors.Is(err, services.ErrAlreadyEnrolled):
			return response.Conflict(c, "Student is already Enrolled")
		case errors.Is(err, services.ErrGatewayFailed):
			log.Printf("[PAYMENT] capture failed for user %d: %v", userID, err)
			return response.BadGateway(c, "Could not initiate order")
		}
		log.Printf("[PAYMENT] capture failed for user %d: %v", userID, err)
		return response.InternalServerError(c, "Could not initiate order")
	}

	return response.Success(c, order)
}

// VerifyPayment handles POST /api/v1/payment/verifyPayment
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.enrollments.ConfirmPayment(c.UserContext(), services.ConfirmPaymentInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		CourseIDs: req.Courses,
		UserID:    userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			return response.BadRequest(c, "Payment failed, all fields are required")
		case errors.Is(err, services.ErrSignatureMismatch):
			return response.Failure(c, "Payment failed")
		case errors.Is(err, services.ErrOrderMismatch):
			return response.BadRequest(c, "Payment does not match the order")
		case errors.Is(err, services.ErrOrderAlreadyPaid):
			return response.Conflict(c, "Payment already processed")
		case errors.Is(err, services.ErrCourseNotFound), errors.Is(err, services.ErrUserNotFound):
			return response.BadRequest(c, err.Error())
		}
		log.Printf("[PAYMENT] verification failed for user %d: %v", userID, err)
		return response.InternalServerError(c, "Could not complete enrollment")
	}

	return response.SuccessWithMessage(c, "Payment verified", nil)
}

// SendPaymentSuccessEmail handles POST /api/v1/payment/sendPaymentSuccessEmail
func (h *PaymentHandler) SendPaymentSuccessEmail(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req PaymentSuccessEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, "Please provide all the details", validation.FormatValidationErrors(err))
	}

	err := h.enrollments.SendPaymentSuccessEmail(c.UserContext(), userID, req.OrderID, req.PaymentID, req.Amount)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			return response.ValidationError(c, "Please provide all the details", nil)
		}
		log.Printf("[PAYMENT] receipt email failed for user %d: %v", userID, err)
		return response.BadRequest(c, "Could not send email")
	}

	return response.SuccessWithMessage(c, "Payment success email sent", nil)
}
