package auth

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/services"
	"github.com/sahilchouksey/studynotion-api/utils/response"
	"github.com/sahilchouksey/studynotion-api/utils/validation"
)

// SendOTPRequest represents a request for a signup code
type SendOTPRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// SignupRequest represents a user registration request
type SignupRequest struct {
	FirstName       string `json:"firstName" form:"firstName" validate:"required"`
	LastName        string `json:"lastName" form:"lastName" validate:"required"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required"`
	AccountType     string `json:"accountType" form:"accountType" validate:"omitempty,oneof=Student Instructor Admin"`
	ContactNumber   string `json:"contactNumber" form:"contactNumber"`
	OTP             string `json:"otp" form:"otp" validate:"required"`
}

// SendOTP handles POST /api/v1/auth/sendotp
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, "A valid email is required", validation.FormatValidationErrors(err))
	}

	otp, err := h.signup.RequestOTP(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyRegistered) {
			return response.Conflict(c, "User is already registered")
		}
		log.Printf("sendotp failed: %v", err)
		return response.InternalServerError(c, "Could not generate OTP")
	}

	return response.SuccessWithMessage(c, "OTP sent successfully", fiber.Map{"otp": otp})
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, "", validation.FormatValidationErrors(err))
	}

	user, err := h.signup.CompleteSignup(c.UserContext(), services.SignupInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		AccountType:     req.AccountType,
		OTP:             req.OTP,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return response.ValidationError(c, "", nil)
		case errors.Is(err, services.ErrSecretMismatch):
			return response.BadRequest(c, "Password and Confirm Password Does not match, please try again")
		case errors.Is(err, services.ErrAlreadyRegistered):
			return response.Conflict(c, "User is already registered")
		case errors.Is(err, services.ErrOTPNotFound):
			return response.BadRequest(c, "OTP Not Found")
		case errors.Is(err, services.ErrOTPInvalid):
			return response.Forbidden(c, "Invalid OTP")
		}
		log.Printf("signup failed: %v", err)
		return response.InternalServerError(c, "User cannot be registered, please try again")
	}

	return response.SuccessWithMessage(c, "User is registered successfully", user)
}
