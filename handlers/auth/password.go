package auth

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/services"
	"github.com/sahilchouksey/studynotion-api/utils/middleware"
	"github.com/sahilchouksey/studynotion-api/utils/response"
	"github.com/sahilchouksey/studynotion-api/utils/validation"
)

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	OldPassword        string `json:"oldPassword" form:"oldPassword"`
	NewPassword        string `json:"newPassword" form:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword" form:"confirmNewPassword"`
}

// ResetPasswordTokenRequest represents a request for a reset link
type ResetPasswordTokenRequest struct {
	Email string `json:"email" form:"email"`
}

// ResetPasswordRequest represents a password reset with token
type ResetPasswordRequest struct {
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
	Token           string `json:"token" form:"token"`
}

// ChangePassword handles POST /api/v1/auth/changepassword
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.accounts.ChangePassword(c.UserContext(), userID, req.OldPassword, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return response.ValidationError(c, "", nil)
		case errors.Is(err, services.ErrBadCredential):
			return response.Unauthorized(c, "The password is incorrect")
		case errors.Is(err, services.ErrSecretMismatch):
			return response.BadRequest(c, "The password and confirm password does not match")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrNotificationFailed):
			log.Printf("password updated for user %d but email failed: %v", userID, err)
			return response.InternalServerError(c, "Error occurred while sending email")
		}
		log.Printf("change password failed: %v", err)
		return response.InternalServerError(c, "Error occurred while updating password")
	}

	return response.SuccessWithMessage(c, "Password updated successfully", nil)
}

// ResetPasswordToken handles POST /api/v1/auth/reset-password-token
func (h *AuthHandler) ResetPasswordToken(c *fiber.Ctx) error {
	var req ResetPasswordTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	email := validation.NormalizeEmail(req.Email)
	if email == "" {
		return response.ValidationError(c, "Email is required", nil)
	}

	if err := h.accounts.ResetRequest(c.UserContext(), email); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.BadRequest(c, fmt.Sprintf("The email %s is not registered with us, please enter a valid email", email))
		case errors.Is(err, services.ErrNotificationFailed):
			return response.InternalServerError(c, "Error occurred while sending the reset email")
		}
		log.Printf("reset token failed: %v", err)
		return response.InternalServerError(c, "Something went wrong while sending the reset password mail")
	}

	return response.SuccessWithMessage(c, "Email sent successfully, please check your email to continue further", nil)
}

// ResetPassword handles POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.accounts.ResetPassword(c.UserContext(), req.Token, req.Password, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSecretMismatch):
			return response.Unauthorized(c, "Password and Confirm Password Does not Match")
		case errors.Is(err, services.ErrValidation):
			return response.ValidationError(c, "", nil)
		case errors.Is(err, services.ErrTokenInvalid):
			return response.Unauthorized(c, "Token is Invalid")
		case errors.Is(err, services.ErrTokenExpired):
			return response.Forbidden(c, "Token is Expired, please regenerate your token")
		}
		log.Printf("reset password failed: %v", err)
		return response.InternalServerError(c, "Some error occurred while updating the password")
	}

	return response.SuccessWithMessage(c, "Password reset successful", nil)
}
