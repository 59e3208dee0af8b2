package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/services"
	"github.com/sahilchouksey/studynotion-api/utils/middleware"
	"github.com/sahilchouksey/studynotion-api/utils/response"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate request
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Please fill up all the required fields")
	}

	ip := c.IP()

	result, err := h.accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			h.recordFailure(c, ip)
			return response.Unauthorized(c, "User is not registered with us, please sign up to continue")
		case errors.Is(err, services.ErrBadCredential):
			h.recordFailure(c, ip)
			return response.Unauthorized(c, "Password is incorrect")
		case errors.Is(err, services.ErrValidation):
			return response.BadRequest(c, "Please fill up all the required fields")
		}
		log.Printf("login failed: %v", err)
		return response.InternalServerError(c, "Login failure, please try again")
	}

	// Clear failed attempts on successful login
	if h.bruteForceProtection != nil {
		if err := h.bruteForceProtection.RecordSuccessfulAttempt(c, ip); err != nil {
			log.Printf("failed to reset login attempts for %s: %v", ip, err)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
	})

	return response.SuccessWithMessage(c, "User Login Success", LoginResponse{
		Token: result.Token,
		User:  result.User,
	})
}

func (h *AuthHandler) recordFailure(c *fiber.Ctx, ip string) {
	if h.bruteForceProtection == nil {
		return
	}
	if err := h.bruteForceProtection.RecordFailedAttempt(c, ip); err != nil {
		log.Printf("failed to record login attempt for %s: %v", ip, err)
	}
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	jti, _ := middleware.GetTokenJTI(c)

	expiresAt := time.Now().Add(24 * time.Hour)
	if claims, ok := middleware.GetClaims(c); ok && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := h.accounts.Logout(c.UserContext(), userID, jti, expiresAt); err != nil {
		log.Printf("logout failed: %v", err)
		return response.InternalServerError(c, "Failed to logout")
	}

	c.ClearCookie(middleware.TokenCookieName)

	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}
