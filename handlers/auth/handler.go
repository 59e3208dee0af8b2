package auth

import (
	"github.com/sahilchouksey/studynotion-api/services"
	"github.com/sahilchouksey/studynotion-api/utils/middleware"
	"github.com/sahilchouksey/studynotion-api/utils/validation"
)

// AuthHandler handles signup, session and password requests
type AuthHandler struct {
	signup               *services.SignupService
	accounts             *services.AccountService
	bruteForceProtection *middleware.BruteForceProtection
	validator            *validation.Validator
	secureCookie         bool
}

// NewAuthHandler creates a new auth handler. bruteForceProtection may be nil
// when Redis is unavailable.
func NewAuthHandler(signup *services.SignupService, accounts *services.AccountService, bruteForceProtection *middleware.BruteForceProtection, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		signup:               signup,
		accounts:             accounts,
		bruteForceProtection: bruteForceProtection,
		validator:            validation.NewValidator(),
		secureCookie:         secureCookie,
	}
}
