package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/utils/auth"
	"github.com/sahilchouksey/studynotion-api/utils/response"
	"gorm.io/gorm"
)

// TokenCookieName is the cookie carrying the session token
const TokenCookieName = "token"

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager       *auth.JWTManager
	blacklistService *auth.BlacklistService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:       jwtManager,
		blacklistService: auth.NewBlacklistService(db),
	}
}

type tokenBody struct {
	Token string `json:"token" form:"token"`
}

// extractToken looks for the token in the cookie, then the body, then the
// Authorization header
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies(TokenCookieName); token != "" {
		return token
	}

	if len(c.Body()) > 0 {
		var body tokenBody
		if err := c.BodyParser(&body); err == nil && body.Token != "" {
			return body.Token
		}
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// Required is middleware that requires a valid JWT token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return response.Unauthorized(c, "JWT Token is missing")
		}

		claims, err := m.jwtManager.ValidateToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "Token is Invalid")
		}

		// Check if token is revoked (blacklisted)
		isRevoked, err := m.blacklistService.IsTokenRevoked(c.UserContext(), claims.RegisteredClaims.ID)
		if err != nil {
			return response.InternalServerError(c, "Something went wrong while validating the token")
		}
		if isRevoked {
			return response.Unauthorized(c, "Token is Invalid")
		}

		c.Locals("user_id", claims.ID)
		c.Locals("user_email", claims.Email)
		c.Locals("account_type", claims.AccountType)
		c.Locals("claims", claims)
		c.Locals("token_jti", claims.RegisteredClaims.ID)

		return c.Next()
	}
}

// requireAccountType gates a route to a single account type. label is the
// wording used in the rejection message.
func requireAccountType(accountType, label string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := GetClaims(c)
		if !ok {
			return response.InternalServerError(c, fmt.Sprintf("User role cannot be verified for %s. Please try again", accountType))
		}

		if claims.AccountType != accountType {
			return response.Unauthorized(c, fmt.Sprintf("This is a protected route for %s only", label))
		}

		return c.Next()
	}
}

// RequireStudent allows only Student accounts
func RequireStudent() fiber.Handler {
	return requireAccountType(model.AccountTypeStudent, "Students")
}

// RequireInstructor allows only Instructor accounts
func RequireInstructor() fiber.Handler {
	return requireAccountType(model.AccountTypeInstructor, "Instructor")
}

// RequireAdmin allows only Admin accounts
func RequireAdmin() fiber.Handler {
	return requireAccountType(model.AccountTypeAdmin, "Admin")
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *fiber.Ctx) (string, bool) {
	email := c.Locals("user_email")
	if email == nil {
		return "", false
	}
	e, ok := email.(string)
	return e, ok
}

// GetAccountType extracts the account type from context
func GetAccountType(c *fiber.Ctx) (string, bool) {
	accountType := c.Locals("account_type")
	if accountType == nil {
		return "", false
	}
	a, ok := accountType.(string)
	return a, ok
}

// GetClaims extracts full claims from context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims := c.Locals("claims")
	if claims == nil {
		return nil, false
	}
	claimsData, ok := claims.(*auth.Claims)
	return claimsData, ok
}

// GetTokenJTI extracts the token JTI from context
func GetTokenJTI(c *fiber.Ctx) (string, bool) {
	jti := c.Locals("token_jti")
	if jti == nil {
		return "", false
	}
	j, ok := jti.(string)
	return j, ok
}
