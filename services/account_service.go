package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/services/mail"
	"github.com/sahilchouksey/studynotion-api/utils/auth"
	"github.com/sahilchouksey/studynotion-api/utils/validation"
	"gorm.io/gorm"
)

const (
	resetTokenBytes = 20
	resetTokenTTL   = time.Hour
)

// LoginResult is an issued session
type LoginResult struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
	User      *model.User
}

// AccountService handles sessions and password management
type AccountService struct {
	db          *gorm.DB
	jwtManager  *auth.JWTManager
	blacklist   *auth.BlacklistService
	notifier    *NotificationService
	frontendURL string
	now         func() time.Time
}

// NewAccountService creates an account service. frontendURL is the base of
// emailed password-reset links.
func NewAccountService(db *gorm.DB, jwtManager *auth.JWTManager, notifier *NotificationService, frontendURL string) *AccountService {
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	return &AccountService{
		db:          db,
		jwtManager:  jwtManager,
		blacklist:   auth.NewBlacklistService(db),
		notifier:    notifier,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
		now:         time.Now,
	}
}

func (s *AccountService) findUser(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Preload("Profile").Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// Login verifies credentials and issues a session token
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.findUser(ctx, "email = ?", email)
	if err != nil {
		return nil, err
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrBadCredential
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	token, jti, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.AccountType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{
		Token:     token,
		JTI:       jti,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// Logout revokes the presented session token
func (s *AccountService) Logout(ctx context.Context, userID uint, jti string, expiresAt time.Time) error {
	if jti == "" {
		return ErrTokenInvalid
	}
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(s.jwtManager.Expiry())
	}
	return s.blacklist.RevokeToken(ctx, jti, userID, expiresAt, "logout")
}

// ChangePassword re-hashes the password and then sends a confirmation that
// must be delivered. A delivery failure is returned as ErrNotificationFailed
// while the new password stays committed.
func (s *AccountService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword, confirmPassword string) error {
	if oldPassword == "" || newPassword == "" || confirmPassword == "" {
		return ErrValidation
	}

	user, err := s.findUser(ctx, "id = ?", userID)
	if err != nil {
		return err
	}

	if err := auth.VerifyPassword(user.PasswordHash, oldPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return ErrBadCredential
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}

	if newPassword != confirmPassword {
		return ErrSecretMismatch
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Update("password_hash", passwordHash).Error
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	subject, body := mail.PasswordUpdatedEmail(user.Email, user.FullName())
	return s.notifier.Dispatch(ctx, Notification{
		UserID:      &user.ID,
		To:          user.Email,
		Subject:     subject,
		Body:        body,
		Kind:        model.NotificationKindPasswordUpdated,
		MustSucceed: true,
	})
}

// ResetRequest stores a one hour reset token and emails the reset link
func (s *AccountService) ResetRequest(ctx context.Context, email string) error {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return ErrValidation
	}

	user, err := s.findUser(ctx, "email = ?", email)
	if err != nil {
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	expiresAt := s.now().Add(resetTokenTTL)

	err = s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"reset_token":            token,
			"reset_password_expires": expiresAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/update-password/%s", s.frontendURL, token)
	subject, body := mail.PasswordResetEmail(link)
	return s.notifier.Dispatch(ctx, Notification{
		UserID:      &user.ID,
		To:          user.Email,
		Subject:     subject,
		Body:        body,
		Kind:        model.NotificationKindPasswordReset,
		MustSucceed: true,
	})
}

func generateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// ResetPassword sets a new password for the holder of a live reset token.
// The token is cleared so it cannot be replayed.
func (s *AccountService) ResetPassword(ctx context.Context, token, password, confirmPassword string) error {
	if password != confirmPassword {
		return ErrSecretMismatch
	}
	if password == "" {
		return ErrValidation
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return ErrTokenInvalid
	}

	user, err := s.findUser(ctx, "reset_token = ?", token)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrTokenInvalid
		}
		return err
	}

	if user.IsResetTokenExpired(s.now()) {
		return ErrTokenExpired
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"password_hash":          passwordHash,
			"reset_token":            nil,
			"reset_password_expires": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
