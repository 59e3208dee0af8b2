package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/services/mail"
	"github.com/sahilchouksey/studynotion-api/utils/auth"
	"github.com/sahilchouksey/studynotion-api/utils/validation"
	"gorm.io/gorm"
)

const (
	otpDigits      = 6
	maxOTPAttempts = 20
)

// SignupInput carries the registration form
type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	AccountType     string
	OTP             string
}

// SignupService implements OTP-gated registration
type SignupService struct {
	db       *gorm.DB
	notifier *NotificationService
	otpTTL   time.Duration
	now      func() time.Time
}

// NewSignupService creates a signup service. Passcodes older than otpTTL are
// treated as absent.
func NewSignupService(db *gorm.DB, notifier *NotificationService, otpTTL time.Duration) *SignupService {
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	return &SignupService{
		db:       db,
		notifier: notifier,
		otpTTL:   otpTTL,
		now:      time.Now,
	}
}

func (s *SignupService) emailRegistered(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// RequestOTP issues a passcode for an unregistered email and returns it
func (s *SignupService) RequestOTP(ctx context.Context, email string) (string, error) {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return "", ErrValidation
	}

	registered, err := s.emailRegistered(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to check user: %w", err)
	}
	if registered {
		return "", ErrAlreadyRegistered
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return "", err
	}

	otp := &model.OTP{
		Email:     email,
		Code:      code,
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(otp).Error; err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}

	subject, body := mail.OTPVerificationEmail(code)
	s.notifier.Dispatch(ctx, Notification{
		To:          email,
		Subject:     subject,
		Body:        body,
		Kind:        model.NotificationKindOTP,
		MustSucceed: false,
	})

	return code, nil
}

// uniqueCode draws codes until one does not collide with a live passcode
func (s *SignupService) uniqueCode(ctx context.Context) (string, error) {
	cutoff := s.now().Add(-s.otpTTL)

	for attempt := 0; attempt < maxOTPAttempts; attempt++ {
		code, err := generateOTP()
		if err != nil {
			return "", fmt.Errorf("failed to generate otp: %w", err)
		}

		var count int64
		err = s.db.WithContext(ctx).Model(&model.OTP{}).
			Where("code = ? AND created_at > ?", code, cutoff).
			Count(&count).Error
		if err != nil {
			return "", fmt.Errorf("failed to check otp: %w", err)
		}
		if count == 0 {
			return code, nil
		}
	}

	return "", errors.New("could not generate a unique otp")
}

// generateOTP returns a uniformly drawn zero-padded 6 digit code
func generateOTP() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

// CompleteSignup validates the passcode and creates the user with an empty profile
func (s *SignupService) CompleteSignup(ctx context.Context, in SignupInput) (*model.User, error) {
	in.FirstName = validation.SanitizeString(in.FirstName)
	in.LastName = validation.SanitizeString(in.LastName)
	in.Email = validation.NormalizeEmail(in.Email)
	in.OTP = validation.SanitizeString(in.OTP)

	if in.FirstName == "" || in.LastName == "" || in.Email == "" ||
		in.Password == "" || in.ConfirmPassword == "" || in.OTP == "" {
		return nil, ErrValidation
	}

	if in.Password != in.ConfirmPassword {
		return nil, ErrSecretMismatch
	}

	registered, err := s.emailRegistered(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if registered {
		return nil, ErrAlreadyRegistered
	}

	var latest model.OTP
	err = s.db.WithContext(ctx).
		Where("email = ?", in.Email).
		Order("created_at DESC, id DESC").
		First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOTPNotFound
		}
		return nil, fmt.Errorf("failed to load otp: %w", err)
	}
	if s.now().Sub(latest.CreatedAt) > s.otpTTL {
		return nil, ErrOTPNotFound
	}
	if latest.Code != in.OTP {
		return nil, ErrOTPInvalid
	}

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	accountType := in.AccountType
	if accountType == "" {
		accountType = model.AccountTypeStudent
	}

	user := &model.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: passwordHash,
		AccountType:  accountType,
		Active:       true,
		Approved:     accountType != model.AccountTypeInstructor,
		Image:        model.DefaultAvatarURL(in.FirstName, in.LastName),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile := &model.Profile{}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		user.ProfileID = profile.ID
		user.Profile = *profile
		return tx.Omit("Profile").Create(user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("Registered %s user %d (%s)", user.AccountType, user.ID, user.Email)
	return user, nil
}
