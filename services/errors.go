package services

import "errors"

// Validation
var (
	ErrValidation      = errors.New("all fields are required")
	ErrMissingFields   = errors.New("missing required fields")
	ErrSecretMismatch  = errors.New("password and confirm password do not match")
	ErrEmptyCourseList = errors.New("please provide course id")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// Not found
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrOTPNotFound        = errors.New("otp not found")
	ErrCourseNotFound     = errors.New("could not find the course")
	ErrSectionNotFound    = errors.New("section not found")
	ErrSubSectionNotFound = errors.New("subsection not found")
	ErrNotEnrolled        = errors.New("student is not enrolled in the course")
)

// Conflict
var (
	ErrAlreadyRegistered = errors.New("user is already registered")
	ErrAlreadyEnrolled   = errors.New("student is already enrolled")
	ErrAlreadyReviewed   = errors.New("course is already reviewed by the user")
	ErrOrderAlreadyPaid  = errors.New("order is already paid")
)

// Auth
var (
	ErrBadCredential     = errors.New("password is incorrect")
	ErrOTPInvalid        = errors.New("invalid otp")
	ErrTokenInvalid      = errors.New("token is invalid")
	ErrTokenExpired      = errors.New("token is expired")
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	ErrOrderMismatch     = errors.New("payment does not match the order")
)

// External
var (
	ErrNotificationFailed = errors.New("notification could not be delivered")
	ErrGatewayFailed      = errors.New("payment gateway request failed")
	ErrUploadFailed       = errors.New("media upload failed")
)
