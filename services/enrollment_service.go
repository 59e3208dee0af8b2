package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/services/mail"
	"github.com/sahilchouksey/studynotion-api/services/payment"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderCurrency is the fixed currency of every order
const OrderCurrency = "INR"

// ConfirmPaymentInput is the gateway callback forwarded by the client
type ConfirmPaymentInput struct {
	OrderID   string
	PaymentID string
	Signature string
	CourseIDs []uint
	UserID    uint
}

// EnrollmentService turns verified payments into course enrollments
type EnrollmentService struct {
	db            *gorm.DB
	gateway       payment.Gateway
	notifier      *NotificationService
	gatewaySecret string
}

// NewEnrollmentService creates an enrollment service. gatewaySecret is the
// shared secret used to authenticate payment confirmations.
func NewEnrollmentService(db *gorm.DB, gateway payment.Gateway, notifier *NotificationService, gatewaySecret string) *EnrollmentService {
	return &EnrollmentService{
		db:            db,
		gateway:       gateway,
		notifier:      notifier,
		gatewaySecret: gatewaySecret,
	}
}

// InitiateOrder prices the requested courses and creates a gateway order.
// Validation stops at the first failing course and nothing is written.
func (s *EnrollmentService) InitiateOrder(ctx context.Context, courseIDs []uint, userID uint) (*payment.Order, error) {
	if len(courseIDs) == 0 {
		return nil, ErrEmptyCourseList
	}

	db := s.db.WithContext(ctx)
	if err := db.Select("id").First(&model.User{}, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var total float64

	for _, courseID := range courseIDs {
		var course model.Course
		if err := db.Select("id", "price").First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %d", ErrCourseNotFound, courseID)
			}
			return nil, fmt.Errorf("failed to load course: %w", err)
		}

		var enrolled int64
		err := db.Model(&model.Enrollment{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Count(&enrolled).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check enrollment: %w", err)
		}
		if enrolled > 0 {
			return nil, fmt.Errorf("%w: %d", ErrAlreadyEnrolled, courseID)
		}

		total += course.Price
	}

	req := payment.OrderRequest{
		Amount:   int64(math.Round(total * 100)),
		Currency: OrderCurrency,
		Receipt:  uuid.New().String(),
		Notes: map[string]string{
			"userId": strconv.FormatUint(uint64(userID), 10),
		},
	}

	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		log.Printf("[PAYMENT] Order creation failed for user %d: %v", userID, err)
		return nil, fmt.Errorf("%w: %w", ErrGatewayFailed, err)
	}

	record := &model.PaymentOrder{
		GatewayOrderID: order.ID,
		UserID:         userID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Receipt:        req.Receipt,
		CourseIDs:      datatypes.JSONSlice[uint](courseIDs),
		Status:         model.PaymentStatusCreated,
	}
	if err := db.Create(record).Error; err != nil {
		// The gateway order exists; losing the local record only loses traceability
		log.Printf("[PAYMENT] Failed to record order %s: %v", order.ID, err)
	}

	log.Printf("[PAYMENT] Created order %s for user %d (%d %s)", order.ID, userID, req.Amount, req.Currency)
	return order, nil
}

// ConfirmPayment authenticates the gateway signature and enrolls the user.
// A bad signature enrolls nothing. When the order was recorded at creation,
// the confirmation must name the same user and courses, and a paid order
// cannot be confirmed again.
func (s *EnrollmentService) ConfirmPayment(ctx context.Context, in ConfirmPaymentInput) error {
	if in.OrderID == "" || in.PaymentID == "" || in.Signature == "" || len(in.CourseIDs) == 0 || in.UserID == 0 {
		return ErrMissingFields
	}

	if !payment.VerifySignature(s.gatewaySecret, in.OrderID, in.PaymentID, in.Signature) {
		log.Printf("[PAYMENT] Signature mismatch for order %s (user %d)", in.OrderID, in.UserID)
		s.markOrder(ctx, in.OrderID, in.UserID, model.PaymentStatusFailed, "")
		return ErrSignatureMismatch
	}

	if err := s.checkOrder(ctx, in); err != nil {
		log.Printf("[PAYMENT] Rejected confirmation of order %s (user %d): %v", in.OrderID, in.UserID, err)
		return err
	}

	if err := s.EnrollStudents(ctx, in.CourseIDs, in.UserID); err != nil {
		return err
	}

	s.markOrder(ctx, in.OrderID, in.UserID, model.PaymentStatusPaid, in.PaymentID)
	return nil
}

// checkOrder matches a confirmation against the locally recorded order.
// Orders with no local record are accepted on the signature alone.
func (s *EnrollmentService) checkOrder(ctx context.Context, in ConfirmPaymentInput) error {
	var record model.PaymentOrder
	err := s.db.WithContext(ctx).Where("gateway_order_id = ?", in.OrderID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load order: %w", err)
	}

	if record.UserID != in.UserID || !sameCourses(record.CourseIDs, in.CourseIDs) {
		return ErrOrderMismatch
	}
	if record.Status == model.PaymentStatusPaid {
		return ErrOrderAlreadyPaid
	}
	return nil
}

// sameCourses compares two course lists as sets
func sameCourses(recorded, requested []uint) bool {
	a := slices.Compact(slices.Sorted(slices.Values(recorded)))
	b := slices.Compact(slices.Sorted(slices.Values(requested)))
	return slices.Equal(a, b)
}

func (s *EnrollmentService) markOrder(ctx context.Context, orderID string, userID uint, status, paymentID string) {
	updates := map[string]interface{}{"status": status}
	if paymentID != "" {
		updates["payment_id"] = paymentID
	}

	// paid is terminal
	err := s.db.WithContext(ctx).Model(&model.PaymentOrder{}).
		Where("gateway_order_id = ? AND user_id = ? AND status <> ?", orderID, userID, model.PaymentStatusPaid).
		Updates(updates).Error
	if err != nil {
		log.Printf("[PAYMENT] Failed to mark order %s %s: %v", orderID, status, err)
	}
}

// EnrollStudents enrolls the user into each course in order. Each course is
// its own transaction; a missing course aborts the rest without undoing the
// courses already enrolled. Courses the user already holds are skipped.
func (s *EnrollmentService) EnrollStudents(ctx context.Context, courseIDs []uint, userID uint) error {
	if len(courseIDs) == 0 || userID == 0 {
		return ErrMissingFields
	}

	var student model.User
	if err := s.db.WithContext(ctx).First(&student, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	for _, courseID := range courseIDs {
		course, created, err := s.enrollOne(ctx, courseID, userID)
		if err != nil {
			log.Printf("[ENROLL] Enrollment of user %d into course %d failed: %v", userID, courseID, err)
			return err
		}
		if !created {
			log.Printf("[ENROLL] User %d already enrolled in course %d, skipping", userID, courseID)
			continue
		}

		log.Printf("[ENROLL] User %d enrolled in course %d", userID, courseID)

		subject, body := mail.CourseEnrollmentEmail(course.CourseName, student.FullName())
		s.notifier.Dispatch(ctx, Notification{
			UserID:      &student.ID,
			To:          student.Email,
			Subject:     subject,
			Body:        body,
			Kind:        model.NotificationKindEnrollment,
			MustSucceed: false,
			Metadata:    map[string]interface{}{"course_id": courseID},
		})
	}

	return nil
}

// enrollOne writes the enrollment row and its progress record. created is
// false when the enrollment already existed.
func (s *EnrollmentService) enrollOne(ctx context.Context, courseID, userID uint) (*model.Course, bool, error) {
	var course model.Course
	created := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id", "course_name").First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", ErrCourseNotFound, courseID)
			}
			return err
		}

		enrollment := &model.Enrollment{
			UserID:   userID,
			CourseID: courseID,
		}
		result := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(enrollment)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		progress := &model.CourseProgress{
			CourseID:        courseID,
			UserID:          userID,
			CompletedVideos: datatypes.JSONSlice[uint]{},
		}
		if err := tx.Create(progress).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Enrollment{}).
			Where("id = ?", enrollment.ID).
			Update("course_progress_id", progress.ID).Error; err != nil {
			return err
		}

		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &course, created, nil
}

// SendPaymentSuccessEmail mails the payment receipt. amount is in minor units.
func (s *EnrollmentService) SendPaymentSuccessEmail(ctx context.Context, userID uint, orderID, paymentID string, amount int64) error {
	if userID == 0 || orderID == "" || paymentID == "" || amount <= 0 {
		return ErrMissingFields
	}

	var student model.User
	if err := s.db.WithContext(ctx).First(&student, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	subject, body := mail.PaymentSuccessEmail(student.FullName(), float64(amount)/100, orderID, paymentID)
	return s.notifier.Dispatch(ctx, Notification{
		UserID:      &student.ID,
		To:          student.Email,
		Subject:     subject,
		Body:        body,
		Kind:        model.NotificationKindPaymentSuccess,
		MustSucceed: true,
		Metadata: map[string]interface{}{
			"order_id":   orderID,
			"payment_id": paymentID,
		},
	})
}

// FailStaleOrders marks orders still in created state after olderThan as failed
func FailStaleOrders(ctx context.Context, db *gorm.DB, olderThan time.Duration) (int64, error) {
	result := db.WithContext(ctx).Model(&model.PaymentOrder{}).
		Where("status = ? AND created_at < ?", model.PaymentStatusCreated, time.Now().Add(-olderThan)).
		Update("status", model.PaymentStatusFailed)
	return result.RowsAffected, result.Error
}
