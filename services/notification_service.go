package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/services/mail"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is one templated email produced by a workflow step.
// MustSucceed decides whether a delivery failure is returned to the caller
// or only logged.
type Notification struct {
	UserID      *uint
	To          string
	Subject     string
	Body        string
	Kind        model.NotificationKind
	MustSucceed bool
	Metadata    map[string]interface{}
}

// NotificationService sends notifications and keeps an audit log of each attempt
type NotificationService struct {
	db     *gorm.DB
	mailer mail.Mailer
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB, mailer mail.Mailer) *NotificationService {
	return &NotificationService{db: db, mailer: mailer}
}

// Dispatch sends n once. No retries are attempted.
func (s *NotificationService) Dispatch(ctx context.Context, n Notification) error {
	sendErr := s.mailer.Send(ctx, n.To, n.Subject, n.Body)

	entry := &model.NotificationLog{
		UserID:      n.UserID,
		Recipient:   n.To,
		Subject:     n.Subject,
		Kind:        n.Kind,
		MustSucceed: n.MustSucceed,
		Status:      model.NotificationStatusSent,
	}
	if sendErr != nil {
		entry.Status = model.NotificationStatusFailed
		entry.Error = sendErr.Error()
	}
	if len(n.Metadata) > 0 {
		if metadataJSON, err := json.Marshal(n.Metadata); err == nil {
			entry.Metadata = datatypes.JSON(metadataJSON)
		}
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		log.Printf("[MAIL] Failed to record %s notification for %s: %v", n.Kind, n.To, err)
	}

	if sendErr == nil {
		return nil
	}

	if n.MustSucceed {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, sendErr)
	}

	log.Printf("[MAIL] Best-effort %s notification to %s failed: %v", n.Kind, n.To, sendErr)
	return nil
}
