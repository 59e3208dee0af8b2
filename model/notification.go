package model

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationKind identifies which flow produced a notification
type NotificationKind string

const (
	NotificationKindOTP             NotificationKind = "otp_verification"
	NotificationKindPasswordUpdated NotificationKind = "password_updated"
	NotificationKindPasswordReset   NotificationKind = "password_reset"
	NotificationKindEnrollment      NotificationKind = "course_enrollment"
	NotificationKindPaymentSuccess  NotificationKind = "payment_success"
)

// Notification delivery statuses
const (
	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"
)

// NotificationLog is the audit trail of a single notification step
type NotificationLog struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UserID      *uint            `gorm:"index" json:"user_id,omitempty"`
	Recipient   string           `gorm:"type:varchar(255);not null" json:"recipient"`
	Subject     string           `gorm:"type:varchar(255)" json:"subject"`
	Kind        NotificationKind `gorm:"type:varchar(30);not null;index" json:"kind"`
	MustSucceed bool             `json:"must_succeed"`
	Status      string           `gorm:"type:varchar(20);not null" json:"status"`
	Error       string           `gorm:"type:text" json:"error,omitempty"`
	Metadata    datatypes.JSON   `json:"metadata,omitempty"`
}

// TableName specifies the table name for NotificationLog
func (NotificationLog) TableName() string {
	return "notification_logs"
}
