package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment order statuses
const (
	PaymentStatusCreated = "created"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// PaymentOrder is the durable record of a gateway order initiated for a set of courses
type PaymentOrder struct {
	ID             uint                      `gorm:"primaryKey" json:"id"`
	GatewayOrderID string                    `gorm:"type:varchar(100);uniqueIndex;not null" json:"gateway_order_id"`
	UserID         uint                      `gorm:"not null;index" json:"user_id"`
	Amount         int64                     `gorm:"not null" json:"amount"` // minor units (paise)
	Currency       string                    `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	Receipt        string                    `gorm:"type:varchar(100)" json:"receipt"`
	CourseIDs      datatypes.JSONSlice[uint] `json:"course_ids"`
	Status         string                    `gorm:"type:varchar(20);default:'created';index" json:"status"` // created, paid, failed
	PaymentID      string                    `gorm:"type:varchar(100)" json:"payment_id"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
	DeletedAt      gorm.DeletedAt            `gorm:"index" json:"-"`
}

// TableName specifies the table name for PaymentOrder
func (PaymentOrder) TableName() string {
	return "payment_orders"
}
