package model

import "time"

// OTP is a one-time passcode issued to an email address before signup
type OTP struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Code      string    `gorm:"type:varchar(6);not null;index" json:"otp"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for OTP
func (OTP) TableName() string {
	return "otps"
}
