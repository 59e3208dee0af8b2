package model

import (
	"net/url"
	"time"

	"gorm.io/gorm"
)

// Account types
const (
	AccountTypeStudent    = "Student"
	AccountTypeInstructor = "Instructor"
	AccountTypeAdmin      = "Admin"
)

// User represents a registered user in the system
type User struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
	FirstName            string         `gorm:"not null" json:"firstName"`
	LastName             string         `gorm:"not null" json:"lastName"`
	Email                string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash         string         `gorm:"not null" json:"-"` // Never expose password in JSON
	AccountType          string         `gorm:"type:varchar(20)" json:"accountType"`
	Active               bool           `gorm:"not null" json:"active"`
	Approved             bool           `gorm:"not null" json:"approved"`
	ProfileID            uint           `gorm:"not null;index" json:"profileId"`
	Image                string         `json:"image"`
	ResetToken           *string        `gorm:"type:varchar(64);index" json:"-"`
	ResetPasswordExpires *time.Time     `json:"-"`

	// Relationships
	Profile Profile `gorm:"foreignKey:ProfileID" json:"additionalDetails"`
}

// Profile holds the optional personal details of a user
type Profile struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Gender        *string   `gorm:"type:varchar(20)" json:"gender"`
	DateOfBirth   *string   `gorm:"type:varchar(20)" json:"dateOfBirth"`
	About         *string   `gorm:"type:text" json:"about"`
	ContactNumber *string   `gorm:"type:varchar(20)" json:"contactNumber"`
}

// DefaultAvatarURL returns the generated initials avatar used until a picture is uploaded
func DefaultAvatarURL(firstName, lastName string) string {
	return "https://api.dicebear.com/5.x/initials/svg?seed=" + url.PathEscape(firstName+" "+lastName)
}

// FullName returns "First Last"
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsResetTokenExpired reports whether the reset token expiry has passed
func (u *User) IsResetTokenExpired(now time.Time) bool {
	return u.ResetPasswordExpires == nil || !u.ResetPasswordExpires.After(now)
}
