package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course statuses
const (
	CourseStatusDraft     = "Draft"
	CourseStatusPublished = "Published"
)

// Course is a priced course created by an instructor
type Course struct {
	ID                uint                        `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
	DeletedAt         gorm.DeletedAt              `gorm:"index" json:"-"`
	CourseName        string                      `gorm:"not null" json:"courseName"`
	CourseDescription string                      `gorm:"type:text" json:"courseDescription"`
	InstructorID      uint                        `gorm:"not null;index" json:"instructorId"`
	WhatYouWillLearn  string                      `gorm:"type:text" json:"whatYouWillLearn"`
	Price             float64                     `gorm:"not null;default:0" json:"price"`
	Thumbnail         string                      `json:"thumbnail"`
	Tags              datatypes.JSONSlice[string] `json:"tag"`
	Status            string                      `gorm:"type:varchar(20);default:'Draft'" json:"status"`

	// Relationships
	Instructor       *User             `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Sections         []Section         `gorm:"foreignKey:CourseID" json:"courseContent"`
	RatingAndReviews []RatingAndReview `gorm:"foreignKey:CourseID" json:"ratingAndReviews,omitempty"`
}

// Section is an ordered group of subsections within a course
type Section struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	SectionName string    `gorm:"not null" json:"sectionName"`
	CourseID    *uint     `gorm:"index" json:"courseId"`
	Position    int       `gorm:"not null;default:0" json:"position"`

	SubSections []SubSection `gorm:"foreignKey:SectionID" json:"subSection"`
}

// SubSection is a single video lecture
type SubSection struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	SectionID    *uint     `gorm:"index" json:"sectionId"`
	Title        string    `gorm:"not null" json:"title"`
	TimeDuration string    `gorm:"type:varchar(20)" json:"timeDuration"` // seconds
	Description  string    `gorm:"type:text" json:"description"`
	VideoURL     string    `json:"videoUrl"`
	Position     int       `gorm:"not null;default:0" json:"position"`
}

// Enrollment records that a user has paid for a course. One row stands for
// the course's enrolled-student entry and the user's course/progress entry.
type Enrollment struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time `json:"enrolled_at"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID         uint      `gorm:"not null;uniqueIndex:idx_enrollment_user_course;index" json:"course_id"`
	CourseProgressID *uint     `json:"course_progress_id"`

	// Relationships
	Course         Course          `gorm:"foreignKey:CourseID" json:"-"`
	CourseProgress *CourseProgress `gorm:"foreignKey:CourseProgressID" json:"-"`
}

// CourseProgress tracks the subsections a user has completed in a course
type CourseProgress struct {
	ID              uint                      `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
	CourseID        uint                      `gorm:"not null;index" json:"courseID"`
	UserID          uint                      `gorm:"not null;index" json:"userId"`
	CompletedVideos datatypes.JSONSlice[uint] `json:"completedVideos"`
}

// TableName specifies the table name for CourseProgress
func (CourseProgress) TableName() string {
	return "course_progress"
}

// RatingAndReview is a user's review of a course they are enrolled in
type RatingAndReview struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_user_course" json:"user_id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_review_user_course;index" json:"course_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Review    string    `gorm:"type:text;not null" json:"review"`

	// Relationships
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// TableName specifies the table name for RatingAndReview
func (RatingAndReview) TableName() string {
	return "rating_and_reviews"
}
