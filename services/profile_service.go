package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"path"
	"strconv"
	"strings"

	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/services/media"
	"gorm.io/gorm"
)

// ProfileInput carries profile changes. DateOfBirth and About default to ""
// when absent; the other fields are written as given.
type ProfileInput struct {
	DateOfBirth   *string
	About         *string
	ContactNumber *string
	Gender        *string
}

// EnrolledCourse is an enrolled course with its total length and the user's progress
type EnrolledCourse struct {
	model.Course
	TotalDuration      string  `json:"totalDuration"`
	ProgressPercentage float64 `json:"progressPercentage"`
}

// CourseStats summarises one instructor course
type CourseStats struct {
	ID                    uint    `json:"id"`
	CourseName            string  `json:"courseName"`
	CourseDescription     string  `json:"courseDescription"`
	TotalStudentsEnrolled int64   `json:"totalStudentsEnrolled"`
	TotalAmountGenerated  float64 `json:"totalAmountGenerated"`
}

// ProfileService manages user profiles and per-user course views
type ProfileService struct {
	db          *gorm.DB
	uploader    media.Uploader
	mediaFolder string
}

// NewProfileService creates a profile service
func NewProfileService(db *gorm.DB, uploader media.Uploader, mediaFolder string) *ProfileService {
	return &ProfileService{
		db:          db,
		uploader:    uploader,
		mediaFolder: mediaFolder,
	}
}

// GetAllUserDetails returns the user with the profile preloaded
func (s *ProfileService) GetAllUserDetails(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Preload("Profile").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// UpdateProfile writes all profile fields
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*model.User, error) {
	user, err := s.GetAllUserDetails(ctx, userID)
	if err != nil {
		return nil, err
	}

	empty := ""
	if in.DateOfBirth == nil {
		in.DateOfBirth = &empty
	}
	if in.About == nil {
		in.About = &empty
	}

	err = s.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", user.ProfileID).
		Updates(map[string]interface{}{
			"date_of_birth":  in.DateOfBirth,
			"about":          in.About,
			"contact_number": in.ContactNumber,
			"gender":         in.Gender,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.GetAllUserDetails(ctx, userID)
}

// DeleteAccount hard deletes the user and then the profile. Enrollments are
// left in place.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if err := tx.Unscoped().Delete(&model.User{}, user.ID).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Profile{}, user.ProfileID).Error
	})
}

// UpdateDisplayPicture uploads a new avatar and stores its URL
func (s *ProfileService) UpdateDisplayPicture(ctx context.Context, userID uint, file *multipart.FileHeader) (*model.User, error) {
	if file == nil {
		return nil, ErrValidation
	}

	if _, err := s.GetAllUserDetails(ctx, userID); err != nil {
		return nil, err
	}

	upload, err := s.uploader.Upload(ctx, path.Join(s.mediaFolder, "images"), file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	err = s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("image", upload.URL).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update image: %w", err)
	}

	return s.GetAllUserDetails(ctx, userID)
}

// GetEnrolledCourses returns every enrolled course with duration and progress
func (s *ProfileService) GetEnrolledCourses(ctx context.Context, userID uint) ([]EnrolledCourse, error) {
	db := s.db.WithContext(ctx)

	var enrollments []model.Enrollment
	err := db.Where("user_id = ?", userID).
		Preload("Course.Sections", byPosition).
		Preload("Course.Sections.SubSections", byPosition).
		Preload("CourseProgress").
		Order("id ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollments: %w", err)
	}

	courses := make([]EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Course.ID == 0 {
			// course removed after enrollment
			continue
		}

		var totalSeconds int64
		var subSectionCount int
		for _, section := range e.Course.Sections {
			subSectionCount += len(section.SubSections)
			for _, sub := range section.SubSections {
				totalSeconds += parseSeconds(sub.TimeDuration)
			}
		}

		completed := 0
		if e.CourseProgress != nil {
			completed = len(e.CourseProgress.CompletedVideos)
		}

		courses = append(courses, EnrolledCourse{
			Course:             e.Course,
			TotalDuration:      ConvertSecondsToDuration(totalSeconds),
			ProgressPercentage: progressPercentage(completed, subSectionCount),
		})
	}

	return courses, nil
}

// InstructorDashboard returns enrollment and revenue totals per course
func (s *ProfileService) InstructorDashboard(ctx context.Context, instructorID uint) ([]CourseStats, error) {
	var rows []struct {
		ID                    uint
		CourseName            string
		CourseDescription     string
		Price                 float64
		TotalStudentsEnrolled int64
	}

	err := s.db.WithContext(ctx).Model(&model.Course{}).
		Select("courses.id, courses.course_name, courses.course_description, courses.price, COUNT(enrollments.id) AS total_students_enrolled").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
		Where("courses.instructor_id = ?", instructorID).
		Group("courses.id, courses.course_name, courses.course_description, courses.price").
		Order("courses.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate courses: %w", err)
	}

	stats := make([]CourseStats, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, CourseStats{
			ID:                    r.ID,
			CourseName:            r.CourseName,
			CourseDescription:     r.CourseDescription,
			TotalStudentsEnrolled: r.TotalStudentsEnrolled,
			TotalAmountGenerated:  float64(r.TotalStudentsEnrolled) * r.Price,
		})
	}
	return stats, nil
}

// parseSeconds reads the integer part of a stored duration
func parseSeconds(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds < 0 {
		return 0
	}
	return int64(seconds)
}

// ConvertSecondsToDuration formats seconds as "1h 2m", "3m 4s" or "5s"
func ConvertSecondsToDuration(totalSeconds int64) string {
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// progressPercentage is 100 for a course without lectures, otherwise the
// completed share rounded to two decimals
func progressPercentage(completed, total int) float64 {
	if total == 0 {
		return 100
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}
