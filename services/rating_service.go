package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/utils/validation"
	"gorm.io/gorm"
)

// ReviewAuthor is the public part of a reviewer
type ReviewAuthor struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Image     string `json:"image"`
}

// ReviewCourse is the public part of a reviewed course
type ReviewCourse struct {
	ID         uint   `json:"id"`
	CourseName string `json:"courseName"`
}

// ReviewView is a review with its author and course populated
type ReviewView struct {
	ID     uint          `json:"id"`
	Rating int           `json:"rating"`
	Review string        `json:"review"`
	User   *ReviewAuthor `json:"user"`
	Course *ReviewCourse `json:"course"`
}

// RatingService manages course ratings and reviews
type RatingService struct {
	db *gorm.DB
}

// NewRatingService creates a rating service
func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// CreateRating stores the user's single review of a course they are enrolled in
func (s *RatingService) CreateRating(ctx context.Context, userID, courseID uint, rating int, review string) (*model.RatingAndReview, error) {
	review = validation.SanitizeString(review)
	if courseID == 0 {
		return nil, ErrValidation
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	db := s.db.WithContext(ctx)

	var enrolled int64
	err := db.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&enrolled).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if enrolled == 0 {
		return nil, ErrNotEnrolled
	}

	var reviewed int64
	err = db.Model(&model.RatingAndReview{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&reviewed).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if reviewed > 0 {
		return nil, ErrAlreadyReviewed
	}

	entry := &model.RatingAndReview{
		UserID:   userID,
		CourseID: courseID,
		Rating:   rating,
		Review:   review,
	}
	if err := db.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return entry, nil
}

// GetAverageRating returns the mean rating of a course and the number of
// reviews. Both are zero when the course has no reviews.
func (s *RatingService) GetAverageRating(ctx context.Context, courseID uint) (float64, int64, error) {
	if courseID == 0 {
		return 0, 0, ErrValidation
	}

	var row struct {
		Average *float64
		Total   int64
	}
	err := s.db.WithContext(ctx).Model(&model.RatingAndReview{}).
		Select("AVG(rating) AS average, COUNT(*) AS total").
		Where("course_id = ?", courseID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	if row.Total == 0 || row.Average == nil {
		return 0, 0, nil
	}
	return *row.Average, row.Total, nil
}

func (s *RatingService) listReviews(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]ReviewView, error) {
	var reviews []model.RatingAndReview
	err := s.db.WithContext(ctx).
		Scopes(scope).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped().Select("id", "first_name", "last_name", "email", "image")
		}).
		Preload("Course", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "course_name")
		}).
		Order("rating DESC, id ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	views := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		view := ReviewView{
			ID:     r.ID,
			Rating: r.Rating,
			Review: r.Review,
		}
		if r.User != nil {
			view.User = &ReviewAuthor{
				FirstName: r.User.FirstName,
				LastName:  r.User.LastName,
				Email:     r.User.Email,
				Image:     r.User.Image,
			}
		}
		if r.Course != nil {
			view.Course = &ReviewCourse{ID: r.Course.ID, CourseName: r.Course.CourseName}
		}
		views = append(views, view)
	}
	return views, nil
}

// GetAllRatings returns every review, highest rating first
func (s *RatingService) GetAllRatings(ctx context.Context) ([]ReviewView, error) {
	return s.listReviews(ctx, func(db *gorm.DB) *gorm.DB { return db })
}

// GetCourseReviews returns the reviews of one course
func (s *RatingService) GetCourseReviews(ctx context.Context, courseID uint) ([]ReviewView, error) {
	if courseID == 0 {
		return nil, ErrValidation
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Course{}).Where("id = ?", courseID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if count == 0 {
		return nil, ErrCourseNotFound
	}

	return s.listReviews(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("course_id = ?", courseID)
	})
}
