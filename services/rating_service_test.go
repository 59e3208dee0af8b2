package services

import (
	"context"
	"testing"

	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func enroll(t *testing.T, db *gorm.DB, userID, courseID uint) {
	t.Helper()
	require.NoError(t, db.Omit("Course", "CourseProgress").Create(&model.Enrollment{UserID: userID, CourseID: courseID}).Error)
}

func TestCreateRating(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	instructor := createUser(t, db, "instructor@example.com", "pw", model.AccountTypeInstructor)
	student := createUser(t, db, "student@example.com", "pw", model.AccountTypeStudent)
	course := createCourse(t, db, instructor.ID, "Go Basics", 100)
	ctx := context.Background()

	_, err := svc.CreateRating(ctx, student.ID, course.ID, 5, "Great")
	assert.ErrorIs(t, err, ErrNotEnrolled)

	enroll(t, db, student.ID, course.ID)

	_, err = svc.CreateRating(ctx, student.ID, course.ID, 6, "Too good")
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.CreateRating(ctx, student.ID, course.ID, 0, "Bad")
	assert.ErrorIs(t, err, ErrInvalidRating)

	review, err := svc.CreateRating(ctx, student.ID, course.ID, 4, " Solid course ")
	require.NoError(t, err)
	assert.Equal(t, "Solid course", review.Review)

	_, err = svc.CreateRating(ctx, student.ID, course.ID, 3, "Changed my mind")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestRatingUniqueIndex(t *testing.T) {
	db := newTestDB(t)

	first := &model.RatingAndReview{UserID: 1, CourseID: 1, Rating: 5, Review: "a"}
	second := &model.RatingAndReview{UserID: 1, CourseID: 1, Rating: 4, Review: "b"}
	require.NoError(t, db.Omit("User", "Course").Create(first).Error)
	assert.ErrorIs(t, db.Omit("User", "Course").Create(second).Error, gorm.ErrDuplicatedKey)
}

func TestGetAverageRating(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	instructor := createUser(t, db, "instructor@example.com", "pw", model.AccountTypeInstructor)
	course := createCourse(t, db, instructor.ID, "Go Basics", 100)
	ctx := context.Background()

	average, count, err := svc.GetAverageRating(ctx, course.ID)
	require.NoError(t, err)
	assert.Zero(t, average)
	assert.Zero(t, count)

	for i, rating := range []int{5, 4, 3} {
		student := createUser(t, db, string(rune('a'+i))+"@example.com", "pw", model.AccountTypeStudent)
		enroll(t, db, student.ID, course.ID)
		_, err := svc.CreateRating(ctx, student.ID, course.ID, rating, "ok")
		require.NoError(t, err)
	}

	average, count, err = svc.GetAverageRating(ctx, course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, average, 0.0001)
	assert.Equal(t, int64(3), count)
}

func TestGetAllRatingsSortedWithAuthors(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	instructor := createUser(t, db, "instructor@example.com", "pw", model.AccountTypeInstructor)
	course := createCourse(t, db, instructor.ID, "Go Basics", 100)
	other := createCourse(t, db, instructor.ID, "Rust Basics", 100)
	ctx := context.Background()

	low := createUser(t, db, "low@example.com", "pw", model.AccountTypeStudent)
	high := createUser(t, db, "high@example.com", "pw", model.AccountTypeStudent)
	enroll(t, db, low.ID, course.ID)
	enroll(t, db, high.ID, other.ID)

	_, err := svc.CreateRating(ctx, low.ID, course.ID, 2, "meh")
	require.NoError(t, err)
	_, err = svc.CreateRating(ctx, high.ID, other.ID, 5, "loved it")
	require.NoError(t, err)

	reviews, err := svc.GetAllRatings(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 5, reviews[0].Rating)
	require.NotNil(t, reviews[0].User)
	assert.Equal(t, "high@example.com", reviews[0].User.Email)
	require.NotNil(t, reviews[0].Course)
	assert.Equal(t, "Rust Basics", reviews[0].Course.CourseName)
	assert.Equal(t, 2, reviews[1].Rating)

	courseReviews, err := svc.GetCourseReviews(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, courseReviews, 1)
	assert.Equal(t, "meh", courseReviews[0].Review)

	_, err = svc.GetCourseReviews(ctx, 9999)
	assert.ErrorIs(t, err, ErrCourseNotFound)
	_, err = svc.GetCourseReviews(ctx, 0)
	assert.ErrorIs(t, err, ErrValidation)
}
