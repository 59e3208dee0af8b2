package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newProfileService(t *testing.T) (*ProfileService, *gorm.DB, *fakeUploader) {
	t.Helper()
	db := newTestDB(t)
	uploader := &fakeUploader{}
	return NewProfileService(db, uploader, "studynotion"), db, uploader
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	svc, db, _ := newProfileService(t)
	user := createUser(t, db, "ada@example.com", "pw", model.AccountTypeStudent)
	ctx := context.Background()

	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileInput{
		ContactNumber: strPtr("9876543210"),
		Gender:        strPtr("Female"),
	})
	require.NoError(t, err)

	profile := updated.Profile
	require.NotNil(t, profile.DateOfBirth)
	assert.Equal(t, "", *profile.DateOfBirth)
	require.NotNil(t, profile.About)
	assert.Equal(t, "", *profile.About)
	require.NotNil(t, profile.ContactNumber)
	assert.Equal(t, "9876543210", *profile.ContactNumber)
	require.NotNil(t, profile.Gender)
	assert.Equal(t, "Female", *profile.Gender)

	// absent fields are written too
	updated, err = svc.UpdateProfile(ctx, user.ID, ProfileInput{About: strPtr("Mathematician")})
	require.NoError(t, err)
	assert.Equal(t, "Mathematician", *updated.Profile.About)
	assert.Nil(t, updated.Profile.Gender)
	assert.Nil(t, updated.Profile.ContactNumber)

	_, err = svc.UpdateProfile(ctx, 9999, ProfileInput{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteAccount(t *testing.T) {
	svc, db, _ := newProfileService(t)
	user := createUser(t, db, "ada@example.com", "pw", model.AccountTypeStudent)
	instructor := createUser(t, db, "instructor@example.com", "pw", model.AccountTypeInstructor)
	course := createCourse(t, db, instructor.ID, "Go Basics", 100)
	enroll(t, db, user.ID, course.ID)
	ctx := context.Background()

	require.NoError(t, svc.DeleteAccount(ctx, user.ID))

	var count int64
	require.NoError(t, db.Unscoped().Model(&model.User{}).Where("id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.Profile{}).Where("id = ?", user.ProfileID).Count(&count).Error)
	assert.Zero(t, count)

	// enrollments are left behind
	require.NoError(t, db.Model(&model.Enrollment{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// the email can register again
	createUser(t, db, "ada@example.com", "pw", model.AccountTypeStudent)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, 9999), ErrUserNotFound)
}

func TestUpdateDisplayPicture(t *testing.T) {
	svc, db, uploader := newProfileService(t)
	user := createUser(t, db, "ada@example.com", "pw", model.AccountTypeStudent)
	ctx := context.Background()

	updated, err := svc.UpdateDisplayPicture(ctx, user.ID, videoHeader("me.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/studynotion/images/me.png", updated.Image)
	assert.Equal(t, []string{"studynotion/images"}, uploader.folders)

	uploader.err = errors.New("bucket unavailable")
	_, err = svc.UpdateDisplayPicture(ctx, user.ID, videoHeader("me.png"))
	assert.ErrorIs(t, err, ErrUploadFailed)

	_, err = svc.UpdateDisplayPicture(ctx, user.ID, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetEnrolledCourses(t *testing.T) {
	svc, db, _ := newProfileService(t)
	student := createUser(t, db, "ada@example.com", "pw", model.AccountTypeStudent)
	instructor := createUser(t, db, "instructor@example.com", "pw", model.AccountTypeInstructor)
	ctx := context.Background()

	withLectures := createCourse(t, db, instructor.ID, "Go Basics", 100)
	empty := createCourse(t, db, instructor.ID, "Coming Soon", 50)

	section := &model.Section{SectionName: "Intro", CourseID: &withLectures.ID, Position: 1}
	require.NoError(t, db.Create(section).Error)
	var lectureIDs []uint
	for i, duration := range []string{"3600", "125", "60"} {
		lecture := &model.SubSection{SectionID: &section.ID, Title: "L", TimeDuration: duration, Position: i + 1}
		require.NoError(t, db.Create(lecture).Error)
		lectureIDs = append(lectureIDs, lecture.ID)
	}

	progress := &model.CourseProgress{
		CourseID:        withLectures.ID,
		UserID:          student.ID,
		CompletedVideos: datatypes.JSONSlice[uint]{lectureIDs[0]},
	}
	require.NoError(t, db.Create(progress).Error)
	require.NoError(t, db.Omit("Course", "CourseProgress").Create(&model.Enrollment{
		UserID:           student.ID,
		CourseID:         withLectures.ID,
		CourseProgressID: &progress.ID,
	}).Error)
	enroll(t, db, student.ID, empty.ID)

	courses, err := svc.GetEnrolledCourses(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, courses, 2)

	assert.Equal(t, "Go Basics", courses[0].CourseName)
	assert.Equal(t, "1h 3m", courses[0].TotalDuration)
	assert.Equal(t, 33.33, courses[0].ProgressPercentage)

	assert.Equal(t, "Coming Soon", courses[1].CourseName)
	assert.Equal(t, "0s", courses[1].TotalDuration)
	assert.Equal(t, float64(100), courses[1].ProgressPercentage)
}

func TestConvertSecondsToDuration(t *testing.T) {
	cases := map[int64]string{
		0:    "0s",
		5:    "5s",
		184:  "3m 4s",
		3720: "1h 2m",
		7261: "2h 1m",
	}
	for seconds, want := range cases {
		assert.Equal(t, want, ConvertSecondsToDuration(seconds), "seconds=%d", seconds)
	}
}

func TestInstructorDashboard(t *testing.T) {
	svc, db, _ := newProfileService(t)
	instructor := createUser(t, db, "instructor@example.com", "pw", model.AccountTypeInstructor)
	otherInstructor := createUser(t, db, "other@example.com", "pw", model.AccountTypeInstructor)
	ctx := context.Background()

	popular := createCourse(t, db, instructor.ID, "Popular", 200)
	quiet := createCourse(t, db, instructor.ID, "Quiet", 50)
	createCourse(t, db, otherInstructor.ID, "Not Mine", 10)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		student := createUser(t, db, email, "pw", model.AccountTypeStudent)
		enroll(t, db, student.ID, popular.ID)
	}

	stats, err := svc.InstructorDashboard(ctx, instructor.ID)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, popular.ID, stats[0].ID)
	assert.Equal(t, int64(3), stats[0].TotalStudentsEnrolled)
	assert.Equal(t, float64(600), stats[0].TotalAmountGenerated)

	assert.Equal(t, quiet.ID, stats[1].ID)
	assert.Zero(t, stats[1].TotalStudentsEnrolled)
	assert.Zero(t, stats[1].TotalAmountGenerated)
}
