package database

import (
	"testing"

	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *gorm.DB {
	t.Helper()
	store, err := StartSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.HealthCheck())
	return store.GetDB().(*gorm.DB)
}

func TestSeedAll(t *testing.T) {
	db := newTestStore(t)
	t.Setenv("SEED_INSTRUCTOR_EMAIL", "instructor@studynotion.test")
	t.Setenv("SEED_INSTRUCTOR_PASSWORD", "demo-password")

	require.NoError(t, RunSeeds(db))
	// second run is a no-op
	require.NoError(t, RunSeeds(db))

	var instructor model.User
	require.NoError(t, db.Preload("Profile").Where("email = ?", "instructor@studynotion.test").First(&instructor).Error)
	assert.Equal(t, model.AccountTypeInstructor, instructor.AccountType)
	assert.NotZero(t, instructor.Profile.ID)

	var courses []model.Course
	require.NoError(t, db.Preload("Sections.SubSections").Where("instructor_id = ?", instructor.ID).Find(&courses).Error)
	require.Len(t, courses, 3)
	for _, course := range courses {
		require.Len(t, course.Sections, 1)
		require.Len(t, course.Sections[0].SubSections, 1)
		assert.Equal(t, "95", course.Sections[0].SubSections[0].TimeDuration)
	}
}

func TestSeedSkipsWithoutCredentials(t *testing.T) {
	db := newTestStore(t)
	t.Setenv("SEED_INSTRUCTOR_EMAIL", "")
	t.Setenv("SEED_INSTRUCTOR_PASSWORD", "")

	require.NoError(t, RunSeeds(db))

	var count int64
	require.NoError(t, db.Model(&model.Course{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSeedAccount(t *testing.T) {
	db := newTestStore(t)
	seeder := NewSeeder(db)
	acct := Account{FirstName: "Ada", LastName: "L", Email: "ada@studynotion.test", Password: "pw-1", AccountType: model.AccountTypeStudent}

	user, created, err := seeder.SeedAccount(acct)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, user.Active)
	assert.True(t, user.Approved)
	assert.NotZero(t, user.ProfileID)
	assert.NoError(t, auth.VerifyPassword(user.PasswordHash, "pw-1"))

	acct.Password = "pw-2"
	again, created, err := seeder.SeedAccount(acct)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
	assert.NoError(t, auth.VerifyPassword(again.PasswordHash, "pw-1"))
}
