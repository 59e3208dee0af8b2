package cron

import (
	"context"
	"testing"
	"time"

	"github.com/sahilchouksey/studynotion-api/database"
	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/services"
	"github.com/sahilchouksey/studynotion-api/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestManager(t *testing.T) (*CronManager, *gorm.DB) {
	t.Helper()

	store, err := database.StartSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	db := store.GetDB().(*gorm.DB)
	return NewCronManager(db, 5*time.Minute), db
}

func lastRun(t *testing.T, db *gorm.DB, jobName string) model.CronJobLog {
	t.Helper()
	var entry model.CronJobLog
	require.NoError(t, db.Where("job_name = ?", jobName).Order("id DESC").First(&entry).Error)
	return entry
}

func TestRegisterJobs(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.registerJobs())
	assert.Equal(t, 4, m.Entries())
}

func TestPurgeExpiredOTPs(t *testing.T) {
	m, db := newTestManager(t)
	now := time.Now()

	require.NoError(t, db.Create(&model.OTP{Email: "old@example.com", Code: "111111", CreatedAt: now.Add(-10 * time.Minute)}).Error)
	require.NoError(t, db.Create(&model.OTP{Email: "new@example.com", Code: "222222", CreatedAt: now.Add(-time.Minute)}).Error)

	m.PurgeExpiredOTPs()

	var remaining []model.OTP
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new@example.com", remaining[0].Email)

	entry := lastRun(t, db, "purge_expired_otps")
	assert.Equal(t, model.CronStatusCompleted, entry.Status)
	assert.Equal(t, int64(1), entry.Affected)
	assert.NotNil(t, entry.CompletedAt)
	assert.Contains(t, string(entry.Metadata), "cutoff")
}

func TestCleanupTokenBlacklist(t *testing.T) {
	m, db := newTestManager(t)
	now := time.Now()

	require.NoError(t, db.Create(&model.JWTTokenBlacklist{Token: "expired", ExpiresAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&model.JWTTokenBlacklist{Token: "live", ExpiresAt: now.Add(time.Hour)}).Error)

	m.CleanupTokenBlacklist()

	var tokens []model.JWTTokenBlacklist
	require.NoError(t, db.Find(&tokens).Error)
	require.Len(t, tokens, 1)
	assert.Equal(t, "live", tokens[0].Token)
	assert.Equal(t, int64(1), lastRun(t, db, "cleanup_token_blacklist").Affected)
}

func seedResetToken(t *testing.T, db *gorm.DB, email, token string, expires time.Time) {
	t.Helper()
	require.NoError(t, db.Omit("Profile").Create(&model.User{
		FirstName: "A", LastName: "B", Email: email, PasswordHash: "x",
		AccountType: model.AccountTypeStudent, Active: true, Approved: true, ProfileID: 1,
		ResetToken: &token, ResetPasswordExpires: &expires,
	}).Error)
}

func TestClearExpiredResetTokens(t *testing.T) {
	m, db := newTestManager(t)
	now := time.Now()

	seedResetToken(t, db, "old@example.com", "old-token", now.Add(-25*time.Hour))
	seedResetToken(t, db, "recent@example.com", "recent-token", now.Add(-time.Minute))
	seedResetToken(t, db, "live@example.com", "live-token", now.Add(time.Hour))

	m.ClearExpiredResetTokens()

	var cleared model.User
	require.NoError(t, db.Where("email = ?", "old@example.com").First(&cleared).Error)
	assert.Nil(t, cleared.ResetToken)
	assert.Nil(t, cleared.ResetPasswordExpires)

	for email, token := range map[string]string{
		"recent@example.com": "recent-token",
		"live@example.com":   "live-token",
	} {
		var kept model.User
		require.NoError(t, db.Where("email = ?", email).First(&kept).Error)
		require.NotNil(t, kept.ResetToken, email)
		assert.Equal(t, token, *kept.ResetToken)
	}

	entry := lastRun(t, db, "clear_expired_reset_tokens")
	assert.Equal(t, int64(1), entry.Affected)
	assert.Contains(t, string(entry.Metadata), "cutoff")
}

func TestResetAfterSweepStillReportsExpired(t *testing.T) {
	m, db := newTestManager(t)
	seedResetToken(t, db, "late@example.com", "late-token", time.Now().Add(-time.Minute))

	m.ClearExpiredResetTokens()

	accounts := services.NewAccountService(db,
		auth.NewJWTManager(auth.JWTConfig{Secret: "cron-test-secret"}),
		services.NewNotificationService(db, nil), "")

	err := accounts.ResetPassword(context.Background(), "late-token", "new-pass", "new-pass")
	assert.ErrorIs(t, err, services.ErrTokenExpired)
}

func TestFailStalePaymentOrders(t *testing.T) {
	m, db := newTestManager(t)
	now := time.Now()

	require.NoError(t, db.Create(&model.PaymentOrder{GatewayOrderID: "order_old", UserID: 1, Amount: 100, Status: model.PaymentStatusCreated, CreatedAt: now.Add(-48 * time.Hour)}).Error)
	require.NoError(t, db.Create(&model.PaymentOrder{GatewayOrderID: "order_new", UserID: 1, Amount: 100, Status: model.PaymentStatusCreated, CreatedAt: now.Add(-time.Hour)}).Error)

	m.FailStalePaymentOrders()

	var old, recent model.PaymentOrder
	require.NoError(t, db.Where("gateway_order_id = ?", "order_old").First(&old).Error)
	require.NoError(t, db.Where("gateway_order_id = ?", "order_new").First(&recent).Error)
	assert.Equal(t, model.PaymentStatusFailed, old.Status)
	assert.Equal(t, model.PaymentStatusCreated, recent.Status)

	entry := lastRun(t, db, "fail_stale_payment_orders")
	assert.Equal(t, model.CronStatusCompleted, entry.Status)
	assert.Equal(t, int64(1), entry.Affected)
}

func TestJobFailureIsLogged(t *testing.T) {
	m, db := newTestManager(t)
	require.NoError(t, db.Migrator().DropTable(&model.OTP{}))

	m.PurgeExpiredOTPs()

	entry := lastRun(t, db, "purge_expired_otps")
	assert.Equal(t, model.CronStatusFailed, entry.Status)
	assert.Contains(t, entry.ErrorMsg, "failed to delete expired otps")
}
