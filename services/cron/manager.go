package cron

import (
	"encoding/json"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/studynotion-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Schedules use seconds precision
const (
	schedulePurgeOTPs          = "0 */10 * * * *"
	scheduleCleanupBlacklist   = "0 0 * * * *"
	scheduleClearResetTokens   = "0 15 * * * *"
	scheduleFailStaleOrders    = "0 0 3 * * *"
	defaultStaleOrderThreshold = 24 * time.Hour
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron   *cron.Cron
	db     *gorm.DB
	otpTTL time.Duration
	now    func() time.Time
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, otpTTL time.Duration) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:   c,
		db:     db,
		otpTTL: otpTTL,
		now:    time.Now,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// Entries returns the number of registered jobs
func (m *CronManager) Entries() int {
	return len(m.cron.Entries())
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	jobs := []struct {
		spec string
		run  func()
	}{
		// 1. Every 10 minutes: drop OTPs past their lifetime
		{schedulePurgeOTPs, m.PurgeExpiredOTPs},
		// 2. Hourly: drop blacklist entries for tokens that expired anyway
		{scheduleCleanupBlacklist, m.CleanupTokenBlacklist},
		// 3. Hourly: clear password reset tokens past their expiry
		{scheduleClearResetTokens, m.ClearExpiredResetTokens},
		// 4. Daily at 3 AM: fail orders never confirmed
		{scheduleFailStaleOrders, m.FailStalePaymentOrders},
	}

	for _, job := range jobs {
		if _, err := m.cron.AddFunc(job.spec, job.run); err != nil {
			return err
		}
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// logJobStart logs the start of a cron job and returns its log row
func (m *CronManager) logJobStart(jobName string) *model.CronJobLog {
	startedAt := m.now()
	log.Printf("[CRON] Starting job: %s at %s", jobName, startedAt.Format(time.RFC3339))

	cronLog := &model.CronJobLog{
		JobName:   jobName,
		Status:    model.CronStatusStarted,
		StartedAt: startedAt,
		Metadata:  datatypes.JSON("{}"),
	}
	if err := m.db.Create(cronLog).Error; err != nil {
		log.Printf("[CRON] Failed to record start of %s: %v", jobName, err)
	}
	return cronLog
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(entry *model.CronJobLog, affected int64, message string, metadata map[string]interface{}) {
	log.Printf("[CRON] Completed job: %s - %s", entry.JobName, message)

	completedAt := m.now()
	updates := map[string]interface{}{
		"status":       model.CronStatusCompleted,
		"completed_at": completedAt,
		"duration":     int(completedAt.Sub(entry.StartedAt).Milliseconds()),
		"message":      message,
		"affected":     affected,
	}
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			updates["metadata"] = datatypes.JSON(raw)
		}
	}
	m.finish(entry, updates)
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(entry *model.CronJobLog, err error) {
	log.Printf("[CRON] Error in job: %s - %v", entry.JobName, err)

	completedAt := m.now()
	m.finish(entry, map[string]interface{}{
		"status":       model.CronStatusFailed,
		"completed_at": completedAt,
		"duration":     int(completedAt.Sub(entry.StartedAt).Milliseconds()),
		"error_msg":    err.Error(),
	})
}

func (m *CronManager) finish(entry *model.CronJobLog, updates map[string]interface{}) {
	if entry.ID == 0 {
		return
	}
	if err := m.db.Model(&model.CronJobLog{}).Where("id = ?", entry.ID).Updates(updates).Error; err != nil {
		log.Printf("[CRON] Failed to record result of %s: %v", entry.JobName, err)
	}
}
