package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/services"
	"github.com/sahilchouksey/studynotion-api/utils/auth"
)

const jobTimeout = 5 * time.Minute

// Expired reset tokens are kept this long so reset attempts still report
// the token as expired rather than unknown.
const resetTokenRetention = 24 * time.Hour

// PurgeExpiredOTPs deletes OTPs older than the configured lifetime.
// Expired codes are already rejected at signup; this only keeps the table small.
func (m *CronManager) PurgeExpiredOTPs() {
	entry := m.logJobStart("purge_expired_otps")

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cutoff := m.now().Add(-m.otpTTL)
	result := m.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.OTP{})
	if result.Error != nil {
		m.logJobError(entry, fmt.Errorf("failed to delete expired otps: %w", result.Error))
		return
	}

	m.logJobComplete(entry, result.RowsAffected,
		fmt.Sprintf("Deleted %d expired OTPs", result.RowsAffected),
		map[string]interface{}{"cutoff": cutoff.Format(time.RFC3339)})
}

// CleanupTokenBlacklist removes revoked tokens whose JWT has expired
func (m *CronManager) CleanupTokenBlacklist() {
	entry := m.logJobStart("cleanup_token_blacklist")

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	removed, err := auth.NewBlacklistService(m.db).CleanupExpiredTokens(ctx)
	if err != nil {
		m.logJobError(entry, fmt.Errorf("failed to clean token blacklist: %w", err))
		return
	}

	m.logJobComplete(entry, removed, fmt.Sprintf("Removed %d blacklisted tokens", removed), nil)
}

// ClearExpiredResetTokens unsets password reset tokens that expired more
// than resetTokenRetention ago
func (m *CronManager) ClearExpiredResetTokens() {
	entry := m.logJobStart("clear_expired_reset_tokens")

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cutoff := m.now().Add(-resetTokenRetention)
	result := m.db.WithContext(ctx).Model(&model.User{}).
		Where("reset_token IS NOT NULL AND reset_password_expires < ?", cutoff).
		Updates(map[string]interface{}{
			"reset_token":            nil,
			"reset_password_expires": nil,
		})
	if result.Error != nil {
		m.logJobError(entry, fmt.Errorf("failed to clear reset tokens: %w", result.Error))
		return
	}

	m.logJobComplete(entry, result.RowsAffected,
		fmt.Sprintf("Cleared %d expired reset tokens", result.RowsAffected),
		map[string]interface{}{"cutoff": cutoff.Format(time.RFC3339)})
}

// FailStalePaymentOrders marks orders left in created state for a day as failed
func (m *CronManager) FailStalePaymentOrders() {
	entry := m.logJobStart("fail_stale_payment_orders")

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	failed, err := services.FailStaleOrders(ctx, m.db, defaultStaleOrderThreshold)
	if err != nil {
		m.logJobError(entry, fmt.Errorf("failed to update stale orders: %w", err))
		return
	}

	m.logJobComplete(entry, failed, fmt.Sprintf("Marked %d stale orders as failed", failed),
		map[string]interface{}{"threshold_hours": defaultStaleOrderThreshold.Hours()})
}
