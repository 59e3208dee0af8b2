package services

import (
	"context"
	"testing"

	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	userID := uint(7)

	tests := []struct {
		name        string
		mailErr     error
		mustSucceed bool
		wantErr     bool
		wantStatus  string
	}{
		{"delivered", nil, true, false, model.NotificationStatusSent},
		{"best effort failure is swallowed", errSMTPDown, false, false, model.NotificationStatusFailed},
		{"required failure is returned", errSMTPDown, true, true, model.NotificationStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			mailer := &fakeMailer{err: tt.mailErr}
			svc := NewNotificationService(db, mailer)

			err := svc.Dispatch(ctx, Notification{
				UserID:      &userID,
				To:          "ada@example.com",
				Subject:     "Hello",
				Body:        "<p>hi</p>",
				Kind:        model.NotificationKindEnrollment,
				MustSucceed: tt.mustSucceed,
				Metadata:    map[string]interface{}{"course": "Go Basics"},
			})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotificationFailed)
				assert.ErrorIs(t, err, errSMTPDown)
			} else {
				assert.NoError(t, err)
			}

			var entry model.NotificationLog
			require.NoError(t, db.First(&entry).Error)
			assert.Equal(t, tt.wantStatus, entry.Status)
			assert.Equal(t, "ada@example.com", entry.Recipient)
			assert.Equal(t, tt.mustSucceed, entry.MustSucceed)
			assert.JSONEq(t, `{"course":"Go Basics"}`, string(entry.Metadata))
			if tt.mailErr != nil {
				assert.Equal(t, errSMTPDown.Error(), entry.Error)
			}
		})
	}
}
