package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/dto"
	"github.com/pulseapp/pulse-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifySkipsDisabledPreference(t *testing.T) {
	db, mock := newMockDB(t)
	ns := NewNotificationService(db)

	userID := uuid.New()

	// A preference row with in_app disabled gates the notification: no
	// insert is expected after the lookup.
	mock.ExpectQuery(`SELECT \* FROM "notification_preferences"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "in_app_enabled", "push_enabled"}).
			AddRow(uuid.New().String(), userID.String(), models.NotifyLike, false, true))

	err := ns.Notify(userID, nil, models.NotifyLike, "New like", "someone liked your post", "post", nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReadNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	ns := NewNotificationService(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := ns.MarkRead(uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAllRead(t *testing.T) {
	db, mock := newMockDB(t)
	ns := NewNotificationService(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications"`).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	updated, err := ns.MarkAllRead(uuid.New())
	require.NoError(t, err)
	assert.EqualValues(t, 4, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNotificationNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	ns := NewNotificationService(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "notifications"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := ns.Delete(uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePreferenceRequiresType(t *testing.T) {
	ns := NewNotificationService(nil)

	_, err := ns.UpdatePreference(uuid.New(), &dto.UpdatePreferenceRequest{})
	assert.EqualError(t, err, "type is required")
}

func TestRegisterDeviceValidation(t *testing.T) {
	ns := NewNotificationService(nil)

	_, err := ns.RegisterDevice(uuid.New(), &dto.RegisterDeviceRequest{DeviceType: "ios"})
	assert.EqualError(t, err, "device_token is required")

	_, err = ns.RegisterDevice(uuid.New(), &dto.RegisterDeviceRequest{
		DeviceToken: "tok-123",
		DeviceType:  "blackberry",
	})
	assert.EqualError(t, err, "device_type must be ios, android, or web")
}
