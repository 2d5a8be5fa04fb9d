package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gdb, mock
}

func TestFilterContent(t *testing.T) {
	ms := NewModerationService(nil)

	tests := []struct {
		name   string
		text   string
		ok     bool
		reason string
	}{
		{"empty text passes", "", true, ""},
		{"clean text passes", "just had the best coffee of my life", true, ""},
		{"banned word", "this is such bullshit", false, "inappropriate_language"},
		{"banned word is case insensitive", "SPAM everywhere", false, "inappropriate_language"},
		{"banned word inside another word passes", "I love grass and classic cars", true, ""},
		{"http url", "check out https://example.com/deal", false, "url_not_allowed"},
		{"www url", "visit www.example.com now", false, "url_not_allowed"},
		{"email address", "contact me at someone@example.com", false, "contact_info_not_allowed"},
		{"phone number", "call 555-123-4567 today", false, "contact_info_not_allowed"},
		{"repeated characters", "soooooo good", false, "spam_detected"},
		{"excessive caps", "AMAZING OFFER LIMITED HURRY", false, "excessive_caps"},
		{"two caps words pass", "HELLO WORLD everyone", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := ms.FilterContent(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestContainsProfanity(t *testing.T) {
	ms := NewModerationService(nil)

	assert.True(t, ms.ContainsProfanity("what a scam"))
	assert.False(t, ms.ContainsProfanity("what a scheme"))
}

func TestGetRejectionMessage(t *testing.T) {
	ms := NewModerationService(nil)

	assert.Equal(t, "URLs and web links are not allowed.", ms.GetRejectionMessage("url_not_allowed"))
	assert.Equal(t, "Your content does not meet our community guidelines.", ms.GetRejectionMessage("something_else"))
}

func TestModerateContentStub(t *testing.T) {
	// The stub confidences sit below every flag threshold, so no ContentFlag
	// rows are written and the database is never touched.
	ms := NewModerationService(nil)

	result, err := ms.ModerateContent(&dto.AIModerationRequest{
		ContentType: "post",
		ContentID:   uuid.New(),
		ContentText: "anything at all",
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.15, result.ConfidenceScores["spam"], 1e-9)
	assert.InDelta(t, 0.05, result.ConfidenceScores["hate_speech"], 1e-9)
	assert.InDelta(t, 0.10, result.ConfidenceScores["fake_news"], 1e-9)
	assert.Empty(t, result.Flags)
	assert.InDelta(t, 0.15, result.OverallRiskScore, 1e-9)
	assert.Equal(t, "allow", result.RecommendedAction)
}

func TestModerateContentSelectedChecks(t *testing.T) {
	ms := NewModerationService(nil)

	result, err := ms.ModerateContent(&dto.AIModerationRequest{
		ContentType: "comment",
		ContentID:   uuid.New(),
		CheckTypes:  []string{"hate_speech", "unknown_check"},
	})
	require.NoError(t, err)

	assert.Len(t, result.ConfidenceScores, 1)
	assert.InDelta(t, 0.05, result.ConfidenceScores["hate_speech"], 1e-9)
	assert.Equal(t, "allow", result.RecommendedAction)
}

func TestCreateReportValidation(t *testing.T) {
	ms := NewModerationService(nil)

	_, err := ms.CreateReport(uuid.New(), &dto.CreateReportRequest{
		ContentType: "playlist",
		ContentID:   uuid.New(),
		Reason:      "spam",
	})
	assert.EqualError(t, err, "invalid content_type")

	_, err = ms.CreateReport(uuid.New(), &dto.CreateReportRequest{
		ContentType: "post",
		ContentID:   uuid.New(),
	})
	assert.EqualError(t, err, "reason is required")
}

func TestCreateReportDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	ms := NewModerationService(db)

	reporterID := uuid.New()
	contentID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "content_reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reporter_id", "content_type", "content_id", "status"}).
			AddRow(uuid.New().String(), reporterID.String(), "post", contentID.String(), "pending"))

	_, err := ms.CreateReport(reporterID, &dto.CreateReportRequest{
		ContentType: "post",
		ContentID:   contentID,
		Reason:      "spam",
	})
	assert.ErrorIs(t, err, ErrAlreadyReported)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTakeActionValidation(t *testing.T) {
	ms := NewModerationService(nil)

	_, err := ms.TakeAction(uuid.New(), &dto.CreateActionRequest{
		ContentType: "post",
		ContentID:   uuid.New(),
		ActionType:  "obliterate",
		Reason:      "spam",
	})
	assert.EqualError(t, err, "invalid action_type")
}

func TestReviewReportInvalidStatus(t *testing.T) {
	ms := NewModerationService(nil)

	_, err := ms.ReviewReport(uuid.New(), uuid.New(), &dto.ReviewReportRequest{Status: "pending"})
	assert.Error(t, err)
}

func TestBanUserValidation(t *testing.T) {
	ms := NewModerationService(nil)

	_, err := ms.BanUser(uuid.New(), &dto.BanUserRequest{UserID: uuid.New()})
	assert.EqualError(t, err, "reason is required")

	_, err = ms.BanUser(uuid.New(), &dto.BanUserRequest{
		UserID:  uuid.New(),
		Reason:  "abuse",
		BanType: "forever",
	})
	assert.EqualError(t, err, "ban_type must be temporary or permanent")
}

func TestIsBannedNoActiveBan(t *testing.T) {
	db, mock := newMockDB(t)
	ms := NewModerationService(db)

	mock.ExpectQuery(`SELECT \* FROM "user_bans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "is_active"}))

	banned, err := ms.IsBanned(uuid.New())
	require.NoError(t, err)
	assert.False(t, banned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsBannedActiveBan(t *testing.T) {
	db, mock := newMockDB(t)
	ms := NewModerationService(db)

	userID := uuid.New()
	expires := time.Now().Add(24 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "user_bans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "is_active", "expires_at"}).
			AddRow(uuid.New().String(), userID.String(), true, expires))

	banned, err := ms.IsBanned(userID)
	require.NoError(t, err)
	assert.True(t, banned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsBannedExpiredBanDeactivatedLazily(t *testing.T) {
	db, mock := newMockDB(t)
	ms := NewModerationService(db)

	userID := uuid.New()
	expired := time.Now().Add(-1 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "user_bans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "is_active", "expires_at"}).
			AddRow(uuid.New().String(), userID.String(), true, expired))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "user_bans"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	banned, err := ms.IsBanned(userID)
	require.NoError(t, err)
	assert.False(t, banned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLiftBanNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	ms := NewModerationService(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "user_bans"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := ms.LiftBan(uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrBanNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveFlagValidation(t *testing.T) {
	ms := NewModerationService(nil)

	err := ms.ResolveFlag(uuid.New(), uuid.New(), "active")
	assert.EqualError(t, err, "status must be resolved or dismissed")
}

func TestBlockUserSelf(t *testing.T) {
	ms := NewModerationService(nil)

	id := uuid.New()
	assert.ErrorIs(t, ms.BlockUser(id, id), ErrSelfBlock)
}

func TestBlockUserAlreadyBlocked(t *testing.T) {
	db, mock := newMockDB(t)
	ms := NewModerationService(db)

	blockerID := uuid.New()
	blockedID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "blocks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "blocker_id", "blocked_id"}).
			AddRow(uuid.New().String(), blockerID.String(), blockedID.String()))

	assert.ErrorIs(t, ms.BlockUser(blockerID, blockedID), ErrAlreadyBlocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsBlockedEither(t *testing.T) {
	db, mock := newMockDB(t)
	ms := NewModerationService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "blocks"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	blocked, err := ms.IsBlockedEither(uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type dispatchRecorder struct {
	events   []string
	payloads []map[string]interface{}
}

func (r *dispatchRecorder) Dispatch(event string, payload map[string]interface{}) {
	r.events = append(r.events, event)
	r.payloads = append(r.payloads, payload)
}

func TestCreateReportDispatchesEvent(t *testing.T) {
	db, mock := newMockDB(t)
	ms := NewModerationService(db)

	recorder := &dispatchRecorder{}
	ms.SetDispatcher(recorder)

	reporterID := uuid.New()
	contentID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "content_reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "content_reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "moderation_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	report, err := ms.CreateReport(reporterID, &dto.CreateReportRequest{
		ContentType: "post",
		ContentID:   contentID,
		Reason:      "spam",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"report.created"}, recorder.events)
	assert.Equal(t, report.ID.String(), recorder.payloads[0]["report_id"])
	assert.Equal(t, "spam", recorder.payloads[0]["reason"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
