package social

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/services"
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

func TestAddCommentBumpsCounter(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSocialService(db, services.NewModerationService(nil), nil, nil)

	postID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "posts" SET "comment_count"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	comment, err := s.AddComment(uuid.New(), "post", postID, nil, "great shot")
	require.NoError(t, err)
	assert.Equal(t, postID, comment.ContentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCommentDecrementsCounter(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSocialService(db, services.NewModerationService(nil), nil, nil)

	userID := uuid.New()
	commentID := uuid.New()
	postID := uuid.New()

	mock.ExpectQuery(`FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content_type", "content_id"}).
			AddRow(commentID, userID, "post", postID))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "comments"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`comment_count > 0`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteComment(userID, commentID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Story comments have no denormalized counter to touch.
func TestBumpCommentCountSkipsStories(t *testing.T) {
	s := NewSocialService(nil, nil, nil, nil)

	s.bumpCommentCount("story", uuid.New(), 1)
}
