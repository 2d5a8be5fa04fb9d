package streams

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/cache"
	"github.com/pulseapp/pulse-backend/internal/config"
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

// deadCache points at a closed port; redis connects lazily and every call
// fails, which the service treats as a miss.
func deadCache(t *testing.T) *cache.Client {
	t.Helper()
	c := cache.New(&config.Config{RedisHost: "127.0.0.1", RedisPort: "1"})
	t.Cleanup(func() { c.Close() })
	return c
}

type eventRecorder struct {
	events   []string
	payloads []map[string]interface{}
}

func (r *eventRecorder) Dispatch(event string, payload map[string]interface{}) {
	r.events = append(r.events, event)
	r.payloads = append(r.payloads, payload)
}

type noFollowers struct{}

func (noFollowers) FollowerIDs(uuid.UUID) ([]uuid.UUID, error) { return nil, nil }

func TestStartStreamDispatchesEvent(t *testing.T) {
	db, mock := newMockDB(t)
	recorder := &eventRecorder{}
	s := NewStreamService(db, nil, nil, noFollowers{}, recorder)

	hostID := uuid.New()
	streamID := uuid.New()

	mock.ExpectQuery(`FROM "streams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "host_id", "title", "status"}).
			AddRow(streamID, hostID, "launch party", "scheduled"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "streams"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	stream, err := s.StartStream(hostID, streamID)
	require.NoError(t, err)
	assert.Equal(t, "live", stream.Status)

	require.Equal(t, []string{"stream.started"}, recorder.events)
	assert.Equal(t, streamID.String(), recorder.payloads[0]["stream_id"])
	assert.Equal(t, "launch party", recorder.payloads[0]["title"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEndStreamClosesViewersAndDispatches(t *testing.T) {
	db, mock := newMockDB(t)
	recorder := &eventRecorder{}
	s := NewStreamService(db, deadCache(t), nil, noFollowers{}, recorder)

	hostID := uuid.New()
	streamID := uuid.New()
	startedAt := time.Now().Add(-10 * time.Minute)

	mock.ExpectQuery(`FROM "streams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "host_id", "title", "status", "started_at"}).
			AddRow(streamID, hostID, "launch party", "live", startedAt))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "streams"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "stream_viewers"`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	stream, err := s.EndStream(hostID, streamID)
	require.NoError(t, err)
	assert.Equal(t, "ended", stream.Status)
	assert.Equal(t, 0, stream.CurrentViewers)

	require.Equal(t, []string{"stream.ended"}, recorder.events)
	assert.Equal(t, stream.DurationSecs, recorder.payloads[0]["duration_secs"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A leave arriving after the counter was zeroed must not push it negative.
func TestLeaveStreamGuardsCounterFloor(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewStreamService(db, deadCache(t), nil, noFollowers{}, nil)

	userID := uuid.New()
	streamID := uuid.New()

	mock.ExpectQuery(`FROM "stream_viewers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "stream_id", "user_id"}).
			AddRow(uuid.New(), streamID, userID))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "stream_viewers"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`current_viewers > 0`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, s.LeaveStream(userID, streamID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
