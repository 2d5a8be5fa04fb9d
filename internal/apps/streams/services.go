package streams

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/cache"
	"github.com/pulseapp/pulse-backend/internal/models"
	"github.com/pulseapp/pulse-backend/internal/services"
	"gorm.io/gorm"
)

var (
	ErrStreamNotFound   = errors.New("stream not found")
	ErrNotHost          = errors.New("only the host can do this")
	ErrStreamNotLive    = errors.New("stream is not live")
	ErrAlreadyLive      = errors.New("stream is already live")
	ErrViewerNotFound   = errors.New("viewer not found in stream")
	ErrViewerBanned     = errors.New("you are banned from this stream")
	ErrInvalidBadgeType = errors.New("invalid badge type")
)

// FollowerProvider supplies the host's followers for stream start fan-out.
type FollowerProvider interface {
	FollowerIDs(userID uuid.UUID) ([]uuid.UUID, error)
}

type StreamService struct {
	db            *gorm.DB
	cache         *cache.Client
	notifications *services.NotificationService
	followers     FollowerProvider
	events        services.EventDispatcher
}

func NewStreamService(db *gorm.DB, cache *cache.Client, notifications *services.NotificationService, followers FollowerProvider, events services.EventDispatcher) *StreamService {
	return &StreamService{db: db, cache: cache, notifications: notifications, followers: followers, events: events}
}

func viewerCountKey(streamID uuid.UUID) string {
	return "stream:viewers:" + streamID.String()
}

type CreateStreamInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

func (s *StreamService) CreateStream(hostID uuid.UUID, input *CreateStreamInput) (*Stream, error) {
	if input.Title == "" {
		return nil, errors.New("title is required")
	}

	keyBytes := make([]byte, 24)
	if _, err := rand.Read(keyBytes); err != nil {
		return nil, fmt.Errorf("failed to generate stream key: %w", err)
	}

	stream := Stream{
		ID:          uuid.New(),
		HostID:      hostID,
		Title:       input.Title,
		Description: input.Description,
		StreamKey:   hex.EncodeToString(keyBytes),
		Status:      "scheduled",
		ScheduledAt: input.ScheduledAt,
	}
	if err := s.db.Create(&stream).Error; err != nil {
		return nil, err
	}
	return &stream, nil
}

// StartStream flips the stream live and notifies the host's followers.
func (s *StreamService) StartStream(hostID, streamID uuid.UUID) (*Stream, error) {
	var stream Stream
	if err := s.db.First(&stream, "id = ?", streamID).Error; err != nil {
		return nil, ErrStreamNotFound
	}
	if stream.HostID != hostID {
		return nil, ErrNotHost
	}
	if stream.Status == "live" {
		return nil, ErrAlreadyLive
	}

	now := time.Now()
	if err := s.db.Model(&stream).Updates(map[string]interface{}{
		"status":     "live",
		"started_at": now,
	}).Error; err != nil {
		return nil, err
	}
	stream.Status = "live"
	stream.StartedAt = &now

	if s.followers != nil {
		if followerIDs, err := s.followers.FollowerIDs(hostID); err == nil {
			for _, followerID := range followerIDs {
				s.notifications.NotifyAsync(followerID, &hostID, models.NotifyStreamStart,
					"Live now", stream.Title, "stream", &stream.ID)
			}
		}
	}

	if s.events != nil {
		s.events.Dispatch("stream.started", map[string]interface{}{
			"stream_id": stream.ID.String(),
			"host_id":   hostID.String(),
			"title":     stream.Title,
		})
	}

	return &stream, nil
}

func (s *StreamService) EndStream(hostID, streamID uuid.UUID) (*Stream, error) {
	var stream Stream
	if err := s.db.First(&stream, "id = ?", streamID).Error; err != nil {
		return nil, ErrStreamNotFound
	}
	if stream.HostID != hostID {
		return nil, ErrNotHost
	}
	if stream.Status != "live" {
		return nil, ErrStreamNotLive
	}

	now := time.Now()
	duration := 0
	if stream.StartedAt != nil {
		duration = int(now.Sub(*stream.StartedAt).Seconds())
	}

	if err := s.db.Model(&stream).Updates(map[string]interface{}{
		"status":          "ended",
		"ended_at":        now,
		"duration_secs":   duration,
		"current_viewers": 0,
	}).Error; err != nil {
		return nil, err
	}

	// Close out every remaining viewer so a late LeaveStream cannot
	// decrement the zeroed counter.
	s.db.Model(&StreamViewer{}).
		Where("stream_id = ? AND left_at IS NULL", streamID).
		Update("left_at", now)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.cache.Delete(ctx, viewerCountKey(streamID))

	stream.Status = "ended"
	stream.EndedAt = &now
	stream.DurationSecs = duration
	stream.CurrentViewers = 0

	if s.events != nil {
		s.events.Dispatch("stream.ended", map[string]interface{}{
			"stream_id":     stream.ID.String(),
			"host_id":       hostID.String(),
			"duration_secs": duration,
		})
	}

	return &stream, nil
}

func (s *StreamService) GetStream(streamID uuid.UUID) (*Stream, error) {
	var stream Stream
	if err := s.db.First(&stream, "id = ?", streamID).Error; err != nil {
		return nil, ErrStreamNotFound
	}
	return &stream, nil
}

func (s *StreamService) ListLive(page, limit int) ([]Stream, int64, error) {
	var streams []Stream
	var total int64

	query := s.db.Model(&Stream{}).Where("status = ?", "live")
	query.Count(&total)

	err := query.Order("current_viewers DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&streams).Error
	return streams, total, err
}

// LiveViewerCount reads the redis mirror, falling back to the DB row.
func (s *StreamService) LiveViewerCount(streamID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if count, ok := s.cache.GetInt(ctx, viewerCountKey(streamID)); ok {
		return count, nil
	}

	var stream Stream
	if err := s.db.First(&stream, "id = ?", streamID).Error; err != nil {
		return 0, ErrStreamNotFound
	}
	return int64(stream.CurrentViewers), nil
}

// JoinStream adds the viewer, bumps current/total counters and keeps
// peak_viewers at the high-water mark. The redis mirror tracks the live
// count for cheap reads; the DB row stays the source of truth.
func (s *StreamService) JoinStream(userID, streamID uuid.UUID) error {
	var stream Stream
	if err := s.db.First(&stream, "id = ?", streamID).Error; err != nil {
		return ErrStreamNotFound
	}
	if stream.Status != "live" {
		return ErrStreamNotLive
	}

	var viewer StreamViewer
	err := s.db.Where("stream_id = ? AND user_id = ?", streamID, userID).First(&viewer).Error
	if err == nil {
		if viewer.IsBanned {
			return ErrViewerBanned
		}
		if viewer.LeftAt == nil {
			return nil
		}
		// Rejoin: total_viewers counts first joins only.
		if err := s.db.Model(&viewer).Updates(map[string]interface{}{
			"left_at":   nil,
			"joined_at": time.Now(),
		}).Error; err != nil {
			return err
		}
		s.bumpCurrentViewers(streamID, 1, false)
		return nil
	}

	viewer = StreamViewer{
		ID:       uuid.New(),
		StreamID: streamID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	if err := s.db.Create(&viewer).Error; err != nil {
		return err
	}
	s.bumpCurrentViewers(streamID, 1, true)
	return nil
}

func (s *StreamService) LeaveStream(userID, streamID uuid.UUID) error {
	var viewer StreamViewer
	err := s.db.Where("stream_id = ? AND user_id = ? AND left_at IS NULL", streamID, userID).
		First(&viewer).Error
	if err != nil {
		return ErrViewerNotFound
	}

	now := time.Now()
	if err := s.db.Model(&viewer).Update("left_at", now).Error; err != nil {
		return err
	}
	s.bumpCurrentViewers(streamID, -1, false)
	return nil
}

func (s *StreamService) bumpCurrentViewers(streamID uuid.UUID, delta int, firstJoin bool) {
	updates := map[string]interface{}{
		"current_viewers": gorm.Expr("current_viewers + ?", delta),
	}
	if firstJoin {
		updates["total_viewers"] = gorm.Expr("total_viewers + 1")
	}
	query := s.db.Model(&Stream{}).Where("id = ?", streamID)
	if delta < 0 {
		// Floor guard: EndStream zeroes the counter, so a straggling
		// leave must not drive it negative.
		query = query.Where("current_viewers > 0")
	}
	query.Updates(updates)

	if delta > 0 {
		s.db.Model(&Stream{}).
			Where("id = ? AND current_viewers > peak_viewers", streamID).
			Update("peak_viewers", gorm.Expr("current_viewers"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if delta > 0 {
		_, _ = s.cache.Incr(ctx, viewerCountKey(streamID))
	} else {
		_, _ = s.cache.Decr(ctx, viewerCountKey(streamID))
	}
}

// --- Badges ---

func (s *StreamService) SendBadge(senderID, streamID uuid.UUID, badgeType string, amount float64, message string) (*StreamBadge, error) {
	if !badgeTypes[badgeType] {
		return nil, ErrInvalidBadgeType
	}
	if amount < 0 {
		return nil, errors.New("amount cannot be negative")
	}

	var stream Stream
	if err := s.db.First(&stream, "id = ?", streamID).Error; err != nil {
		return nil, ErrStreamNotFound
	}
	if stream.Status != "live" {
		return nil, ErrStreamNotLive
	}

	badge := StreamBadge{
		ID:        uuid.New(),
		StreamID:  streamID,
		SenderID:  senderID,
		BadgeType: badgeType,
		Amount:    amount,
		Message:   message,
	}
	if err := s.db.Create(&badge).Error; err != nil {
		return nil, err
	}

	s.db.Model(&Stream{}).Where("id = ?", streamID).Updates(map[string]interface{}{
		"total_badges":    gorm.Expr("total_badges + 1"),
		"total_donations": gorm.Expr("total_donations + ?", amount),
	})

	s.notifications.NotifyAsync(stream.HostID, &senderID, models.NotifySystem,
		"Badge received", "Someone sent you a "+badgeType+" badge", "stream", &streamID)

	return &badge, nil
}

func (s *StreamService) ListBadges(streamID uuid.UUID, page, limit int) ([]StreamBadge, int64, error) {
	var badges []StreamBadge
	var total int64

	query := s.db.Model(&StreamBadge{}).Where("stream_id = ?", streamID)
	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&badges).Error
	return badges, total, err
}

// --- Viewer moderation (host only) ---

func (s *StreamService) SetViewerMuted(hostID, streamID, viewerUserID uuid.UUID, muted bool) error {
	return s.updateViewerFlag(hostID, streamID, viewerUserID, "is_muted", muted)
}

// BanViewer kicks the viewer out and prevents rejoining.
func (s *StreamService) BanViewer(hostID, streamID, viewerUserID uuid.UUID) error {
	if err := s.updateViewerFlag(hostID, streamID, viewerUserID, "is_banned", true); err != nil {
		return err
	}

	var viewer StreamViewer
	err := s.db.Where("stream_id = ? AND user_id = ? AND left_at IS NULL", streamID, viewerUserID).
		First(&viewer).Error
	if err == nil {
		now := time.Now()
		s.db.Model(&viewer).Update("left_at", now)
		s.bumpCurrentViewers(streamID, -1, false)
	}
	return nil
}

func (s *StreamService) updateViewerFlag(hostID, streamID, viewerUserID uuid.UUID, column string, value bool) error {
	var stream Stream
	if err := s.db.First(&stream, "id = ?", streamID).Error; err != nil {
		return ErrStreamNotFound
	}
	if stream.HostID != hostID {
		return ErrNotHost
	}

	result := s.db.Model(&StreamViewer{}).
		Where("stream_id = ? AND user_id = ?", streamID, viewerUserID).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrViewerNotFound
	}
	return nil
}
