package reels

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/models"
	"github.com/pulseapp/pulse-backend/internal/services"
	"gorm.io/gorm"
)

var (
	ErrReelNotFound  = errors.New("reel not found")
	ErrMusicNotFound = errors.New("music track not found")
)

type ReelService struct {
	db            *gorm.DB
	moderation    *services.ModerationService
	notifications *services.NotificationService
	events        services.EventDispatcher
}

func NewReelService(db *gorm.DB, moderation *services.ModerationService, notifications *services.NotificationService, events services.EventDispatcher) *ReelService {
	return &ReelService{db: db, moderation: moderation, notifications: notifications, events: events}
}

type CreateReelInput struct {
	VideoURL     string     `json:"video_url"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Caption      string     `json:"caption"`
	DurationSecs int        `json:"duration_secs"`
	MusicID      *uuid.UUID `json:"music_id"`
}

func (s *ReelService) CreateReel(userID uuid.UUID, input *CreateReelInput) (*Reel, error) {
	if input.VideoURL == "" {
		return nil, errors.New("video_url is required")
	}
	if input.DurationSecs <= 0 || input.DurationSecs > maxReelDurationSecs {
		return nil, fmt.Errorf("duration must be 1-%d seconds", maxReelDurationSecs)
	}

	if ok, reason := s.moderation.FilterContent(input.Caption); !ok {
		return nil, errors.New(s.moderation.GetRejectionMessage(reason))
	}

	if input.MusicID != nil {
		var track MusicTrack
		if err := s.db.First(&track, "id = ?", *input.MusicID).Error; err != nil {
			return nil, ErrMusicNotFound
		}
	}

	reel := Reel{
		ID:           uuid.New(),
		UserID:       userID,
		VideoURL:     input.VideoURL,
		ThumbnailURL: input.ThumbnailURL,
		Caption:      input.Caption,
		DurationSecs: input.DurationSecs,
		MusicID:      input.MusicID,
	}
	if err := s.db.Create(&reel).Error; err != nil {
		return nil, err
	}

	if input.MusicID != nil {
		s.db.Model(&MusicTrack{}).Where("id = ?", *input.MusicID).
			Update("usage_count", gorm.Expr("usage_count + 1"))
	}

	if s.events != nil {
		s.events.Dispatch("reel.created", map[string]interface{}{
			"reel_id": reel.ID.String(),
			"user_id": userID.String(),
		})
	}

	return &reel, nil
}

func (s *ReelService) GetReel(reelID uuid.UUID) (*Reel, error) {
	var reel Reel
	if err := s.db.First(&reel, "id = ?", reelID).Error; err != nil {
		return nil, ErrReelNotFound
	}

	s.db.Model(&reel).Update("view_count", gorm.Expr("view_count + 1"))
	return &reel, nil
}

func (s *ReelService) GetFeed(viewerID uuid.UUID, page, limit int) ([]Reel, int64, error) {
	blocked, err := s.moderation.GetBlockedIDs(viewerID)
	if err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&Reel{})
	if len(blocked) > 0 {
		query = query.Where("user_id NOT IN ?", blocked)
	}

	var total int64
	query.Count(&total)

	var reels []Reel
	err = query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&reels).Error
	return reels, total, err
}

func (s *ReelService) DeleteReel(userID, reelID uuid.UUID) error {
	var reel Reel
	if err := s.db.Where("id = ? AND user_id = ?", reelID, userID).First(&reel).Error; err != nil {
		return ErrReelNotFound
	}
	return s.db.Delete(&reel).Error
}

// LikeReel toggles the caller's like on a reel.
func (s *ReelService) LikeReel(userID, reelID uuid.UUID) (bool, error) {
	var reel Reel
	if err := s.db.First(&reel, "id = ?", reelID).Error; err != nil {
		return false, ErrReelNotFound
	}

	var existing ReelLike
	if err := s.db.Where("reel_id = ? AND user_id = ?", reelID, userID).First(&existing).Error; err == nil {
		s.db.Delete(&existing)
		s.db.Model(&Reel{}).Where("id = ?", reelID).
			Update("like_count", gorm.Expr("like_count - 1"))
		return false, nil
	}

	like := ReelLike{
		ID:     uuid.New(),
		ReelID: reelID,
		UserID: userID,
	}
	if err := s.db.Create(&like).Error; err != nil {
		return false, err
	}
	s.db.Model(&Reel{}).Where("id = ?", reelID).
		Update("like_count", gorm.Expr("like_count + 1"))

	if reel.UserID != userID {
		s.notifications.NotifyAsync(reel.UserID, &userID, models.NotifyLike,
			"New like", "Someone liked your reel", "reel", &reelID)
	}

	return true, nil
}

// --- Music catalog ---

func (s *ReelService) ListMusic(search string, page, limit int) ([]MusicTrack, int64, error) {
	var tracks []MusicTrack
	var total int64

	query := s.db.Model(&MusicTrack{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR artist ILIKE ?", pattern, pattern)
	}
	query.Count(&total)

	err := query.Order("usage_count DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&tracks).Error
	return tracks, total, err
}

func (s *ReelService) GetMusic(trackID uuid.UUID) (*MusicTrack, error) {
	var track MusicTrack
	if err := s.db.First(&track, "id = ?", trackID).Error; err != nil {
		return nil, ErrMusicNotFound
	}
	return &track, nil
}

// AddMusic adds a track to the catalog (admin).
func (s *ReelService) AddMusic(title, artist, audioURL string, durationSecs int) (*MusicTrack, error) {
	if title == "" || artist == "" {
		return nil, errors.New("title and artist are required")
	}
	if durationSecs <= 0 {
		return nil, errors.New("duration must be positive")
	}

	track := MusicTrack{
		ID:           uuid.New(),
		Title:        title,
		Artist:       artist,
		AudioURL:     audioURL,
		DurationSecs: durationSecs,
	}
	if err := s.db.Create(&track).Error; err != nil {
		return nil, err
	}
	return &track, nil
}
