package reels

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reel is a short vertical video.
type Reel struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	VideoURL     string         `gorm:"type:text;not null" json:"video_url"`
	ThumbnailURL string         `gorm:"type:text" json:"thumbnail_url,omitempty"`
	Caption      string         `gorm:"type:text" json:"caption"`
	DurationSecs int            `gorm:"not null" json:"duration_secs"`
	MusicID      *uuid.UUID     `gorm:"type:uuid;index" json:"music_id,omitempty"`
	LikeCount    int            `gorm:"default:0" json:"like_count"`
	CommentCount int            `gorm:"default:0" json:"comment_count"`
	ViewCount    int            `gorm:"default:0" json:"view_count"`
	ShareCount   int            `gorm:"default:0" json:"share_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// ReelLike tracks who liked a reel.
type ReelLike struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReelID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reel_likes_pair" json:"reel_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reel_likes_pair" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// MusicTrack is a catalog entry reels can attach. UsageCount increments
// each time a reel uses the track.
type MusicTrack struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	Artist       string    `gorm:"type:varchar(255);not null" json:"artist"`
	AudioURL     string    `gorm:"type:text" json:"audio_url,omitempty"`
	DurationSecs int       `gorm:"not null" json:"duration_secs"`
	UsageCount   int       `gorm:"default:0" json:"usage_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const maxReelDurationSecs = 90
