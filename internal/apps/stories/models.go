package stories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Story is ephemeral content that expires 24 hours after creation.
// Highlights keep expired stories visible.
type Story struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	MediaURL  string         `gorm:"type:text;not null" json:"media_url"`
	MediaType string         `gorm:"type:varchar(20);default:'image'" json:"media_type"`
	Caption   string         `gorm:"type:text" json:"caption"`
	ViewCount int            `gorm:"default:0" json:"view_count"`
	ExpiresAt time.Time      `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// StoryViewer records that a user viewed a story, once per viewer.
type StoryViewer struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoryID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_story_viewers_pair" json:"story_id"`
	ViewerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_story_viewers_pair" json:"viewer_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

// StoryInteraction is a reply or emoji reaction to a story.
type StoryInteraction struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoryID   uuid.UUID `gorm:"type:uuid;not null;index" json:"story_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"type:varchar(20);not null" json:"type"`
	Content   string    `gorm:"type:text" json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StoryHighlight is a named collection of the owner's stories.
type StoryHighlight struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string         `gorm:"type:varchar(100);not null" json:"title"`
	CoverURL  string         `gorm:"type:text" json:"cover_url,omitempty"`
	StoryIDs  datatypes.JSON `json:"story_ids"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

const storyTTL = 24 * time.Hour
