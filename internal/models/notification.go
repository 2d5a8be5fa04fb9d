package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification types. Other modules pass these to NotificationService.Notify.
const (
	NotifyLike        = "like"
	NotifyComment     = "comment"
	NotifyFollow      = "follow"
	NotifyMention     = "mention"
	NotifyMessage     = "message"
	NotifyStoryAdded  = "story_added"
	NotifyReelPosted  = "reel_published"
	NotifyStreamStart = "live_stream_started"
	NotifySystem      = "system"
)

type Notification struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ActorID    *uuid.UUID     `gorm:"type:uuid" json:"actor_id,omitempty"`
	Type       string         `gorm:"size:50;not null;index" json:"type"`
	Title      string         `gorm:"size:200;not null" json:"title"`
	Message    string         `gorm:"size:1000" json:"message"`
	Priority   string         `gorm:"size:20;not null;default:'medium'" json:"priority"`
	Status     string         `gorm:"size:20;not null;default:'pending'" json:"status"`
	EntityType string         `gorm:"size:50" json:"entity_type,omitempty"`
	EntityID   *uuid.UUID     `gorm:"type:uuid" json:"entity_id,omitempty"`
	ReadAt     *time.Time     `json:"read_at,omitempty"`
	Extra      datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"extra,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// NotificationPreference gates which notification types reach a user.
// A missing row means the type is enabled.
type NotificationPreference struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_notif_prefs_user_type" json:"user_id"`
	Type         string    `gorm:"size:50;not null;uniqueIndex:idx_notif_prefs_user_type" json:"type"`
	InAppEnabled bool      `gorm:"default:true" json:"in_app_enabled"`
	PushEnabled  bool      `gorm:"default:true" json:"push_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Device is a registered push target (FCM/APNs token).
type Device struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	DeviceToken  string    `gorm:"size:500;not null;uniqueIndex" json:"device_token"`
	DeviceType   string    `gorm:"size:20;not null" json:"device_type"`
	DeviceName   string    `gorm:"size:100" json:"device_name,omitempty"`
	AppVersion   string    `gorm:"size:50" json:"app_version,omitempty"`
	PushEnabled  bool      `gorm:"default:true" json:"push_enabled"`
	LastActiveAt time.Time `json:"last_active_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
