package streams

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stream is a live broadcast. StreamKey is the unique ingest credential.
type Stream struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	HostID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"host_id"`
	Title          string         `gorm:"type:varchar(255);not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description,omitempty"`
	StreamKey      string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	Status         string         `gorm:"type:varchar(20);default:'scheduled';index" json:"status"`
	ScheduledAt    *time.Time     `json:"scheduled_at,omitempty"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	EndedAt        *time.Time     `json:"ended_at,omitempty"`
	DurationSecs   int            `gorm:"default:0" json:"duration_secs"`
	CurrentViewers int            `gorm:"default:0" json:"current_viewers"`
	PeakViewers    int            `gorm:"default:0" json:"peak_viewers"`
	TotalViewers   int            `gorm:"default:0" json:"total_viewers"`
	TotalBadges    int            `gorm:"default:0" json:"total_badges"`
	TotalDonations float64        `gorm:"type:decimal(12,2);default:0" json:"total_donations"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// StreamViewer tracks a viewer's presence in a stream.
type StreamViewer struct {
	ID       uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StreamID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_stream_viewers_pair" json:"stream_id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_stream_viewers_pair" json:"user_id"`
	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at,omitempty"`
	IsMuted  bool       `gorm:"default:false" json:"is_muted"`
	IsBanned bool       `gorm:"default:false" json:"is_banned"`
}

// StreamBadge is a badge or tip sent to the host during a stream.
type StreamBadge struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StreamID  uuid.UUID `gorm:"type:uuid;not null;index" json:"stream_id"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	BadgeType string    `gorm:"type:varchar(30);not null" json:"badge_type"`
	Amount    float64   `gorm:"type:decimal(10,2);default:0" json:"amount"`
	Message   string    `gorm:"type:varchar(255)" json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

var badgeTypes = map[string]bool{
	"heart": true, "star": true, "diamond": true, "rocket": true, "crown": true,
}
