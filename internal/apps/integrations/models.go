package integrations

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Webhook is an outbound subscription: events matching Events are POSTed
// to TargetURL, signed with Secret.
type Webhook struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	TargetURL string         `gorm:"type:text;not null" json:"target_url"`
	Events    datatypes.JSON `json:"events"`
	Secret    string         `gorm:"type:varchar(64);not null" json:"-"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// WebhookDelivery records one dispatch attempt sequence for an event.
type WebhookDelivery struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WebhookID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"webhook_id"`
	Event        string     `gorm:"type:varchar(50);not null" json:"event"`
	StatusCode   int        `json:"status_code"`
	AttemptCount int        `gorm:"default:0" json:"attempt_count"`
	Success      bool       `gorm:"default:false" json:"success"`
	Error        string     `gorm:"type:text" json:"error,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// APIKey authenticates server-to-server callers. The raw key is returned
// once at creation; only its hash is stored.
type APIKey struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string     `gorm:"type:varchar(100);not null" json:"name"`
	KeyHash    string     `gorm:"type:char(64);uniqueIndex;not null" json:"-"`
	Prefix     string     `gorm:"type:varchar(12);not null" json:"prefix"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

var webhookEvents = map[string]bool{
	"post.created":   true,
	"reel.created":   true,
	"story.created":  true,
	"stream.started": true,
	"stream.ended":   true,
	"user.followed":  true,
	"report.created": true,
}
