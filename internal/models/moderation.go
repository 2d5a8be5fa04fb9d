package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ContentReport is a user-submitted report against a piece of content.
type ContentReport struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReporterID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"reporter_id"`
	ContentType string         `gorm:"size:50;not null" json:"content_type"`
	ContentID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"content_id"`
	Reason      string         `gorm:"size:100;not null" json:"reason"`
	Description string         `gorm:"size:1000" json:"description,omitempty"`
	Status      string         `gorm:"size:50;not null;default:'pending'" json:"status"`
	Severity    string         `gorm:"size:20;not null;default:'low'" json:"severity"`
	ReviewedBy  *uuid.UUID     `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time     `json:"reviewed_at,omitempty"`
	Resolution  string         `gorm:"size:500" json:"resolution,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Reporter    User           `gorm:"foreignKey:ReporterID" json:"-"`
}

// ModerationAction records an action a moderator took on content.
type ModerationAction struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ModeratorID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"moderator_id"`
	ContentType    string         `gorm:"size:50;not null" json:"content_type"`
	ContentID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"content_id"`
	ActionType     string         `gorm:"size:50;not null" json:"action_type"`
	Reason         string         `gorm:"size:500;not null" json:"reason"`
	Severity       string         `gorm:"size:20;not null;default:'medium'" json:"severity"`
	DurationHours  *int           `json:"duration_hours,omitempty"`
	AppealDeadline *time.Time     `json:"appeal_deadline,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Moderator      User           `gorm:"foreignKey:ModeratorID" json:"-"`
}

// ModerationAppeal is a user appeal against a moderation action.
type ModerationAppeal struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActionID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"action_id"`
	AppellantID uuid.UUID  `gorm:"type:uuid;not null;index" json:"appellant_id"`
	Reason      string     `gorm:"size:1000;not null" json:"reason"`
	Evidence    string     `gorm:"size:2000" json:"evidence,omitempty"`
	Status      string     `gorm:"size:50;not null;default:'pending'" json:"status"`
	ReviewedBy  *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes string     `gorm:"size:1000" json:"review_notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Action    ModerationAction `gorm:"foreignKey:ActionID" json:"-"`
	Appellant User             `gorm:"foreignKey:AppellantID" json:"-"`
}

// ContentFlag is an automated flag produced by AI moderation.
type ContentFlag struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ContentType     string         `gorm:"size:50;not null" json:"content_type"`
	ContentID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"content_id"`
	FlagType        string         `gorm:"size:50;not null" json:"flag_type"`
	ConfidenceScore float64        `gorm:"type:decimal(5,4);not null" json:"confidence_score"`
	DetectedText    string         `gorm:"size:1000" json:"detected_text,omitempty"`
	FlaggedBy       string         `gorm:"size:50;not null" json:"flagged_by"`
	Status          string         `gorm:"size:50;not null;default:'active'" json:"status"`
	ResolvedBy      *uuid.UUID     `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	Extra           datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"extra,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// UserStrike is a violation strike issued against a user.
type UserStrike struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	IssuedBy     uuid.UUID  `gorm:"type:uuid;not null" json:"issued_by"`
	Reason       string     `gorm:"size:500;not null" json:"reason"`
	Severity     string     `gorm:"size:20;not null;default:'medium'" json:"severity"`
	TotalStrikes int        `gorm:"default:1" json:"total_strikes"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	IsActive     bool       `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	User   User `gorm:"foreignKey:UserID" json:"-"`
	Issuer User `gorm:"foreignKey:IssuedBy" json:"-"`
}

// UserBan blocks a user from the platform, temporarily or permanently.
type UserBan struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	BannedBy      uuid.UUID  `gorm:"type:uuid;not null" json:"banned_by"`
	Reason        string     `gorm:"size:500;not null" json:"reason"`
	BanType       string     `gorm:"size:20;not null;default:'temporary'" json:"ban_type"`
	DurationHours *int       `json:"duration_hours,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	IsActive      bool       `gorm:"default:true;index" json:"is_active"`
	AppealAllowed bool       `gorm:"default:true" json:"appeal_allowed"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	User   User `gorm:"foreignKey:UserID" json:"-"`
	Banner User `gorm:"foreignKey:BannedBy" json:"-"`
}

// BanAppeal is a user appeal against a ban.
type BanAppeal struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BanID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"ban_id"`
	AppellantID uuid.UUID  `gorm:"type:uuid;not null;index" json:"appellant_id"`
	Reason      string     `gorm:"size:1000;not null" json:"reason"`
	Evidence    string     `gorm:"size:2000" json:"evidence,omitempty"`
	Status      string     `gorm:"size:50;not null;default:'pending'" json:"status"`
	ReviewedBy  *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes string     `gorm:"size:1000" json:"review_notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Ban       UserBan `gorm:"foreignKey:BanID" json:"-"`
	Appellant User    `gorm:"foreignKey:AppellantID" json:"-"`
}

// ModerationLog is the audit trail for every moderation activity.
type ModerationLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ModeratorID *uuid.UUID     `gorm:"type:uuid;index" json:"moderator_id,omitempty"`
	ActionType  string         `gorm:"size:50;not null" json:"action_type"`
	TargetType  string         `gorm:"size:50;not null" json:"target_type"`
	TargetID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"target_id"`
	Description string         `gorm:"size:500" json:"description"`
	OldValue    string         `gorm:"size:1000" json:"old_value,omitempty"`
	NewValue    string         `gorm:"size:1000" json:"new_value,omitempty"`
	Extra       datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"extra,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
