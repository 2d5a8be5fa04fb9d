package messaging

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is a direct or group thread. Direct conversations are
// deduplicated per user pair via PairKey.
type Conversation struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type            string         `gorm:"type:varchar(10);not null;default:'direct'" json:"type"`
	Name            string         `gorm:"type:varchar(100)" json:"name,omitempty"`
	CreatedBy       uuid.UUID      `gorm:"type:uuid;not null" json:"created_by"`
	PairKey         *string        `gorm:"type:varchar(80);uniqueIndex" json:"-"`
	MaxParticipants int            `gorm:"default:50" json:"max_participants"`
	MessageCount    int            `gorm:"default:0" json:"message_count"`
	LastMessageAt   *time.Time     `gorm:"index" json:"last_message_at,omitempty"`
	LastMessageText string         `gorm:"type:varchar(255)" json:"last_message_text,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// Participant links a user into a conversation.
type Participant struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ConversationID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_participants_pair" json:"conversation_id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_participants_pair;index" json:"user_id"`
	Role           string     `gorm:"type:varchar(10);default:'member'" json:"role"`
	JoinedAt       time.Time  `json:"joined_at"`
	LastReadAt     *time.Time `json:"last_read_at,omitempty"`
}

// Message is a single message in a conversation.
type Message struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ConversationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"conversation_id"`
	SenderID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"sender_id"`
	Type           string         `gorm:"type:varchar(10);default:'text'" json:"type"`
	Content        string         `gorm:"type:text" json:"content"`
	MediaURL       string         `gorm:"type:text" json:"media_url,omitempty"`
	IsEdited       bool           `gorm:"default:false" json:"is_edited"`
	ReadAt         *time.Time     `json:"read_at,omitempty"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
