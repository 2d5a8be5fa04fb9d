package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the shared account model. Profile fields live here rather than in
// a separate table; everything else references users by ID.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username    string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email       string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Role        string         `gorm:"size:20;default:'user'" json:"role"`
	DisplayName string         `gorm:"size:100" json:"display_name"`
	Bio         string         `gorm:"size:500" json:"bio"`
	AvatarURL   string         `gorm:"size:1000" json:"avatar_url"`
	IsPrivate   bool           `gorm:"default:false" json:"is_private"`
	IsVerified  bool           `gorm:"default:false" json:"is_verified"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
