package social

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow is a directed follower edge. The pair is unique; self-follows are
// rejected in the service.
type Follow struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FollowerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FollowingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Comment attaches to any content type (post, reel, story).
type Comment struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ContentType string         `gorm:"type:varchar(20);not null;index:idx_comments_content" json:"content_type"`
	ContentID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_comments_content" json:"content_id"`
	ParentID    *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	LikeCount   int            `gorm:"default:0" json:"like_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CommentLike tracks who liked a comment.
type CommentLike struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CommentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_comment_likes_pair" json:"comment_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_comment_likes_pair" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

var commentableTypes = map[string]bool{
	"post": true, "reel": true, "story": true,
}

// commentCountTables maps content types to the tables carrying a
// comment_count column. Stories have none.
var commentCountTables = map[string]string{
	"post": "posts",
	"reel": "reels",
}
