package posts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Post is a standard feed post.
type Post struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Caption       string         `gorm:"type:text" json:"caption"`
	MediaURLs     datatypes.JSON `json:"media_urls,omitempty"`
	Tags          datatypes.JSON `json:"tags,omitempty"`
	Location      string         `gorm:"type:varchar(255)" json:"location,omitempty"`
	LikeCount     int            `gorm:"default:0" json:"like_count"`
	CommentCount  int            `gorm:"default:0" json:"comment_count"`
	ViewCount     int            `gorm:"default:0" json:"view_count"`
	BookmarkCount int            `gorm:"default:0" json:"bookmark_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// PostLike tracks who liked a post. One like per user per post.
type PostLike struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_pair" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_pair" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark saves a post to the user's private list.
type Bookmark struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_pair" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_pair" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

const maxCaptionLength = 2200
