package search

import (
	"time"

	"github.com/google/uuid"
)

// SearchHistory records a user's past queries.
type SearchHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Query     string    `gorm:"type:varchar(255);not null" json:"query"`
	Kind      string    `gorm:"type:varchar(20);default:'all'" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// TrendingTopic tracks topic popularity. Score is recomputed on every
// increment as 0.7*search_count + 0.3*post_count.
type TrendingTopic struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Topic       string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"topic"`
	SearchCount int       `gorm:"default:0" json:"search_count"`
	PostCount   int       `gorm:"default:0" json:"post_count"`
	Score       float64   `gorm:"type:decimal(12,4);default:0;index" json:"score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	searchWeight = 0.7
	postWeight   = 0.3
)

// TrendingScore computes the blended popularity score.
func TrendingScore(searchCount, postCount int) float64 {
	return searchWeight*float64(searchCount) + postWeight*float64(postCount)
}
