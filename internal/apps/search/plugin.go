package search

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/cache"
	"github.com/pulseapp/pulse-backend/internal/config"
	"gorm.io/gorm"
)

type SearchPlugin struct {
	service *SearchService
}

func New(db *gorm.DB, cache *cache.Client) *SearchPlugin {
	return &SearchPlugin{service: NewSearchService(db, cache)}
}

// Service exposes trending recording to other features (post hashtags).
func (p *SearchPlugin) Service() *SearchService { return p.service }

// PurgeUserData clears the user's search history when the account is
// deleted. Trending counters are aggregates and stay.
func (p *SearchPlugin) PurgeUserData(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Where("user_id = ?", userID).Delete(&SearchHistory{}).Error
}

func (p *SearchPlugin) ID() string { return "search" }

func (p *SearchPlugin) Models() []interface{} {
	return []interface{}{
		&SearchHistory{},
		&TrendingTopic{},
	}
}

func (p *SearchPlugin) RegisterRoutes(router fiber.Router, _ *gorm.DB, _ *config.Config) {
	h := NewSearchHandler(p.service)

	router.Get("/search/users", h.SearchUsers)
	router.Get("/search/posts", h.SearchPosts)
	router.Get("/search/hashtags", h.SearchHashtags)
	router.Get("/search/history", h.History)
	router.Delete("/search/history", h.ClearHistory)
	router.Get("/search/trending", h.Trending)
}
