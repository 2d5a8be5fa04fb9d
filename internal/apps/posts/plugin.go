package posts

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/config"
	"github.com/pulseapp/pulse-backend/internal/services"
	"gorm.io/gorm"
)

type PostsPlugin struct {
	service *PostService
}

func New(db *gorm.DB, moderation *services.ModerationService, notifications *services.NotificationService, search TrendingRecorder, events services.EventDispatcher) *PostsPlugin {
	return &PostsPlugin{service: NewPostService(db, moderation, notifications, search, events)}
}

// PurgeUserData removes the user's posts, likes and bookmarks when the
// account is deleted.
func (p *PostsPlugin) PurgeUserData(tx *gorm.DB, userID uuid.UUID) error {
	tx.Where("user_id = ?", userID).Delete(&PostLike{})
	tx.Where("user_id = ?", userID).Delete(&Bookmark{})
	return tx.Unscoped().Where("user_id = ?", userID).Delete(&Post{}).Error
}

func (p *PostsPlugin) ID() string { return "posts" }

func (p *PostsPlugin) Models() []interface{} {
	return []interface{}{
		&Post{},
		&PostLike{},
		&Bookmark{},
	}
}

func (p *PostsPlugin) RegisterRoutes(router fiber.Router, _ *gorm.DB, _ *config.Config) {
	h := NewPostHandler(p.service)

	router.Post("/posts", h.Create)
	router.Get("/posts/feed", h.Feed)
	router.Get("/posts/bookmarks", h.Bookmarks)
	router.Get("/posts/:id", h.Get)
	router.Put("/posts/:id", h.Update)
	router.Delete("/posts/:id", h.Delete)
	router.Post("/posts/:id/like", h.Like)
	router.Post("/posts/:id/bookmark", h.Bookmark)
	router.Get("/users/:id/posts", h.ListByUser)
}
