package stories

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/config"
	"github.com/pulseapp/pulse-backend/internal/services"
	"gorm.io/gorm"
)

type StoriesPlugin struct {
	service *StoryService
}

func New(db *gorm.DB, moderation *services.ModerationService, notifications *services.NotificationService, follows FollowProvider, events services.EventDispatcher) *StoriesPlugin {
	return &StoriesPlugin{service: NewStoryService(db, moderation, notifications, follows, events)}
}

// PurgeUserData removes the user's stories, views, interactions and
// highlights when the account is deleted.
func (p *StoriesPlugin) PurgeUserData(tx *gorm.DB, userID uuid.UUID) error {
	tx.Where("viewer_id = ?", userID).Delete(&StoryViewer{})
	tx.Where("user_id = ?", userID).Delete(&StoryInteraction{})
	tx.Where("user_id = ?", userID).Delete(&StoryHighlight{})
	return tx.Where("user_id = ?", userID).Delete(&Story{}).Error
}

func (p *StoriesPlugin) ID() string { return "stories" }

func (p *StoriesPlugin) Models() []interface{} {
	return []interface{}{
		&Story{},
		&StoryViewer{},
		&StoryInteraction{},
		&StoryHighlight{},
	}
}

func (p *StoriesPlugin) RegisterRoutes(router fiber.Router, _ *gorm.DB, _ *config.Config) {
	h := NewStoryHandler(p.service)

	router.Post("/stories", h.Create)
	router.Get("/stories/feed", h.Feed)
	router.Get("/stories/my", h.MyStories)
	router.Post("/stories/:id/view", h.View)
	router.Get("/stories/:id/viewers", h.Viewers)
	router.Post("/stories/:id/interact", h.Interact)
	router.Delete("/stories/:id", h.Delete)

	router.Post("/highlights", h.CreateHighlight)
	router.Get("/highlights/:id/stories", h.HighlightStories)
	router.Delete("/highlights/:id", h.DeleteHighlight)
	router.Get("/users/:id/highlights", h.ListHighlights)
}
