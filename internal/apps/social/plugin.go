package social

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/config"
	"github.com/pulseapp/pulse-backend/internal/services"
	"gorm.io/gorm"
)

type SocialPlugin struct {
	service *SocialService
}

func New(db *gorm.DB, moderation *services.ModerationService, notifications *services.NotificationService, events services.EventDispatcher) *SocialPlugin {
	return &SocialPlugin{service: NewSocialService(db, moderation, notifications, events)}
}

// PurgeUserData removes the user's follow edges, comments and comment
// likes when the account is deleted.
func (p *SocialPlugin) PurgeUserData(tx *gorm.DB, userID uuid.UUID) error {
	tx.Where("follower_id = ? OR following_id = ?", userID, userID).Delete(&Follow{})
	tx.Where("user_id = ?", userID).Delete(&CommentLike{})
	return tx.Unscoped().Where("user_id = ?", userID).Delete(&Comment{}).Error
}

// Service exposes the social graph to other features (feed scoping).
func (p *SocialPlugin) Service() *SocialService { return p.service }

func (p *SocialPlugin) ID() string { return "social" }

func (p *SocialPlugin) Models() []interface{} {
	return []interface{}{
		&Follow{},
		&Comment{},
		&CommentLike{},
	}
}

func (p *SocialPlugin) RegisterRoutes(router fiber.Router, _ *gorm.DB, _ *config.Config) {
	h := NewSocialHandler(p.service)

	router.Get("/users/:username", h.GetProfile)
	router.Post("/users/:id/follow", h.Follow)
	router.Delete("/users/:id/follow", h.Unfollow)
	router.Get("/users/:id/followers", h.Followers)
	router.Get("/users/:id/following", h.Following)

	router.Post("/comments", h.AddComment)
	router.Get("/comments/:type/:id", h.ListComments)
	router.Delete("/comments/:id", h.DeleteComment)
	router.Post("/comments/:id/like", h.LikeComment)
}
