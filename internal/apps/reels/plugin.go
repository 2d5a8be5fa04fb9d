package reels

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/config"
	"github.com/pulseapp/pulse-backend/internal/services"
	"gorm.io/gorm"
)

type ReelsPlugin struct {
	service *ReelService
}

func New(db *gorm.DB, moderation *services.ModerationService, notifications *services.NotificationService, events services.EventDispatcher) *ReelsPlugin {
	return &ReelsPlugin{service: NewReelService(db, moderation, notifications, events)}
}

// PurgeUserData removes the user's reels and reel likes when the account
// is deleted.
func (p *ReelsPlugin) PurgeUserData(tx *gorm.DB, userID uuid.UUID) error {
	tx.Where("user_id = ?", userID).Delete(&ReelLike{})
	return tx.Unscoped().Where("user_id = ?", userID).Delete(&Reel{}).Error
}

func (p *ReelsPlugin) ID() string { return "reels" }

func (p *ReelsPlugin) Models() []interface{} {
	return []interface{}{
		&Reel{},
		&ReelLike{},
		&MusicTrack{},
	}
}

func (p *ReelsPlugin) RegisterRoutes(router fiber.Router, _ *gorm.DB, _ *config.Config) {
	h := NewReelHandler(p.service)

	router.Post("/reels", h.Create)
	router.Get("/reels/feed", h.Feed)
	router.Get("/reels/:id", h.Get)
	router.Delete("/reels/:id", h.Delete)
	router.Post("/reels/:id/like", h.Like)

	router.Get("/music", h.ListMusic)
	router.Get("/music/:id", h.GetMusic)
}

func (p *ReelsPlugin) RegisterAdminRoutes(router fiber.Router, _ *gorm.DB, _ *config.Config) {
	h := NewReelHandler(p.service)

	router.Post("/music", h.AddMusic)
}
