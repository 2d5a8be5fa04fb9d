package streams

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/cache"
	"github.com/pulseapp/pulse-backend/internal/config"
	"github.com/pulseapp/pulse-backend/internal/services"
	"gorm.io/gorm"
)

type StreamsPlugin struct {
	service *StreamService
}

func New(db *gorm.DB, cache *cache.Client, notifications *services.NotificationService, followers FollowerProvider, events services.EventDispatcher) *StreamsPlugin {
	return &StreamsPlugin{service: NewStreamService(db, cache, notifications, followers, events)}
}

// PurgeUserData removes the user's hosted streams, viewer rows and badges
// when the account is deleted.
func (p *StreamsPlugin) PurgeUserData(tx *gorm.DB, userID uuid.UUID) error {
	tx.Where("stream_id IN (SELECT id FROM streams WHERE host_id = ?)", userID).Delete(&StreamViewer{})
	tx.Where("stream_id IN (SELECT id FROM streams WHERE host_id = ?)", userID).Delete(&StreamBadge{})
	tx.Where("user_id = ?", userID).Delete(&StreamViewer{})
	tx.Where("sender_id = ?", userID).Delete(&StreamBadge{})
	return tx.Unscoped().Where("host_id = ?", userID).Delete(&Stream{}).Error
}

func (p *StreamsPlugin) ID() string { return "streams" }

func (p *StreamsPlugin) Models() []interface{} {
	return []interface{}{
		&Stream{},
		&StreamViewer{},
		&StreamBadge{},
	}
}

func (p *StreamsPlugin) RegisterRoutes(router fiber.Router, _ *gorm.DB, _ *config.Config) {
	h := NewStreamHandler(p.service)

	router.Post("/streams", h.Create)
	router.Get("/streams/live", h.ListLive)
	router.Get("/streams/:id", h.Get)
	router.Post("/streams/:id/start", h.Start)
	router.Post("/streams/:id/end", h.End)
	router.Get("/streams/:id/viewers/count", h.ViewerCount)
	router.Post("/streams/:id/join", h.Join)
	router.Post("/streams/:id/leave", h.Leave)
	router.Post("/streams/:id/badges", h.SendBadge)
	router.Get("/streams/:id/badges", h.ListBadges)
	router.Post("/streams/:id/viewers/mute", h.MuteViewer)
	router.Post("/streams/:id/viewers/ban", h.BanViewer)
}
