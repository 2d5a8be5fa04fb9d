package messaging

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/config"
	"github.com/pulseapp/pulse-backend/internal/services"
	"gorm.io/gorm"
)

type MessagingPlugin struct {
	service *MessagingService
}

func New(db *gorm.DB, moderation *services.ModerationService, notifications *services.NotificationService) *MessagingPlugin {
	return &MessagingPlugin{service: NewMessagingService(db, moderation, notifications)}
}

// PurgeUserData drops the user's participant rows and sent messages when
// the account is deleted. Conversations themselves stay for the remaining
// participants.
func (p *MessagingPlugin) PurgeUserData(tx *gorm.DB, userID uuid.UUID) error {
	tx.Where("user_id = ?", userID).Delete(&Participant{})
	return tx.Unscoped().Where("sender_id = ?", userID).Delete(&Message{}).Error
}

func (p *MessagingPlugin) ID() string { return "messaging" }

func (p *MessagingPlugin) Models() []interface{} {
	return []interface{}{
		&Conversation{},
		&Participant{},
		&Message{},
	}
}

func (p *MessagingPlugin) RegisterRoutes(router fiber.Router, _ *gorm.DB, _ *config.Config) {
	h := NewMessagingHandler(p.service)

	router.Post("/conversations", h.CreateConversation)
	router.Get("/conversations", h.ListConversations)
	router.Post("/conversations/:id/participants", h.AddParticipant)
	router.Post("/conversations/:id/messages", h.SendMessage)
	router.Get("/conversations/:id/messages", h.ListMessages)
	router.Post("/conversations/:id/read", h.MarkRead)
	router.Put("/messages/:id", h.EditMessage)
	router.Delete("/messages/:id", h.DeleteMessage)
}
