package integrations

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/config"
	"gorm.io/gorm"
)

type IntegrationsPlugin struct {
	service *IntegrationService
}

func New(db *gorm.DB, cfg *config.Config) *IntegrationsPlugin {
	return &IntegrationsPlugin{service: NewIntegrationService(db, cfg)}
}

// Service exposes event dispatch to other features.
func (p *IntegrationsPlugin) Service() *IntegrationService { return p.service }

// PingHandler is mounted outside the JWT group: it authenticates with the
// X-API-Key header instead.
func (p *IntegrationsPlugin) PingHandler() fiber.Handler {
	return NewIntegrationHandler(p.service).Ping
}

// PurgeUserData removes the user's webhooks, their delivery log and API
// keys when the account is deleted.
func (p *IntegrationsPlugin) PurgeUserData(tx *gorm.DB, userID uuid.UUID) error {
	tx.Where("webhook_id IN (SELECT id FROM webhooks WHERE user_id = ?)", userID).Delete(&WebhookDelivery{})
	tx.Where("user_id = ?", userID).Delete(&Webhook{})
	return tx.Where("user_id = ?", userID).Delete(&APIKey{}).Error
}

func (p *IntegrationsPlugin) ID() string { return "integrations" }

func (p *IntegrationsPlugin) Models() []interface{} {
	return []interface{}{
		&Webhook{},
		&WebhookDelivery{},
		&APIKey{},
	}
}

func (p *IntegrationsPlugin) RegisterRoutes(router fiber.Router, _ *gorm.DB, _ *config.Config) {
	h := NewIntegrationHandler(p.service)

	router.Post("/webhooks", h.CreateWebhook)
	router.Get("/webhooks", h.ListWebhooks)
	router.Delete("/webhooks/:id", h.DeleteWebhook)
	router.Get("/webhooks/:id/deliveries", h.ListDeliveries)

	router.Post("/apikeys", h.CreateAPIKey)
	router.Get("/apikeys", h.ListAPIKeys)
	router.Delete("/apikeys/:id", h.RevokeAPIKey)
}
