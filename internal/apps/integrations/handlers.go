package integrations

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/auth"
)

type IntegrationHandler struct {
	service *IntegrationService
}

func NewIntegrationHandler(service *IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{service: service}
}

type CreateAPIKeyRequest struct {
	Name string `json:"name"`
}

func (h *IntegrationHandler) CreateWebhook(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	var input CreateWebhookInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	webhook, secret, err := h.service.CreateWebhook(userID, &input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"webhook": webhook,
		"secret":  secret,
	})
}

func (h *IntegrationHandler) ListWebhooks(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	webhooks, err := h.service.ListWebhooks(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to fetch webhooks"})
	}

	return c.JSON(fiber.Map{"webhooks": webhooks})
}

func (h *IntegrationHandler) DeleteWebhook(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	webhookID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid webhook ID"})
	}

	if err := h.service.DeleteWebhook(userID, webhookID); err != nil {
		if errors.Is(err, ErrWebhookNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to delete webhook"})
	}

	return c.JSON(fiber.Map{"message": "Webhook deleted"})
}

func (h *IntegrationHandler) ListDeliveries(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	webhookID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid webhook ID"})
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	deliveries, err := h.service.ListDeliveries(userID, webhookID, limit)
	if err != nil {
		if errors.Is(err, ErrWebhookNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to fetch deliveries"})
	}

	return c.JSON(fiber.Map{"deliveries": deliveries})
}

func (h *IntegrationHandler) CreateAPIKey(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	var req CreateAPIKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	apiKey, rawKey, err := h.service.CreateAPIKey(userID, req.Name)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"api_key": apiKey,
		"key":     rawKey,
	})
}

func (h *IntegrationHandler) ListAPIKeys(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	keys, err := h.service.ListAPIKeys(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to fetch api keys"})
	}

	return c.JSON(fiber.Map{"api_keys": keys})
}

func (h *IntegrationHandler) RevokeAPIKey(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	keyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid key ID"})
	}

	if err := h.service.RevokeAPIKey(userID, keyID); err != nil {
		if errors.Is(err, ErrAPIKeyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to revoke key"})
	}

	return c.JSON(fiber.Map{"message": "API key revoked"})
}

// Ping authenticates with the X-API-Key header instead of a JWT.
func (h *IntegrationHandler) Ping(c *fiber.Ctx) error {
	rawKey := c.Get("X-API-Key")

	key, err := h.service.Authenticate(rawKey)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Invalid API key"})
	}

	return c.JSON(fiber.Map{
		"message":   "pong",
		"key_name":  key.Name,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
