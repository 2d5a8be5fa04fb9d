package messaging

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/auth"
)

type MessagingHandler struct {
	service *MessagingService
}

func NewMessagingHandler(service *MessagingService) *MessagingHandler {
	return &MessagingHandler{service: service}
}

type AddParticipantRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

type EditMessageRequest struct {
	Content string `json:"content"`
}

func (h *MessagingHandler) CreateConversation(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	var input CreateConversationInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	conv, err := h.service.CreateConversation(userID, &input)
	if err != nil {
		if errors.Is(err, ErrMessagingBlocked) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(conv)
}

func (h *MessagingHandler) ListConversations(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	page, limit := pagination(c)
	conversations, total, err := h.service.ListConversations(userID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to fetch conversations"})
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"conversations": conversations,
			"pagination": fiber.Map{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		},
	})
}

func (h *MessagingHandler) AddParticipant(c *fiber.Ctx) error {
	callerID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	conversationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid conversation ID"})
	}

	var req AddParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	if err := h.service.AddParticipant(callerID, conversationID, req.UserID); err != nil {
		return messagingError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Participant added"})
}

func (h *MessagingHandler) SendMessage(c *fiber.Ctx) error {
	senderID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	conversationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid conversation ID"})
	}

	var input SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	message, err := h.service.SendMessage(senderID, conversationID, &input)
	if err != nil {
		return messagingError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

func (h *MessagingHandler) ListMessages(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	conversationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid conversation ID"})
	}

	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var before time.Time
	if raw := c.Query("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "before must be RFC3339"})
		}
		before = parsed
	}

	messages, err := h.service.ListMessages(userID, conversationID, before, limit)
	if err != nil {
		return messagingError(c, err)
	}

	return c.JSON(fiber.Map{"messages": messages})
}

func (h *MessagingHandler) EditMessage(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid message ID"})
	}

	var req EditMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	message, err := h.service.EditMessage(userID, messageID, req.Content)
	if err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.JSON(message)
}

func (h *MessagingHandler) DeleteMessage(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid message ID"})
	}

	if err := h.service.DeleteMessage(userID, messageID); err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to delete message"})
	}

	return c.JSON(fiber.Map{"message": "Message deleted"})
}

func (h *MessagingHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	conversationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid conversation ID"})
	}

	updated, err := h.service.MarkRead(userID, conversationID)
	if err != nil {
		return messagingError(c, err)
	}

	return c.JSON(fiber.Map{"updated": updated})
}

func messagingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrConversationNotFound), errors.Is(err, ErrMessageNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
	case errors.Is(err, ErrNotParticipant), errors.Is(err, ErrMessagingBlocked):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
	case errors.Is(err, ErrNotGroup), errors.Is(err, ErrGroupFull), errors.Is(err, ErrAlreadyParticipant):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": true, "message": err.Error()})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
}

func pagination(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return page, limit
}
