package streams

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/auth"
)

type StreamHandler struct {
	service *StreamService
}

func NewStreamHandler(service *StreamService) *StreamHandler {
	return &StreamHandler{service: service}
}

type SendBadgeRequest struct {
	BadgeType string  `json:"badge_type"`
	Amount    float64 `json:"amount"`
	Message   string  `json:"message"`
}

type MuteViewerRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Muted  bool      `json:"muted"`
}

type BanViewerRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

func (h *StreamHandler) Create(c *fiber.Ctx) error {
	hostID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	var input CreateStreamInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	stream, err := h.service.CreateStream(hostID, &input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(stream)
}

func (h *StreamHandler) Start(c *fiber.Ctx) error {
	hostID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid stream ID"})
	}

	stream, err := h.service.StartStream(hostID, streamID)
	if err != nil {
		return streamError(c, err)
	}

	return c.JSON(stream)
}

func (h *StreamHandler) End(c *fiber.Ctx) error {
	hostID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid stream ID"})
	}

	stream, err := h.service.EndStream(hostID, streamID)
	if err != nil {
		return streamError(c, err)
	}

	return c.JSON(stream)
}

func (h *StreamHandler) Get(c *fiber.Ctx) error {
	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid stream ID"})
	}

	stream, err := h.service.GetStream(streamID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Stream not found"})
	}

	return c.JSON(stream)
}

func (h *StreamHandler) ListLive(c *fiber.Ctx) error {
	page, limit := pagination(c)
	streams, total, err := h.service.ListLive(page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to fetch live streams"})
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"streams": streams,
			"pagination": fiber.Map{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		},
	})
}

func (h *StreamHandler) ViewerCount(c *fiber.Ctx) error {
	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid stream ID"})
	}

	count, err := h.service.LiveViewerCount(streamID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Stream not found"})
	}

	return c.JSON(fiber.Map{"current_viewers": count})
}

func (h *StreamHandler) Join(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid stream ID"})
	}

	if err := h.service.JoinStream(userID, streamID); err != nil {
		if errors.Is(err, ErrViewerBanned) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return streamError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Joined stream"})
}

func (h *StreamHandler) Leave(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid stream ID"})
	}

	if err := h.service.LeaveStream(userID, streamID); err != nil {
		return streamError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Left stream"})
}

func (h *StreamHandler) SendBadge(c *fiber.Ctx) error {
	senderID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid stream ID"})
	}

	var req SendBadgeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	badge, err := h.service.SendBadge(senderID, streamID, req.BadgeType, req.Amount, req.Message)
	if err != nil {
		if errors.Is(err, ErrInvalidBadgeType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return streamError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(badge)
}

func (h *StreamHandler) ListBadges(c *fiber.Ctx) error {
	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid stream ID"})
	}

	page, limit := pagination(c)
	badges, total, err := h.service.ListBadges(streamID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to fetch badges"})
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"badges": badges,
			"pagination": fiber.Map{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		},
	})
}

func (h *StreamHandler) MuteViewer(c *fiber.Ctx) error {
	hostID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid stream ID"})
	}

	var req MuteViewerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	if err := h.service.SetViewerMuted(hostID, streamID, req.UserID, req.Muted); err != nil {
		return streamError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Viewer updated"})
}

func (h *StreamHandler) BanViewer(c *fiber.Ctx) error {
	hostID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid stream ID"})
	}

	var req BanViewerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	if err := h.service.BanViewer(hostID, streamID, req.UserID); err != nil {
		return streamError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Viewer banned"})
}

func streamError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrStreamNotFound), errors.Is(err, ErrViewerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
	case errors.Is(err, ErrNotHost):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
	case errors.Is(err, ErrStreamNotLive), errors.Is(err, ErrAlreadyLive):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": true, "message": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Stream operation failed"})
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
