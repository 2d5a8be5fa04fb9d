package reels

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/auth"
)

type ReelHandler struct {
	service *ReelService
}

func NewReelHandler(service *ReelService) *ReelHandler {
	return &ReelHandler{service: service}
}

type AddMusicRequest struct {
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	AudioURL     string `json:"audio_url"`
	DurationSecs int    `json:"duration_secs"`
}

func (h *ReelHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	var input CreateReelInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	reel, err := h.service.CreateReel(userID, &input)
	if err != nil {
		if errors.Is(err, ErrMusicNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(reel)
}

func (h *ReelHandler) Get(c *fiber.Ctx) error {
	reelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid reel ID"})
	}

	reel, err := h.service.GetReel(reelID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Reel not found"})
	}

	return c.JSON(reel)
}

func (h *ReelHandler) Feed(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	page, limit := pagination(c)
	reels, total, err := h.service.GetFeed(userID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to fetch feed"})
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"reels": reels,
			"pagination": fiber.Map{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		},
	})
}

func (h *ReelHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	reelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid reel ID"})
	}

	if err := h.service.DeleteReel(userID, reelID); err != nil {
		if errors.Is(err, ErrReelNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to delete reel"})
	}

	return c.JSON(fiber.Map{"message": "Reel deleted"})
}

func (h *ReelHandler) Like(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	reelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid reel ID"})
	}

	liked, err := h.service.LikeReel(userID, reelID)
	if err != nil {
		if errors.Is(err, ErrReelNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to like reel"})
	}

	return c.JSON(fiber.Map{"liked": liked})
}

func (h *ReelHandler) ListMusic(c *fiber.Ctx) error {
	page, limit := pagination(c)
	search := c.Query("q", "")

	tracks, total, err := h.service.ListMusic(search, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to fetch music"})
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"tracks": tracks,
			"pagination": fiber.Map{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		},
	})
}

func (h *ReelHandler) GetMusic(c *fiber.Ctx) error {
	trackID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid track ID"})
	}

	track, err := h.service.GetMusic(trackID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Music track not found"})
	}

	return c.JSON(track)
}

func (h *ReelHandler) AddMusic(c *fiber.Ctx) error {
	var req AddMusicRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	track, err := h.service.AddMusic(req.Title, req.Artist, req.AudioURL, req.DurationSecs)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(track)
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
