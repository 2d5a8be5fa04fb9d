package stories

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/auth"
)

type StoryHandler struct {
	service *StoryService
}

func NewStoryHandler(service *StoryService) *StoryHandler {
	return &StoryHandler{service: service}
}

type InteractRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func (h *StoryHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	var input CreateStoryInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	story, err := h.service.CreateStory(userID, &input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(story)
}

func (h *StoryHandler) Feed(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	feed, err := h.service.ActiveFeed(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to fetch story feed"})
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"stories_by_user": feed}})
}

func (h *StoryHandler) MyStories(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	includeExpired := c.QueryBool("include_expired", false)
	stories, err := h.service.ListUserStories(userID, includeExpired)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to fetch stories"})
	}

	return c.JSON(fiber.Map{"stories": stories})
}

func (h *StoryHandler) View(c *fiber.Ctx) error {
	viewerID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	storyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid story ID"})
	}

	story, err := h.service.ViewStory(viewerID, storyID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Story not found"})
	}

	return c.JSON(story)
}

func (h *StoryHandler) Viewers(c *fiber.Ctx) error {
	ownerID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	storyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid story ID"})
	}

	viewers, err := h.service.ListViewers(ownerID, storyID)
	if err != nil {
		if errors.Is(err, ErrNotStoryOwner) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Story not found"})
	}

	return c.JSON(fiber.Map{"viewers": viewers})
}

func (h *StoryHandler) Delete(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	storyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid story ID"})
	}

	if err := h.service.DeleteStory(userID, storyID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Story not found"})
	}

	return c.JSON(fiber.Map{"message": "Story deleted"})
}

func (h *StoryHandler) Interact(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	storyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid story ID"})
	}

	var req InteractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	interaction, err := h.service.Interact(userID, storyID, req.Type, req.Content)
	if err != nil {
		if errors.Is(err, ErrStoryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(interaction)
}

func (h *StoryHandler) CreateHighlight(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	var input CreateHighlightInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	highlight, err := h.service.CreateHighlight(userID, &input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(highlight)
}

func (h *StoryHandler) ListHighlights(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	highlights, err := h.service.ListHighlights(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to fetch highlights"})
	}

	return c.JSON(fiber.Map{"highlights": highlights})
}

func (h *StoryHandler) HighlightStories(c *fiber.Ctx) error {
	highlightID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid highlight ID"})
	}

	stories, err := h.service.HighlightStories(highlightID)
	if err != nil {
		if errors.Is(err, ErrHighlightNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to fetch highlight"})
	}

	return c.JSON(fiber.Map{"stories": stories})
}

func (h *StoryHandler) DeleteHighlight(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	highlightID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid highlight ID"})
	}

	if err := h.service.DeleteHighlight(userID, highlightID); err != nil {
		if errors.Is(err, ErrHighlightNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to delete highlight"})
	}

	return c.JSON(fiber.Map{"message": "Highlight deleted"})
}
