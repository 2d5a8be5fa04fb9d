package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pulseapp/pulse-backend/internal/auth"
	"github.com/pulseapp/pulse-backend/internal/dto"
	"github.com/pulseapp/pulse-backend/internal/services"
)

// BanGate rejects requests from actively banned users. Mounted after JWT
// auth on routes that create or modify content; reads stay open so a banned
// user can still see their own appeals.
func BanGate(moderationService *services.ModerationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		banned, err := moderationService.IsBanned(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to verify account status",
			})
		}
		if banned {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Your account is banned",
			})
		}

		return c.Next()
	}
}
