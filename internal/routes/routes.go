package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/pulseapp/pulse-backend/internal/apps"
	"github.com/pulseapp/pulse-backend/internal/config"
	"github.com/pulseapp/pulse-backend/internal/handlers"
	"github.com/pulseapp/pulse-backend/internal/middleware"
	"github.com/pulseapp/pulse-backend/internal/services"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	moderationHandler *handlers.ModerationHandler,
	notificationHandler *handlers.NotificationHandler,
	moderationService *services.ModerationService,
	apiKeyPing fiber.Handler,
	plugins []apps.Plugin,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Server-to-server ping, authenticated by X-API-Key
	api.Get("/ping", apiKeyPing)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected auth routes - apply middleware to individual routes
	// so JWT middleware doesn't affect public routes
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)
	api.Put("/auth/profile", middleware.JWTProtected(cfg), authHandler.UpdateProfile)

	// Moderation — user endpoints (protected)
	api.Post("/reports", middleware.JWTProtected(cfg), moderationHandler.CreateReport)
	api.Post("/blocks", middleware.JWTProtected(cfg), moderationHandler.BlockUser)
	api.Delete("/blocks/:id", middleware.JWTProtected(cfg), moderationHandler.UnblockUser)
	api.Post("/appeals", middleware.JWTProtected(cfg), moderationHandler.AppealAction)
	api.Post("/ban-appeals", middleware.JWTProtected(cfg), moderationHandler.AppealBan)
	api.Get("/strikes/my", middleware.JWTProtected(cfg), moderationHandler.MyStrikes)

	// Notifications (protected)
	notifications := api.Group("/notifications", middleware.JWTProtected(cfg))
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
	notifications.Post("/:id/read", notificationHandler.MarkRead)
	notifications.Delete("/:id", notificationHandler.Delete)
	notifications.Get("/preferences", notificationHandler.ListPreferences)
	notifications.Put("/preferences", notificationHandler.UpdatePreference)
	notifications.Post("/devices", notificationHandler.RegisterDevice)
	notifications.Get("/devices", notificationHandler.ListDevices)
	notifications.Delete("/devices/:id", notificationHandler.RemoveDevice)

	// Admin moderation panel (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/moderation/reports", moderationHandler.ListReports)
	admin.Put("/moderation/reports/:id", moderationHandler.ReviewReport)
	admin.Post("/moderation/actions", moderationHandler.TakeAction)
	admin.Put("/moderation/appeals/:id", moderationHandler.ReviewAppeal)
	admin.Post("/moderation/strikes", moderationHandler.IssueStrike)
	admin.Get("/moderation/users/:id/strikes", moderationHandler.ListUserStrikes)
	admin.Post("/moderation/bans", moderationHandler.BanUser)
	admin.Delete("/moderation/bans/:id", moderationHandler.LiftBan)
	admin.Put("/moderation/ban-appeals/:id", moderationHandler.ReviewBanAppeal)
	admin.Post("/moderation/ai/analyze", moderationHandler.ModerateContent)
	admin.Get("/moderation/flags", moderationHandler.ListFlags)
	admin.Put("/moderation/flags/:id", moderationHandler.ResolveFlag)
	admin.Get("/moderation/logs", moderationHandler.ListModerationLogs)

	// Feature routes: JWT plus the ban gate so actively banned users cannot
	// write content while their read-only moderation endpoints stay open.
	protected := api.Group("/p", middleware.JWTProtected(cfg), middleware.BanGate(moderationService))
	for _, p := range plugins {
		p.RegisterRoutes(protected, db, cfg)
		if ap, ok := p.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin, db, cfg)
		}
	}
}
