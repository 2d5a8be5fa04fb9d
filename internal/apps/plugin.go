package apps

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/config"
	"gorm.io/gorm"
)

// Plugin defines the interface every feature module must implement.
type Plugin interface {
	// ID returns the unique feature identifier used as the route prefix.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts feature routes on the given Fiber group.
	// The group is already prefixed with /api and has JWT middleware applied.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// UserDataPurger is implemented by plugins that store per-user rows and
// wipe them when an account is deleted. Purgers run inside the account
// deletion transaction.
type UserDataPurger interface {
	PurgeUserData(tx *gorm.DB, userID uuid.UUID) error
}

// AdminPlugin extends Plugin with admin-specific route registration.
// Features that implement this interface can register additional admin-only routes.
type AdminPlugin interface {
	Plugin

	// RegisterAdminRoutes mounts admin-only routes on the given Fiber group.
	// The group has both JWT and Admin middleware applied.
	RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}
