package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/content-compass/internal/state"
)

// SessionMiddleware loads the caller's session store into Locals("store").
// It must run after AuthMiddleware.
func SessionMiddleware(registry *state.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		store, err := registry.Session(c.Context(), state.Identity{UID: userID})
		if err != nil {
			slog.Error("failed to load session", "user_id", userID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unable to load session",
			})
		}
		c.Locals("store", store)
		return c.Next()
	}
}
