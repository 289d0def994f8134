package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/content-compass/internal/ai"
	"github.com/maheshrc27/content-compass/internal/lock"
	"github.com/maheshrc27/content-compass/internal/schedule"
	"github.com/maheshrc27/content-compass/internal/service"
	"github.com/maheshrc27/content-compass/internal/state"
)

func GetUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

func GetStore(c *fiber.Ctx) *state.Store {
	store, _ := c.Locals("store").(*state.Store)
	return store
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, state.ErrValidationFailed),
		errors.Is(err, state.ErrMissingRequiredFields),
		errors.Is(err, schedule.ErrNoValidSlots),
		errors.Is(err, schedule.ErrInvalidSlot),
		errors.Is(err, service.ErrUnsupportedFile),
		errors.Is(err, service.ErrApiKeyLimit),
		errors.Is(err, service.ErrInvalidSignature):
		return fiber.StatusBadRequest
	case errors.Is(err, state.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, state.ErrNotMember),
		errors.Is(err, state.ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, state.ErrNotFound),
		errors.Is(err, service.ErrApiKeyNotFound),
		errors.Is(err, service.ErrNoCustomer):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvitationInvalid),
		errors.Is(err, state.ErrAlreadyOnboarded),
		errors.Is(err, state.ErrNoActiveTeam),
		errors.Is(err, lock.ErrLockTimeout):
		return fiber.StatusConflict
	case errors.Is(err, ai.ErrGenerationFailed):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// writeError maps a domain error to its status. Server errors are logged
// and not echoed to the client.
func writeError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	switch status {
	case fiber.StatusInternalServerError:
		slog.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{
			"error": "Something went wrong, please try again",
		})
	case fiber.StatusBadGateway:
		return c.Status(status).JSON(fiber.Map{
			"error": "Content generation failed, please try again",
			"posts": []any{},
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
