package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/content-compass/internal/service"
	"github.com/maheshrc27/content-compass/internal/state"
)

// SettingsHandler serves the session, onboarding and profile settings.
type SettingsHandler struct {
	ps service.PlatformService
	us service.UserService
}

func NewSettingsHandler(ps service.PlatformService, us service.UserService) *SettingsHandler {
	return &SettingsHandler{ps: ps, us: us}
}

// GetSession reloads the session from storage and returns it with its phase.
func (h *SettingsHandler) GetSession(c *fiber.Ctx) error {
	snap, err := GetStore(c).Reload(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(snap)
}

func (h *SettingsHandler) Catalog(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.ps.Catalog())
}

func (h *SettingsHandler) CompleteOnboarding(c *fiber.Ctx) error {
	var in state.OnboardingInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	snap, err := GetStore(c).CompleteOnboarding(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(snap)
}

func (h *SettingsHandler) UpdateProfile(c *fiber.Ctx) error {
	var in state.ProfileInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	profile, err := GetStore(c).UpdateProfile(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *SettingsHandler) UploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file selected",
		})
	}

	url, err := h.us.UploadAvatar(c.Context(), GetUserID(c), file)
	if err != nil {
		return writeError(c, err)
	}

	profile, err := GetStore(c).UpdateProfile(c.Context(), state.ProfileInput{AvatarURL: &url})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}
