package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/content-compass/configs"
	"github.com/maheshrc27/content-compass/internal/service"
	"github.com/maheshrc27/content-compass/internal/state"
	"github.com/maheshrc27/content-compass/pkg/utils"
)

const (
	stateCookie     = "oauth_state"
	sessionDuration = 24 * time.Hour
)

type AuthHandler struct {
	s        service.AuthService
	registry *state.Registry
	cfg      config.Config
}

func NewAuthHandler(cfg config.Config, service service.AuthService, registry *state.Registry) *AuthHandler {
	return &AuthHandler{s: service, registry: registry, cfg: cfg}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	oauthState, err := utils.RandomString(16)
	if err != nil {
		return writeError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    oauthState,
		HTTPOnly: true,
		Secure:   h.cfg.Production(),
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
	})

	return c.Redirect(h.s.AuthURL(oauthState), fiber.StatusTemporaryRedirect)
}

// LoginCallbackHandler finishes sign-in, creating the provisional profile on
// a first visit, and sends the user to the frontend.
func (h *AuthHandler) LoginCallbackHandler(c *fiber.Ctx) error {
	if c.Query("state") == "" || c.Query("state") != c.Cookies(stateCookie) {
		slog.Info("oauth state mismatch")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": service.ErrAuthFailed.Error(),
		})
	}
	c.ClearCookie(stateCookie)

	identity, err := h.s.LoginCallback(c.Context(), c.Query("code"), c.Query("error"))
	if errors.Is(err, service.ErrAuthCancelled) {
		return c.Redirect(h.cfg.FrontendURL+"/login?cancelled=1", fiber.StatusTemporaryRedirect)
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": service.ErrAuthFailed.Error(),
		})
	}

	snap, err := h.registry.SignIn(c.Context(), identity)
	if err != nil {
		return writeError(c, err)
	}

	token, err := utils.GenerateToken(h.cfg.SecretKey, identity.UID, sessionDuration)
	if err != nil {
		return writeError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   h.cfg.Production(),
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(sessionDuration),
	})

	target := h.cfg.FrontendURL
	if snap.Phase == state.PhaseOnboarding {
		target += "/onboarding"
	}
	return c.Redirect(target, fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(h.cfg.CookieName); token != "" {
		if claims, err := utils.ValidateToken(h.cfg.SecretKey, token); err == nil {
			h.registry.SignOut(claims.UserID)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:   h.cfg.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return c.SendStatus(fiber.StatusNoContent)
}
