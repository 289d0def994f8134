package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/content-compass/configs"
	"github.com/maheshrc27/content-compass/internal/service"
	"github.com/maheshrc27/content-compass/pkg/utils"
)

var errNoCredentials = errors.New("no credentials")

type AuthMiddleware struct {
	keys service.ApiKeyService
	cfg  config.Config
}

func NewAuthMiddleware(cfg config.Config, keys service.ApiKeyService) *AuthMiddleware {
	return &AuthMiddleware{keys: keys, cfg: cfg}
}

// AuthMiddleware accepts a personal API key, sent as the X-API-Key header or
// the api_key query parameter, or the session cookie. The caller's id is
// stored in Locals("user_id").
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := m.authenticate(c)
		switch {
		case errors.Is(err, errNoCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not signed in"})
		case errors.Is(err, service.ErrApiKeyNotFound):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid API key"})
		case errors.Is(err, utils.ErrInvalidToken):
			m.clearSession(c)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Session expired, please sign in again"})
		case err != nil:
			slog.Error("authentication failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Authentication unavailable"})
		}
		c.Locals("user_id", uid)
		return c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (string, error) {
	key := c.Get("X-API-Key")
	if key == "" {
		key = c.Query("api_key")
	}
	if key != "" {
		return m.keys.GetUserID(c.Context(), key)
	}

	token := c.Cookies(m.cfg.CookieName)
	if token == "" {
		return "", errNoCredentials
	}
	claims, err := utils.ValidateToken(m.cfg.SecretKey, token)
	if err != nil {
		slog.Info("session rejected", "error", err)
		return "", err
	}
	return claims.UserID, nil
}

func (m *AuthMiddleware) clearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{Name: m.cfg.CookieName, Value: "", Path: "/", MaxAge: -1})
}
