package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/content-compass/internal/service"
)

type DashboardHandler struct {
	s service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{s: s}
}

func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	team, _, err := GetStore(c).Membership()
	if err != nil {
		return writeError(c, err)
	}

	d, err := h.s.Get(c.Context(), team.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(d)
}
