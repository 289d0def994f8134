package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/maheshrc27/content-compass/internal/service"
	"github.com/maheshrc27/content-compass/internal/state"
	"github.com/maheshrc27/content-compass/internal/transfer"
)

type TeamHandler struct {
	is service.InvitationService
}

func NewTeamHandler(is service.InvitationService) *TeamHandler {
	return &TeamHandler{is: is}
}

func (h *TeamHandler) ListTeams(c *fiber.Ctx) error {
	snap := GetStore(c).Snapshot()
	if snap.Teams == nil {
		snap.Teams = []models.Team{}
	}
	return c.Status(fiber.StatusOK).JSON(snap.Teams)
}

func (h *TeamHandler) CreateTeam(c *fiber.Ctx) error {
	var in state.TeamInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	team, err := GetStore(c).AddTeam(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(team)
}

func (h *TeamHandler) SwitchTeam(c *fiber.Ctx) error {
	var req transfer.SwitchTeamRequest
	if err := c.BodyParser(&req); err != nil || req.TeamID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "teamId is required",
		})
	}

	snap, err := GetStore(c).SwitchTeam(c.Context(), req.TeamID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(snap)
}

func (h *TeamHandler) UpdateAccounts(c *fiber.Ctx) error {
	var accounts []models.SocialMediaAccount
	if err := c.BodyParser(&accounts); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	team, err := GetStore(c).UpdateTeamAccounts(c.Context(), c.Params("id"), accounts)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(team)
}

func (h *TeamHandler) ListInvitations(c *fiber.Ctx) error {
	invitations, err := h.is.ListPending(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(invitations)
}

func (h *TeamHandler) Invite(c *fiber.Ctx) error {
	var req transfer.InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	inv, preview, err := h.is.Invite(c.Context(), GetUserID(c), c.Params("id"), req.Email)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(transfer.InviteResponse{ID: inv.ID, PreviewURL: preview})
}

func (h *TeamHandler) ResendInvitation(c *fiber.Ctx) error {
	preview, err := h.is.Resend(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(transfer.InviteResponse{ID: c.Params("id"), PreviewURL: preview})
}

func (h *TeamHandler) RevokeInvitation(c *fiber.Ctx) error {
	if err := h.is.Revoke(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AcceptInvitation joins the team and reloads the session so the new team
// is listed.
func (h *TeamHandler) AcceptInvitation(c *fiber.Ctx) error {
	team, err := h.is.Accept(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	snap, err := GetStore(c).Reload(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"team":    team,
		"session": snap,
	})
}
