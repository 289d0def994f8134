package handlers

import (
	"slices"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/maheshrc27/content-compass/internal/service"
	"github.com/maheshrc27/content-compass/internal/state"
	"github.com/maheshrc27/content-compass/internal/transfer"
)

type PlanHandler struct {
	s service.PlanService
}

func NewPlanHandler(s service.PlanService) *PlanHandler {
	return &PlanHandler{s: s}
}

// planner returns the caller's profile if they may create content plans in
// the active team.
func planner(c *fiber.Ctx) (models.UserProfile, error) {
	store := GetStore(c)
	_, member, err := store.Membership()
	if err != nil {
		return models.UserProfile{}, err
	}
	if !member.Permissions.CreateContentPlan {
		return models.UserProfile{}, state.ErrPermissionDenied
	}
	return *store.Snapshot().User, nil
}

// GeneratePlan previews drafts for the requested schedule. Nothing is saved.
func (h *PlanHandler) GeneratePlan(c *fiber.Ctx) error {
	profile, err := planner(c)
	if err != nil {
		return writeError(c, err)
	}

	var req service.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	preview, err := h.s.Generate(c.Context(), profile, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(preview)
}

// SuggestPosts drafts posts from the profile's preferences alone.
func (h *PlanHandler) SuggestPosts(c *fiber.Ctx) error {
	profile, err := planner(c)
	if err != nil {
		return writeError(c, err)
	}

	result, err := h.s.Suggest(c.Context(), profile)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *PlanHandler) AcceptPlan(c *fiber.Ctx) error {
	var in state.PlanInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	plan, posts, err := GetStore(c).AcceptPlan(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"plan":  plan,
		"posts": posts,
	})
}

func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	snap := GetStore(c).Snapshot()
	if snap.ContentPlans == nil {
		snap.ContentPlans = []models.ContentPlan{}
	}
	return c.Status(fiber.StatusOK).JSON(snap.ContentPlans)
}

// GetPlan returns a plan of the active team with its posts in plan order.
func (h *PlanHandler) GetPlan(c *fiber.Ctx) error {
	snap := GetStore(c).Snapshot()
	i := slices.IndexFunc(snap.ContentPlans, func(p models.ContentPlan) bool { return p.ID == c.Params("id") })
	if i < 0 {
		return writeError(c, state.ErrNotFound)
	}
	plan := snap.ContentPlans[i]

	posts := make([]models.Post, 0, len(plan.PostIDs))
	for _, id := range plan.PostIDs {
		if p, _, ok := snap.Post(id); ok {
			posts = append(posts, p)
		}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"plan":  plan,
		"posts": posts,
	})
}

func (h *PlanHandler) Trending(c *fiber.Ctx) error {
	profile, err := planner(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(h.s.Trending(c.Context(), profile))
}

func (h *PlanHandler) FollowUps(c *fiber.Ctx) error {
	profile, err := planner(c)
	if err != nil {
		return writeError(c, err)
	}

	var req transfer.FollowUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	return c.Status(fiber.StatusOK).JSON(h.s.FollowUps(c.Context(), profile, req.TrendingTopic, req.InitialTweet))
}
