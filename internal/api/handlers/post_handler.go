package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/maheshrc27/content-compass/internal/state"
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	snap := GetStore(c).Snapshot()
	if snap.Posts == nil {
		snap.Posts = []models.Post{}
	}
	return c.Status(fiber.StatusOK).JSON(snap.Posts)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	post, _, ok := GetStore(c).Snapshot().Post(c.Params("id"))
	if !ok {
		return writeError(c, state.ErrNotFound)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var in state.PostInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	post, err := GetStore(c).AddPost(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	var patch models.PostPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	post, err := GetStore(c).UpdatePost(c.Context(), c.Params("id"), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	if err := GetStore(c).DeletePost(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PostHandler) CopyPost(c *fiber.Ctx) error {
	post, err := GetStore(c).CopyPost(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}
