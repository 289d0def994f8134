package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/content-compass/internal/service"
	"github.com/maheshrc27/content-compass/internal/transfer"
)

type PaymentHandler struct {
	s service.BillingService
}

func NewPaymentHandler(service service.BillingService) *PaymentHandler {
	return &PaymentHandler{s: service}
}

func (h *PaymentHandler) Checkout(c *fiber.Ctx) error {
	var req transfer.CheckoutRequest
	_ = c.BodyParser(&req)

	url, err := h.s.Checkout(c.Context(), GetUserID(c), req.PriceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(transfer.RedirectResponse{URL: url})
}

func (h *PaymentHandler) Portal(c *fiber.Ctx) error {
	url, err := h.s.Portal(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(transfer.RedirectResponse{URL: url})
}

func (h *PaymentHandler) PaymentWebhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")
	if signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing signature",
		})
	}

	if err := h.s.HandleWebhook(c.Context(), c.Body(), signature); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}
