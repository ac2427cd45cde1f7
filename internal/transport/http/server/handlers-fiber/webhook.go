package handlers_fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// PostPullRequestWebhook ingests one pull request webhook delivery.
// Processed and ignored deliveries both return 202 so the provider
// never retries them; only malformed payloads get a 400.
func (h *Handler) PostPullRequestWebhook(c *fiber.Ctx) error {
	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(codeInvalidEvent, "invalid body"))
	}

	pr, err := h.uc.ProcessEvent(c.Context(), payload)
	if err != nil {
		h.log.Errorw("failed to process event", "error", err.Error())
		return writeError(c, err)
	}

	if pr == nil {
		return c.Status(http.StatusAccepted).JSON(fiber.Map{"status": "ignored"})
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"status": "processed",
		"pr":     pr,
	})
}
