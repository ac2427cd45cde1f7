package handlers_fiber

import (
	"net/http"

	"pr-risk-analyzer/internal/entities"

	"github.com/gofiber/fiber/v2"
)

// GetTelemetry returns per-repository index counts.
func (h *Handler) GetTelemetry(c *fiber.Ctx) error {
	counts, err := h.uc.Telemetry(c.Context(), c.Params("workspace"), c.Params("repo"))
	if err != nil {
		h.log.Errorw("failed to get telemetry", "error", err.Error())
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(counts)
}

// GetOpenPRs returns all open PR snapshots of a repository.
func (h *Handler) GetOpenPRs(c *fiber.Ctx) error {
	prs, err := h.uc.OpenPRs(c.Context(), c.Params("workspace"), c.Params("repo"))
	if err != nil {
		h.log.Errorw("failed to get open prs", "error", err.Error())
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"prs": prs})
}

// GetHighRiskPRs returns the red partition of a repository.
func (h *Handler) GetHighRiskPRs(c *fiber.Ctx) error {
	prs, err := h.uc.HighRiskPRs(c.Context(), c.Params("workspace"), c.Params("repo"))
	if err != nil {
		h.log.Errorw("failed to get high risk prs", "error", err.Error())
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"prs": prs})
}

// GetPRsByRisk returns one risk-color partition of a repository.
func (h *Handler) GetPRsByRisk(c *fiber.Ctx) error {
	color := entities.RiskColor(c.Params("color"))
	prs, err := h.uc.PRsByRisk(c.Context(), c.Params("workspace"), c.Params("repo"), color)
	if err != nil {
		h.log.Errorw("failed to get prs by risk", "error", err.Error(), "color", color)
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"prs": prs})
}

// GetPullRequest returns one stored snapshot.
func (h *Handler) GetPullRequest(c *fiber.Ctx) error {
	prID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(codeInvalidArgument, "pr id must be an integer"))
	}

	pr, err := h.uc.PullRequest(c.Context(), c.Params("workspace"), c.Params("repo"), prID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(pr)
}
