// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"pr-risk-analyzer/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the webhook sink and the dashboard read API.
type Handler struct {
	log *zap.SugaredLogger
	uc  usecase.InterfaceUsecase
}

// NewHandler constructs an HTTP handler with service dependencies.
func NewHandler(log *zap.SugaredLogger, uc usecase.InterfaceUsecase) *Handler {
	return &Handler{
		log: log,
		uc:  uc,
	}
}

// RegisterRoutes attaches all endpoints to the fiber app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Post("/webhooks/pullrequest", h.PostPullRequestWebhook)

	repo := app.Group("/repos/:workspace/:repo")
	repo.Get("/telemetry", h.GetTelemetry)
	repo.Get("/prs/open", h.GetOpenPRs)
	repo.Get("/prs/high-risk", h.GetHighRiskPRs)
	repo.Get("/prs/risk/:color", h.GetPRsByRisk)
	repo.Get("/prs/:id", h.GetPullRequest)
}
