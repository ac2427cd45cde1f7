package usecase

import (
	"context"
	"time"

	"pr-risk-analyzer/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	WebhookUsecaseInterface
	QueryUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(log *zap.SugaredLogger, ctx context.Context, deps domain.Dependencies, timeout time.Duration) InterfaceUsecase {
	return domain.New(log, ctx, deps, timeout)
}
