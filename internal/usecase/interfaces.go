package usecase

import (
	"context"

	"pr-risk-analyzer/internal/entities"
)

// WebhookUsecaseInterface abstracts event ingestion for delivery layer.
type WebhookUsecaseInterface interface {
	ProcessEvent(ctx context.Context, payload map[string]any) (*entities.StoredPullRequest, error)
}

// QueryUsecaseInterface abstracts dashboard read operations.
type QueryUsecaseInterface interface {
	PullRequest(ctx context.Context, workspaceUUID, repoUUID string, prID int) (*entities.StoredPullRequest, error)
	Telemetry(ctx context.Context, workspaceUUID, repoUUID string) (entities.TelemetryCounts, error)
	OpenPRs(ctx context.Context, workspaceUUID, repoUUID string) ([]entities.StoredPullRequest, error)
	HighRiskPRs(ctx context.Context, workspaceUUID, repoUUID string) ([]entities.StoredPullRequest, error)
	PRsByRisk(ctx context.Context, workspaceUUID, repoUUID string, color entities.RiskColor) ([]entities.StoredPullRequest, error)
}
