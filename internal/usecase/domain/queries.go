package domain

import (
	"context"
	"fmt"

	"pr-risk-analyzer/internal/entities"
)

// PullRequest returns one stored snapshot.
func (u *Usecase) PullRequest(ctx context.Context, workspaceUUID, repoUUID string, prID int) (*entities.StoredPullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRepo(workspaceUUID, repoUUID); err != nil {
		return nil, err
	}
	if prID <= 0 {
		return nil, fmt.Errorf("%w: pr id must be positive", entities.ErrInvalidArgument)
	}
	return u.deps.Store.Get(ctx, workspaceUUID, repoUUID, prID)
}

// Telemetry returns per-repository index counts.
func (u *Usecase) Telemetry(ctx context.Context, workspaceUUID, repoUUID string) (entities.TelemetryCounts, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRepo(workspaceUUID, repoUUID); err != nil {
		return entities.TelemetryCounts{}, err
	}
	return u.deps.Store.Telemetry(ctx, workspaceUUID, repoUUID)
}

// OpenPRs returns all open PR snapshots of a repository.
func (u *Usecase) OpenPRs(ctx context.Context, workspaceUUID, repoUUID string) ([]entities.StoredPullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRepo(workspaceUUID, repoUUID); err != nil {
		return nil, err
	}
	return u.deps.Store.OpenPRs(ctx, workspaceUUID, repoUUID)
}

// HighRiskPRs returns the red partition of a repository.
func (u *Usecase) HighRiskPRs(ctx context.Context, workspaceUUID, repoUUID string) ([]entities.StoredPullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRepo(workspaceUUID, repoUUID); err != nil {
		return nil, err
	}
	return u.deps.Store.HighRiskPRs(ctx, workspaceUUID, repoUUID)
}

// PRsByRisk returns one risk-color partition of a repository.
func (u *Usecase) PRsByRisk(ctx context.Context, workspaceUUID, repoUUID string, color entities.RiskColor) ([]entities.StoredPullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRepo(workspaceUUID, repoUUID); err != nil {
		return nil, err
	}
	switch color {
	case entities.RiskGreen, entities.RiskYellow, entities.RiskRed:
	default:
		return nil, fmt.Errorf("%w: unknown risk color %q", entities.ErrInvalidArgument, color)
	}
	return u.deps.Store.PRsByRisk(ctx, workspaceUUID, repoUUID, color)
}

func requireRepo(workspaceUUID, repoUUID string) error {
	if workspaceUUID == "" || repoUUID == "" {
		return fmt.Errorf("%w: workspace and repository are required", entities.ErrInvalidArgument)
	}
	return nil
}
