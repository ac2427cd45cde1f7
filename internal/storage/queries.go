package storage

import (
	"context"

	"pr-risk-analyzer/internal/entities"
)

// Telemetry returns index cardinalities for one repository. Counts
// come straight from index sizes so no snapshot loads are needed.
func (s *Store) Telemetry(ctx context.Context, workspaceUUID, repoUUID string) (entities.TelemetryCounts, error) {
	var counts entities.TelemetryCounts

	all, err := s.readIndex(ctx, IndexKey(indexByRepo, workspaceUUID, repoUUID))
	if err != nil {
		return counts, err
	}
	open, err := s.readIndex(ctx, IndexKey(indexOpen, workspaceUUID, repoUUID))
	if err != nil {
		return counts, err
	}

	counts.Total = len(all)
	counts.Open = len(open)

	for _, c := range []struct {
		color entities.RiskColor
		dst   *int
	}{
		{entities.RiskRed, &counts.Red},
		{entities.RiskYellow, &counts.Yellow},
		{entities.RiskGreen, &counts.Green},
	} {
		members, err := s.readIndex(ctx, IndexKey(indexRisk, workspaceUUID, repoUUID, string(c.color)))
		if err != nil {
			return counts, err
		}
		*c.dst = len(members)
	}
	return counts, nil
}

// OpenPRs returns snapshots of all currently open PRs in a repository.
func (s *Store) OpenPRs(ctx context.Context, workspaceUUID, repoUUID string) ([]entities.StoredPullRequest, error) {
	keys, err := s.readIndex(ctx, IndexKey(indexOpen, workspaceUUID, repoUUID))
	if err != nil {
		return nil, err
	}
	return s.GetMany(ctx, keys)
}

// PRsByRisk returns snapshots in one risk-color partition.
func (s *Store) PRsByRisk(ctx context.Context, workspaceUUID, repoUUID string, color entities.RiskColor) ([]entities.StoredPullRequest, error) {
	keys, err := s.readIndex(ctx, IndexKey(indexRisk, workspaceUUID, repoUUID, string(color)))
	if err != nil {
		return nil, err
	}
	return s.GetMany(ctx, keys)
}

// HighRiskPRs returns the red partition, the set dashboards page first.
func (s *Store) HighRiskPRs(ctx context.Context, workspaceUUID, repoUUID string) ([]entities.StoredPullRequest, error) {
	return s.PRsByRisk(ctx, workspaceUUID, repoUUID, entities.RiskRed)
}
