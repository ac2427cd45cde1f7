package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pr-risk-analyzer/internal/entities"
	"pr-risk-analyzer/internal/repository"

	"go.uber.org/zap"
)

// Gate decides whether a PR needs a fresh analysis pass. It tracks the
// last analyzed source commit hash per PR; an unchanged hash means the
// diff cannot have changed and the pass is skipped.
type Gate struct {
	log *zap.SugaredLogger
	kv  repository.KVInterface
}

// NewGate constructs a Gate.
func NewGate(log *zap.SugaredLogger, kv repository.KVInterface) *Gate {
	return &Gate{log: log.Named("gate"), kv: kv}
}

// ShouldAnalyze reports whether the given source commit hash differs
// from the last analyzed one. An empty hash skips: without a commit
// there is nothing new to score.
func (g *Gate) ShouldAnalyze(ctx context.Context, repoUUID string, prID int, sourceHash string) (bool, error) {
	if sourceHash == "" {
		g.log.Infow("analysis skipped, no source commit", "pr_id", prID)
		return false, nil
	}

	raw, err := g.kv.Get(ctx, AnalysisKey(repoUUID, prID))
	if errors.Is(err, entities.ErrKeyNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("load analysis state: %w", err)
	}

	var state entities.AnalysisState
	if err := json.Unmarshal(raw, &state); err != nil {
		g.log.Warnw("corrupt analysis state, re-analyzing", "error", err, "pr_id", prID)
		return true, nil
	}

	if state.LastSourceCommitHash == sourceHash {
		g.log.Infow("analysis skipped, commit unchanged", "pr_id", prID, "hash", sourceHash)
		return false, nil
	}
	return true, nil
}

// MarkAnalyzed records the hash that was just analyzed.
func (g *Gate) MarkAnalyzed(ctx context.Context, repoUUID string, prID int, sourceHash string, at time.Time) error {
	state := entities.AnalysisState{
		LastSourceCommitHash: sourceHash,
		LastAnalyzedAt:       at,
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal analysis state: %w", err)
	}
	if err := g.kv.Set(ctx, AnalysisKey(repoUUID, prID), raw); err != nil {
		return fmt.Errorf("store analysis state: %w", err)
	}
	return nil
}

// Clear drops the gating record once a PR reaches a terminal state.
func (g *Gate) Clear(ctx context.Context, repoUUID string, prID int) error {
	if err := g.kv.Delete(ctx, AnalysisKey(repoUUID, prID)); err != nil {
		return fmt.Errorf("clear analysis state: %w", err)
	}
	return nil
}
