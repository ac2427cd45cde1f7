package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pr-risk-analyzer/config"
	"pr-risk-analyzer/internal/entities"
	"pr-risk-analyzer/internal/repository"

	"go.uber.org/zap"
)

// Store persists PR snapshots and keeps the secondary indexes
// consistent with them.
type Store struct {
	log *zap.SugaredLogger
	kv  repository.KVInterface
	cfg config.AnalysisConfig
	now func() time.Time
}

// NewStore constructs a Store.
func NewStore(log *zap.SugaredLogger, kv repository.KVInterface, cfg config.AnalysisConfig) *Store {
	return &Store{
		log: log.Named("prstore"),
		kv:  kv,
		cfg: cfg,
		now: time.Now,
	}
}

// Get loads one PR snapshot.
func (s *Store) Get(ctx context.Context, workspaceUUID, repoUUID string, prID int) (*entities.StoredPullRequest, error) {
	raw, err := s.kv.Get(ctx, PRKey(workspaceUUID, repoUUID, prID))
	if errors.Is(err, entities.ErrKeyNotFound) {
		return nil, entities.ErrPRNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load pr: %w", err)
	}

	var pr entities.StoredPullRequest
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, fmt.Errorf("decode pr: %w", err)
	}
	return &pr, nil
}

// GetMany loads the snapshots behind the given keys, silently skipping
// keys whose snapshot has disappeared.
func (s *Store) GetMany(ctx context.Context, keys []string) ([]entities.StoredPullRequest, error) {
	out := make([]entities.StoredPullRequest, 0, len(keys))
	for _, key := range keys {
		raw, err := s.kv.Get(ctx, key)
		if errors.Is(err, entities.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load pr %s: %w", key, err)
		}
		var pr entities.StoredPullRequest
		if err := json.Unmarshal(raw, &pr); err != nil {
			s.log.Warnw("corrupt pr snapshot skipped", "key", key, "error", err)
			continue
		}
		out = append(out, pr)
	}
	return out, nil
}

// Save upserts a snapshot. Fields owned by earlier writes survive the
// upsert: creation time, merge/close timestamps and comment tracking
// are taken from the stored copy when the incoming one lacks them.
// Derived fields and all indexes are refreshed before returning.
func (s *Store) Save(ctx context.Context, pr *entities.StoredPullRequest) error {
	now := s.now()
	pr.Key = PRKey(pr.WorkspaceUUID, pr.RepoUUID, pr.PRID)
	pr.WorkspaceUUID = sanitizeUUID(pr.WorkspaceUUID)
	pr.RepoUUID = sanitizeUUID(pr.RepoUUID)

	prev, err := s.Get(ctx, pr.WorkspaceUUID, pr.RepoUUID, pr.PRID)
	if err != nil && !errors.Is(err, entities.ErrPRNotFound) {
		return err
	}

	if prev != nil {
		pr.CreatedAt = prev.CreatedAt
		if pr.MergedAt == nil {
			pr.MergedAt = prev.MergedAt
		}
		if pr.ClosedAt == nil {
			pr.ClosedAt = prev.ClosedAt
		}
		if pr.Comment.CommentID == "" {
			pr.Comment = prev.Comment
		}
		if pr.LastAnalyzedAt.IsZero() {
			pr.LastAnalyzedAt = prev.LastAnalyzedAt
		}
	}
	if pr.CreatedAt.IsZero() {
		pr.CreatedAt = now
	}
	pr.UpdatedAt = now

	age := now.Sub(pr.CreatedAt)
	pr.AgeHours = int(age.Hours())
	pr.Flags.IsHighRisk = pr.Risk.Color == entities.RiskRed
	pr.Flags.IsStale = pr.State == entities.StateOpen && age > s.cfg.StaleAfter

	raw, err := json.Marshal(pr)
	if err != nil {
		return fmt.Errorf("encode pr: %w", err)
	}
	if err := s.kv.Set(ctx, pr.Key, raw); err != nil {
		return fmt.Errorf("store pr: %w", err)
	}

	if err := s.applyIndexes(ctx, prev, pr); err != nil {
		return err
	}

	s.log.Infow("pr snapshot saved",
		"key", pr.Key, "state", pr.State, "score", pr.Risk.Score, "color", pr.Risk.Color)
	return nil
}

// UpdateCommentTracking persists comment bookkeeping without touching
// the rest of the snapshot or its indexes.
func (s *Store) UpdateCommentTracking(ctx context.Context, workspaceUUID, repoUUID string, prID int, tracking entities.CommentTracking) error {
	pr, err := s.Get(ctx, workspaceUUID, repoUUID, prID)
	if err != nil {
		return err
	}
	pr.Comment = tracking

	raw, err := json.Marshal(pr)
	if err != nil {
		return fmt.Errorf("encode pr: %w", err)
	}
	if err := s.kv.Set(ctx, pr.Key, raw); err != nil {
		return fmt.Errorf("store pr: %w", err)
	}
	return nil
}

// Delete removes a snapshot and every index entry pointing at it.
func (s *Store) Delete(ctx context.Context, workspaceUUID, repoUUID string, prID int) error {
	pr, err := s.Get(ctx, workspaceUUID, repoUUID, prID)
	if errors.Is(err, entities.ErrPRNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	ws, repo := pr.WorkspaceUUID, pr.RepoUUID
	if err := s.removeFromIndex(ctx, IndexKey(indexByRepo, ws, repo), pr.Key); err != nil {
		return err
	}
	if err := s.removeFromIndex(ctx, IndexKey(indexOpen, ws, repo), pr.Key); err != nil {
		return err
	}
	if pr.Risk.Color != "" {
		if err := s.removeFromIndex(ctx, IndexKey(indexRisk, ws, repo, string(pr.Risk.Color)), pr.Key); err != nil {
			return err
		}
	}
	if err := s.kv.Delete(ctx, pr.Key); err != nil {
		return fmt.Errorf("delete pr: %w", err)
	}
	return nil
}
