// Package domain contains application services orchestrating the event
// analysis pipeline.
package domain

import (
	"context"
	"errors"

	"pr-risk-analyzer/internal/analysis"
	"pr-risk-analyzer/internal/entities"
)

const untitledPR = "(untitled)"

// ProcessEvent runs one webhook delivery through the full pipeline:
// normalize, gate, fetch the diff, analyze, score, persist and
// reconcile the PR comment. Unknown event kinds are ignored with a nil
// result. Remote failures degrade to a metadata-only snapshot update
// instead of failing the delivery.
func (u *Usecase) ProcessEvent(ctx context.Context, payload map[string]any) (*entities.StoredPullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	event, err := u.deps.Normalizer.Normalize(payload)
	if err != nil {
		return nil, err
	}

	if event.Kind == entities.EventUnknown {
		u.log.Infow("event ignored", "pr_id", event.PRID, "repo_uuid", event.RepoUUID)
		return nil, nil
	}

	prev, err := u.deps.Store.Get(ctx, event.WorkspaceUUID, event.RepoUUID, event.PRID)
	if err != nil && !errors.Is(err, entities.ErrPRNotFound) {
		return nil, err
	}

	if event.Kind.IsClosure() {
		return u.closePR(ctx, event, prev)
	}
	return u.analyzePR(ctx, event, prev)
}

// closePR persists the terminal snapshot and drops the gating record.
// Closure events never trigger scoring; the last assessment rides
// along unchanged.
func (u *Usecase) closePR(ctx context.Context, event *entities.PullRequestEvent, prev *entities.StoredPullRequest) (*entities.StoredPullRequest, error) {
	pr := u.snapshotFromEvent(ctx, event, prev)

	ts := event.Timestamp
	if event.Kind == entities.EventMerged {
		pr.State = entities.StateMerged
		pr.MergedAt = &ts
	} else {
		pr.State = entities.StateDeclined
		pr.ClosedAt = &ts
	}

	if err := u.deps.Store.Save(ctx, pr); err != nil {
		return nil, err
	}
	if err := u.deps.Gate.Clear(ctx, event.RepoUUID, event.PRID); err != nil {
		u.log.Warnw("failed to clear analysis state", "error", err, "pr_id", event.PRID)
	}

	u.log.Infow("pr closed", "pr_id", event.PRID, "state", pr.State)
	return pr, nil
}

func (u *Usecase) analyzePR(ctx context.Context, event *entities.PullRequestEvent, prev *entities.StoredPullRequest) (*entities.StoredPullRequest, error) {
	should, err := u.deps.Gate.ShouldAnalyze(ctx, event.RepoUUID, event.PRID, event.SourceCommitHash)
	if err != nil {
		return nil, err
	}

	pr := u.snapshotFromEvent(ctx, event, prev)

	if !should {
		// Commit unchanged: refresh metadata, keep the old assessment.
		if err := u.deps.Store.Save(ctx, pr); err != nil {
			return nil, err
		}
		return pr, nil
	}

	diff, err := u.deps.Remote.DiffStat(ctx, event.WorkspaceUUID, event.RepoUUID, event.PRID)
	if err != nil {
		u.log.Warnw("diff stat unavailable, analysis skipped",
			"error", err, "pr_id", event.PRID, "repo_uuid", event.RepoUUID)
		if err := u.deps.Store.Save(ctx, pr); err != nil {
			return nil, err
		}
		return pr, nil
	}

	metrics := u.deps.Diff.Analyze(diff.Files)
	size := u.deps.Process.SizeCategory(diff.TotalLinesAdded, diff.TotalLinesRemoved)
	timing := u.deps.Process.TimingSignal(event.Timestamp)
	reviewers := u.deps.Process.ReviewerStatus(event.Reviewers)

	createdAt := event.Timestamp
	if prev != nil && !prev.CreatedAt.IsZero() {
		createdAt = prev.CreatedAt
	}

	pr.Risk = u.deps.Engine.Score(analysis.ScoringInput{
		Metrics:      metrics,
		Size:         size,
		LinesAdded:   diff.TotalLinesAdded,
		LinesRemoved: diff.TotalLinesRemoved,
		Reviewers:    reviewers,
		Timing:       timing,
		PRAge:        event.Timestamp.Sub(createdAt),
	})
	pr.SizeCategory = size
	pr.Diff = diffSummary(metrics, diff)
	pr.LastAnalyzedAt = event.Timestamp

	if err := u.deps.Gate.MarkAnalyzed(ctx, event.RepoUUID, event.PRID, event.SourceCommitHash, event.Timestamp); err != nil {
		return nil, err
	}
	if err := u.deps.Store.Save(ctx, pr); err != nil {
		return nil, err
	}

	u.log.Infow("pr analyzed",
		"pr_id", event.PRID, "score", pr.Risk.Score, "color", pr.Risk.Color, "size", size)

	res, err := u.deps.Reconciler.Reconcile(ctx, event.WorkspaceUUID, event.RepoUUID, pr)
	if err != nil {
		u.log.Warnw("comment reconcile failed", "error", err, "pr_id", event.PRID)
		return pr, nil
	}
	if res.Posted {
		pr.Comment = res.Tracking
		if err := u.deps.Store.UpdateCommentTracking(ctx, event.WorkspaceUUID, event.RepoUUID, event.PRID, res.Tracking); err != nil {
			u.log.Warnw("failed to persist comment tracking", "error", err, "pr_id", event.PRID)
		}
	}
	return pr, nil
}

// snapshotFromEvent seeds a snapshot with event fields, carrying the
// previous assessment so a metadata refresh never loses it.
func (u *Usecase) snapshotFromEvent(ctx context.Context, event *entities.PullRequestEvent, prev *entities.StoredPullRequest) *entities.StoredPullRequest {
	pr := &entities.StoredPullRequest{
		WorkspaceUUID:     event.WorkspaceUUID,
		RepoUUID:          event.RepoUUID,
		PRID:              event.PRID,
		Title:             u.resolveTitle(ctx, event, prev),
		State:             event.State,
		AuthorAccountID:   event.AuthorAccountID,
		SourceBranch:      event.SourceBranch,
		DestinationBranch: event.DestinationBranch,
	}
	if prev != nil {
		pr.SizeCategory = prev.SizeCategory
		pr.Diff = prev.Diff
		pr.Risk = prev.Risk
		pr.LastAnalyzedAt = prev.LastAnalyzedAt
	} else {
		pr.SizeCategory = entities.SizeUnknown
	}
	return pr
}

// resolveTitle prefers the event title, then the stored one, then a
// best-effort remote fetch.
func (u *Usecase) resolveTitle(ctx context.Context, event *entities.PullRequestEvent, prev *entities.StoredPullRequest) string {
	if event.Title != "" {
		return event.Title
	}
	if prev != nil && prev.Title != "" {
		return prev.Title
	}
	title, err := u.deps.Remote.PRTitle(ctx, event.WorkspaceUUID, event.RepoUUID, event.PRID)
	if err != nil || title == "" {
		return untitledPR
	}
	return title
}

func diffSummary(metrics entities.DiffMetrics, diff *entities.DiffStat) entities.DiffSummary {
	total := metrics.TotalFiles()
	return entities.DiffSummary{
		FilesChanged:         total,
		LinesAdded:           diff.TotalLinesAdded,
		LinesRemoved:         diff.TotalLinesRemoved,
		LinesChanged:         diff.TotalLinesAdded + diff.TotalLinesRemoved,
		CriticalFilesTouched: metrics.CriticalFilesCount > 0,
		CriticalPaths:        metrics.CriticalPaths,
		TestsTouched:         metrics.TestFilesCount > 0,
		TestFilesChanged:     metrics.TestFilesCount,
		NonTestFilesChanged:  total - metrics.TestFilesCount,
	}
}
