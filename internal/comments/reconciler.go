package comments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pr-risk-analyzer/internal/entities"

	"go.uber.org/zap"
)

// CommentAPI is the remote comment surface the reconciler drives.
type CommentAPI interface {
	CreateComment(ctx context.Context, workspace, repo string, prID int, content string) (string, error)
	UpdateComment(ctx context.Context, workspace, repo string, prID int, commentID, content string) error
}

// Result reports what the reconciler did and the tracking record to
// persist. When Posted is false the tracking is the unchanged input.
type Result struct {
	Tracking entities.CommentTracking
	Posted   bool
}

// Reconciler keeps the posted risk comment in sync with the latest
// assessment.
type Reconciler struct {
	log *zap.SugaredLogger
	api CommentAPI
	now func() time.Time
}

// NewReconciler constructs a Reconciler.
func NewReconciler(log *zap.SugaredLogger, api CommentAPI) *Reconciler {
	return &Reconciler{
		log: log.Named("comments"),
		api: api,
		now: time.Now,
	}
}

// Reconcile posts or refreshes the risk comment for pr. An unchanged
// fingerprint skips the remote call entirely. A tracked comment that
// was deleted out-of-band is replaced with a fresh one.
func (r *Reconciler) Reconcile(ctx context.Context, workspace, repo string, pr *entities.StoredPullRequest) (Result, error) {
	fp := Fingerprint(pr)

	if pr.Comment.CommentID != "" && pr.Comment.Fingerprint == fp {
		r.log.Infow("comment unchanged, skipping", "pr_id", pr.PRID, "comment_id", pr.Comment.CommentID)
		return Result{Tracking: pr.Comment}, nil
	}

	content := Render(pr)

	if pr.Comment.CommentID != "" {
		err := r.api.UpdateComment(ctx, workspace, repo, pr.PRID, pr.Comment.CommentID, content)
		switch {
		case err == nil:
			return r.posted(pr.Comment.CommentID, fp), nil
		case errors.Is(err, entities.ErrCommentNotFound):
			r.log.Warnw("tracked comment missing, recreating", "pr_id", pr.PRID, "comment_id", pr.Comment.CommentID)
		default:
			return Result{Tracking: pr.Comment}, fmt.Errorf("update comment: %w", err)
		}
	}

	id, err := r.api.CreateComment(ctx, workspace, repo, pr.PRID, content)
	if err != nil {
		return Result{Tracking: pr.Comment}, fmt.Errorf("create comment: %w", err)
	}
	return r.posted(id, fp), nil
}

func (r *Reconciler) posted(commentID, fp string) Result {
	at := r.now()
	return Result{
		Tracking: entities.CommentTracking{
			CommentID:    commentID,
			Fingerprint:  fp,
			LastPostedAt: &at,
		},
		Posted: true,
	}
}
