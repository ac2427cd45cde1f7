package domain

import (
	"context"
	"time"

	"pr-risk-analyzer/internal/analysis"
	"pr-risk-analyzer/internal/comments"
	"pr-risk-analyzer/internal/entities"

	"go.uber.org/zap"
)

// EventNormalizer validates raw webhook payloads.
type EventNormalizer interface {
	Normalize(payload map[string]any) (*entities.PullRequestEvent, error)
}

// RemoteAPI is the provider surface the pipeline reads from.
type RemoteAPI interface {
	DiffStat(ctx context.Context, workspace, repo string, prID int) (*entities.DiffStat, error)
	PRTitle(ctx context.Context, workspace, repo string, prID int) (string, error)
}

// AnalysisGate decides and records per-commit analysis passes.
type AnalysisGate interface {
	ShouldAnalyze(ctx context.Context, repoUUID string, prID int, sourceHash string) (bool, error)
	MarkAnalyzed(ctx context.Context, repoUUID string, prID int, sourceHash string, at time.Time) error
	Clear(ctx context.Context, repoUUID string, prID int) error
}

// SnapshotStore persists PR snapshots and serves dashboard reads.
type SnapshotStore interface {
	Get(ctx context.Context, workspaceUUID, repoUUID string, prID int) (*entities.StoredPullRequest, error)
	Save(ctx context.Context, pr *entities.StoredPullRequest) error
	UpdateCommentTracking(ctx context.Context, workspaceUUID, repoUUID string, prID int, tracking entities.CommentTracking) error
	Telemetry(ctx context.Context, workspaceUUID, repoUUID string) (entities.TelemetryCounts, error)
	OpenPRs(ctx context.Context, workspaceUUID, repoUUID string) ([]entities.StoredPullRequest, error)
	HighRiskPRs(ctx context.Context, workspaceUUID, repoUUID string) ([]entities.StoredPullRequest, error)
	PRsByRisk(ctx context.Context, workspaceUUID, repoUUID string, color entities.RiskColor) ([]entities.StoredPullRequest, error)
}

// CommentReconciler keeps the posted risk comment in sync.
type CommentReconciler interface {
	Reconcile(ctx context.Context, workspace, repo string, pr *entities.StoredPullRequest) (comments.Result, error)
}

// Dependencies bundles everything the usecase layer orchestrates.
type Dependencies struct {
	Normalizer EventNormalizer
	Remote     RemoteAPI
	Gate       AnalysisGate
	Store      SnapshotStore
	Reconciler CommentReconciler
	Diff       *analysis.DiffAnalyzer
	Process    *analysis.ProcessAnalyzer
	Engine     *analysis.Engine
}

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx     context.Context
	log     *zap.SugaredLogger
	deps    Dependencies
	timeout time.Duration
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	deps Dependencies,
	timeout time.Duration,
) *Usecase {
	return &Usecase{
		ctx:     ctx,
		log:     log,
		deps:    deps,
		timeout: timeout,
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
