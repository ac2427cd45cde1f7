package comments

import (
	"context"
	"strings"
	"testing"
	"time"

	"pr-risk-analyzer/internal/entities"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiMock struct {
	mock.Mock
}

func (m *apiMock) CreateComment(ctx context.Context, workspace, repo string, prID int, content string) (string, error) {
	args := m.Called(ctx, workspace, repo, prID, content)
	return args.String(0), args.Error(1)
}

func (m *apiMock) UpdateComment(ctx context.Context, workspace, repo string, prID int, commentID, content string) error {
	args := m.Called(ctx, workspace, repo, prID, commentID, content)
	return args.Error(0)
}

func riskPR() *entities.StoredPullRequest {
	return &entities.StoredPullRequest{
		WorkspaceUUID: "ws",
		RepoUUID:      "repo",
		PRID:          7,
		SizeCategory:  entities.SizeLarge,
		Diff: entities.DiffSummary{
			FilesChanged:  12,
			LinesAdded:    280,
			LinesRemoved:  5,
			CriticalPaths: []string{"core/auth/session.go"},
		},
		Risk: entities.RiskAssessment{
			Score:   43,
			Color:   entities.RiskRed,
			Factors: []string{"Impact surface: 0.85 (12 files)"},
			Version: "v2",
		},
	}
}

func newTestReconciler(api *apiMock) *Reconciler {
	r := NewReconciler(zap.NewNop().Sugar(), api)
	r.now = func() time.Time { return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) }
	return r
}

func TestReconcileCreatesWhenUntracked(t *testing.T) {
	api := &apiMock{}
	api.On("CreateComment", mock.Anything, "ws", "repo", 7, mock.Anything).Return("101", nil)

	res, err := newTestReconciler(api).Reconcile(context.Background(), "ws", "repo", riskPR())
	require.NoError(t, err)
	require.True(t, res.Posted)
	require.Equal(t, "101", res.Tracking.CommentID)
	require.NotEmpty(t, res.Tracking.Fingerprint)
	require.NotNil(t, res.Tracking.LastPostedAt)
	api.AssertExpectations(t)
}

func TestReconcileSkipsUnchangedFingerprint(t *testing.T) {
	api := &apiMock{}
	pr := riskPR()
	pr.Comment = entities.CommentTracking{CommentID: "101", Fingerprint: Fingerprint(pr)}

	res, err := newTestReconciler(api).Reconcile(context.Background(), "ws", "repo", pr)
	require.NoError(t, err)
	require.False(t, res.Posted)
	require.Equal(t, "101", res.Tracking.CommentID)
	api.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "UpdateComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileUpdatesTrackedComment(t *testing.T) {
	api := &apiMock{}
	api.On("UpdateComment", mock.Anything, "ws", "repo", 7, "101", mock.Anything).Return(nil)

	pr := riskPR()
	pr.Comment = entities.CommentTracking{CommentID: "101", Fingerprint: "stale-fp"}

	res, err := newTestReconciler(api).Reconcile(context.Background(), "ws", "repo", pr)
	require.NoError(t, err)
	require.True(t, res.Posted)
	require.Equal(t, "101", res.Tracking.CommentID)
	require.Equal(t, Fingerprint(pr), res.Tracking.Fingerprint)
	api.AssertExpectations(t)
}

func TestReconcileRecreatesDeletedComment(t *testing.T) {
	api := &apiMock{}
	api.On("UpdateComment", mock.Anything, "ws", "repo", 7, "101", mock.Anything).
		Return(entities.ErrCommentNotFound)
	api.On("CreateComment", mock.Anything, "ws", "repo", 7, mock.Anything).Return("202", nil)

	pr := riskPR()
	pr.Comment = entities.CommentTracking{CommentID: "101", Fingerprint: "stale-fp"}

	res, err := newTestReconciler(api).Reconcile(context.Background(), "ws", "repo", pr)
	require.NoError(t, err)
	require.True(t, res.Posted)
	require.Equal(t, "202", res.Tracking.CommentID)
	api.AssertExpectations(t)
}

func TestReconcileKeepsTrackingOnRemoteFailure(t *testing.T) {
	api := &apiMock{}
	api.On("UpdateComment", mock.Anything, "ws", "repo", 7, "101", mock.Anything).
		Return(entities.ErrRemoteUnavailable)

	pr := riskPR()
	pr.Comment = entities.CommentTracking{CommentID: "101", Fingerprint: "stale-fp"}

	res, err := newTestReconciler(api).Reconcile(context.Background(), "ws", "repo", pr)
	require.ErrorIs(t, err, entities.ErrRemoteUnavailable)
	require.False(t, res.Posted)
	require.Equal(t, "101", res.Tracking.CommentID)
	require.Equal(t, "stale-fp", res.Tracking.Fingerprint)
}

func TestFingerprintStability(t *testing.T) {
	a, b := riskPR(), riskPR()
	require.Equal(t, Fingerprint(a), Fingerprint(b))

	b.Risk.Score = 44
	require.NotEqual(t, Fingerprint(a), Fingerprint(b))

	c := riskPR()
	c.LastAnalyzedAt = time.Now()
	require.Equal(t, Fingerprint(a), Fingerprint(c))
}

func TestRenderContainsCore(t *testing.T) {
	body := Render(riskPR())
	require.Contains(t, body, "RED")
	require.Contains(t, body, "score 43/100")
	require.Contains(t, body, "core/auth/session.go")
	require.Contains(t, body, "Impact surface")
	require.True(t, strings.HasPrefix(body, "**"))
}
