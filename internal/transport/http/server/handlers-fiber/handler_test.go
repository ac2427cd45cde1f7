package handlers_fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pr-risk-analyzer/internal/entities"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ucMock struct{ mock.Mock }

func (m *ucMock) ProcessEvent(ctx context.Context, payload map[string]any) (*entities.StoredPullRequest, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.StoredPullRequest), args.Error(1)
}

func (m *ucMock) PullRequest(ctx context.Context, workspaceUUID, repoUUID string, prID int) (*entities.StoredPullRequest, error) {
	args := m.Called(ctx, workspaceUUID, repoUUID, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.StoredPullRequest), args.Error(1)
}

func (m *ucMock) Telemetry(ctx context.Context, workspaceUUID, repoUUID string) (entities.TelemetryCounts, error) {
	args := m.Called(ctx, workspaceUUID, repoUUID)
	return args.Get(0).(entities.TelemetryCounts), args.Error(1)
}

func (m *ucMock) OpenPRs(ctx context.Context, workspaceUUID, repoUUID string) ([]entities.StoredPullRequest, error) {
	args := m.Called(ctx, workspaceUUID, repoUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.StoredPullRequest), args.Error(1)
}

func (m *ucMock) HighRiskPRs(ctx context.Context, workspaceUUID, repoUUID string) ([]entities.StoredPullRequest, error) {
	args := m.Called(ctx, workspaceUUID, repoUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.StoredPullRequest), args.Error(1)
}

func (m *ucMock) PRsByRisk(ctx context.Context, workspaceUUID, repoUUID string, color entities.RiskColor) ([]entities.StoredPullRequest, error) {
	args := m.Called(ctx, workspaceUUID, repoUUID, color)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.StoredPullRequest), args.Error(1)
}

func newTestApp(uc *ucMock) *fiber.App {
	app := fiber.New()
	NewHandler(zap.NewNop().Sugar(), uc).RegisterRoutes(app)
	return app
}

func TestWebhookAccepted(t *testing.T) {
	uc := &ucMock{}
	uc.On("ProcessEvent", mock.Anything, mock.Anything).Return(&entities.StoredPullRequest{
		PRID: 7,
		Risk: entities.RiskAssessment{Score: 85, Color: entities.RiskGreen},
	}, nil)

	body, _ := json.Marshal(map[string]any{"eventType": "pullrequest:created"})
	req := httptest.NewRequest(http.MethodPost, "/webhooks/pullrequest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := newTestApp(uc).Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var out struct {
		Status string                     `json:"status"`
		PR     entities.StoredPullRequest `json:"pr"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, "processed", out.Status)
	require.Equal(t, 7, out.PR.PRID)
}

func TestWebhookIgnored(t *testing.T) {
	uc := &ucMock{}
	uc.On("ProcessEvent", mock.Anything, mock.Anything).Return(nil, nil)

	body, _ := json.Marshal(map[string]any{"eventType": "something:else"})
	req := httptest.NewRequest(http.MethodPost, "/webhooks/pullrequest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := newTestApp(uc).Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestWebhookInvalidEvent(t *testing.T) {
	uc := &ucMock{}
	uc.On("ProcessEvent", mock.Anything, mock.Anything).Return(nil, entities.ErrInvalidEvent)

	body, _ := json.Marshal(map[string]any{"eventType": "pullrequest:created"})
	req := httptest.NewRequest(http.MethodPost, "/webhooks/pullrequest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := newTestApp(uc).Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTelemetry(t *testing.T) {
	uc := &ucMock{}
	uc.On("Telemetry", mock.Anything, "ws", "repo").
		Return(entities.TelemetryCounts{Total: 5, Open: 3, Red: 1, Green: 2}, nil)

	req := httptest.NewRequest(http.MethodGet, "/repos/ws/repo/telemetry", nil)
	resp, err := newTestApp(uc).Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var counts entities.TelemetryCounts
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&counts))
	require.Equal(t, 5, counts.Total)
	require.Equal(t, 1, counts.Red)
}

func TestGetPRsByRisk(t *testing.T) {
	uc := &ucMock{}
	uc.On("PRsByRisk", mock.Anything, "ws", "repo", entities.RiskRed).
		Return([]entities.StoredPullRequest{{PRID: 9}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/repos/ws/repo/prs/risk/red", nil)
	resp, err := newTestApp(uc).Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetPullRequestNotFound(t *testing.T) {
	uc := &ucMock{}
	uc.On("PullRequest", mock.Anything, "ws", "repo", 42).Return(nil, entities.ErrPRNotFound)

	req := httptest.NewRequest(http.MethodGet, "/repos/ws/repo/prs/42", nil)
	resp, err := newTestApp(uc).Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
