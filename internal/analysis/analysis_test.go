package analysis

import (
	"testing"
	"time"

	"pr-risk-analyzer/config"
	"pr-risk-analyzer/internal/entities"

	"github.com/stretchr/testify/require"
)

func TestDiffAnalyzerCategoriesAreExclusive(t *testing.T) {
	a := NewDiffAnalyzer(config.DefaultAnalysis())

	files := []entities.FileChange{
		{Path: "internal/core/session.go", Status: entities.FileModified, LinesAdded: 40},
		{Path: "internal/auth/token.go", Status: entities.FileAdded, LinesAdded: 25},
		{Path: "internal/auth/token.test.ts", Status: entities.FileAdded, LinesAdded: 60},
		{Path: "README.md", Status: entities.FileModified, LinesAdded: 5},
		{Path: "package-lock.json", Status: entities.FileModified, LinesAdded: 900},
		{Path: "pkg/old.go", Status: entities.FileRenamed, PreviousPath: "pkg/ancient.go"},
		{Path: "cmd/run.go", Status: entities.FileModified, LinesAdded: 10},
	}

	m := a.Analyze(files)

	require.Equal(t, 3, m.RegularCodeFilesCount)
	require.Equal(t, 1, m.TestFilesCount)
	require.Equal(t, 1, m.DocFilesCount)
	require.Equal(t, 1, m.GeneratedFilesCount)
	require.Equal(t, 1, m.RenameOnlyFilesCount)
	require.Equal(t, len(files), m.TotalFiles())

	require.Equal(t, 2, m.CriticalFilesCount)
	require.ElementsMatch(t, []string{"core", "auth"}, m.CriticalPaths)
}

func TestDiffAnalyzerCriticalKeywordDedup(t *testing.T) {
	a := NewDiffAnalyzer(config.DefaultAnalysis())

	m := a.Analyze([]entities.FileChange{
		{Path: "core/a.go", Status: entities.FileModified, LinesAdded: 1},
		{Path: "core/b.go", Status: entities.FileModified, LinesAdded: 1},
		{Path: "core/c.go", Status: entities.FileModified, LinesAdded: 1},
	})

	require.Equal(t, 3, m.CriticalFilesCount)
	require.Equal(t, []string{"core"}, m.CriticalPaths)
}

func TestDiffAnalyzerRenamedWithEditsIsRegular(t *testing.T) {
	a := NewDiffAnalyzer(config.DefaultAnalysis())

	m := a.Analyze([]entities.FileChange{
		{Path: "pkg/moved.go", Status: entities.FileRenamed, PreviousPath: "pkg/old.go", LinesAdded: 3},
	})

	require.Zero(t, m.RenameOnlyFilesCount)
	require.Equal(t, 1, m.RegularCodeFilesCount)
}

func TestDiffAnalyzerEmptyDiff(t *testing.T) {
	a := NewDiffAnalyzer(config.DefaultAnalysis())

	m := a.Analyze(nil)
	require.Zero(t, m.TotalFiles())
	require.NotNil(t, m.CriticalPaths)
	require.Empty(t, m.CriticalPaths)
}

func TestSizeCategoryBuckets(t *testing.T) {
	p := NewProcessAnalyzer(config.DefaultAnalysis())

	cases := []struct {
		added, removed int
		want           entities.SizeCategory
	}{
		{0, 0, entities.SizeVerySmall},
		{9, 0, entities.SizeVerySmall},
		{10, 0, entities.SizeSmall},
		{30, 19, entities.SizeSmall},
		{50, 0, entities.SizeMedium},
		{100, 99, entities.SizeMedium},
		{200, 0, entities.SizeLarge},
		{5000, 100, entities.SizeLarge},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, p.SizeCategory(tc.added, tc.removed), "%d+%d", tc.added, tc.removed)
	}
}

func TestTimingSignal(t *testing.T) {
	p := NewProcessAnalyzer(config.DefaultAnalysis())

	// Tuesday 14:00 UTC, business hours.
	sig := p.TimingSignal(time.Date(2025, 6, 3, 14, 0, 0, 0, time.UTC))
	require.False(t, sig.Weekend)
	require.False(t, sig.OffHours)
	require.Equal(t, 14, sig.UTCHour)

	// Saturday 22:00 UTC, both flags.
	sig = p.TimingSignal(time.Date(2025, 6, 7, 22, 0, 0, 0, time.UTC))
	require.True(t, sig.Weekend)
	require.True(t, sig.OffHours)

	// Window wraps midnight: 05:00 is off-hours, 06:00 is not.
	sig = p.TimingSignal(time.Date(2025, 6, 3, 5, 0, 0, 0, time.UTC))
	require.True(t, sig.OffHours)
	sig = p.TimingSignal(time.Date(2025, 6, 3, 6, 0, 0, 0, time.UTC))
	require.False(t, sig.OffHours)

	// Local timestamps are evaluated in UTC.
	loc := time.FixedZone("UTC+5", 5*3600)
	sig = p.TimingSignal(time.Date(2025, 6, 4, 1, 0, 0, 0, loc))
	require.Equal(t, 20, sig.UTCHour)
	require.True(t, sig.OffHours)
}

func TestReviewerStatus(t *testing.T) {
	p := NewProcessAnalyzer(config.DefaultAnalysis())

	require.Equal(t, entities.ReviewerStatus{HasReviewers: true, Count: 2}, p.ReviewerStatus([]string{"a", "b"}))
	require.Equal(t, entities.ReviewerStatus{}, p.ReviewerStatus(nil))
}

func businessHours() entities.TimingSignal {
	return entities.TimingSignal{UTCHour: 14, UTCDay: 2}
}

func TestScoreNoFiles(t *testing.T) {
	e := NewEngine(config.DefaultAnalysis())

	res := e.Score(ScoringInput{})
	require.Equal(t, 100, res.Score)
	require.Equal(t, entities.RiskGreen, res.Color)
	require.Equal(t, []string{"No files changed"}, res.Factors)
	require.Equal(t, "v2", res.Version)
}

func TestScoreDocsOnlyCapped(t *testing.T) {
	e := NewEngine(config.DefaultAnalysis())

	res := e.Score(ScoringInput{
		Metrics:    entities.DiffMetrics{DocFilesCount: 1},
		Size:       entities.SizeSmall,
		LinesAdded: 30,
		Reviewers:  entities.ReviewerStatus{HasReviewers: true, Count: 1},
		Timing:     businessHours(),
	})
	require.Equal(t, 98, res.Score)
	require.Equal(t, entities.RiskGreen, res.Color)

	// Even a huge docs rewrite never drops below the cap.
	res = e.Score(ScoringInput{
		Metrics:    entities.DiffMetrics{DocFilesCount: 4},
		Size:       entities.SizeLarge,
		LinesAdded: 2000,
		Timing:     businessHours(),
	})
	require.Equal(t, 80, res.Score)
	require.Equal(t, entities.RiskGreen, res.Color)
}

func TestScoreTestsOnlyBonus(t *testing.T) {
	e := NewEngine(config.DefaultAnalysis())

	res := e.Score(ScoringInput{
		Metrics:    entities.DiffMetrics{TestFilesCount: 3},
		Size:       entities.SizeMedium,
		LinesAdded: 60,
		Reviewers:  entities.ReviewerStatus{HasReviewers: true, Count: 1},
		Timing:     businessHours(),
		PRAge:      3 * time.Hour,
	})
	require.Equal(t, 100, res.Score)
	require.Equal(t, entities.RiskGreen, res.Color)
	require.Contains(t, res.Factors, "Bonus: Tests-only PR (+20)")
}

func TestScoreLargeCriticalNoTestsIsRed(t *testing.T) {
	e := NewEngine(config.DefaultAnalysis())

	res := e.Score(ScoringInput{
		Metrics: entities.DiffMetrics{
			RegularCodeFilesCount: 12,
			CriticalFilesCount:    2,
			CriticalPaths:         []string{"core", "auth"},
		},
		Size:         entities.SizeLarge,
		LinesAdded:   280,
		LinesRemoved: 5,
		Reviewers:    entities.ReviewerStatus{HasReviewers: true, Count: 1},
		Timing:       entities.TimingSignal{Weekend: true, OffHours: true, UTCHour: 22, UTCDay: 6},
		PRAge:        3 * time.Hour,
	})

	require.Equal(t, entities.RiskRed, res.Color)
	require.Less(t, res.Score, 50)
	require.Contains(t, res.Factors, "Critical Files Modified: 2 (core, auth)")
	require.Contains(t, res.Factors, "No Tests Detected")
	require.Contains(t, res.Factors, "Off-hours Submission")
}

func TestScoreVerySmallFloor(t *testing.T) {
	e := NewEngine(config.DefaultAnalysis())

	res := e.Score(ScoringInput{
		Metrics: entities.DiffMetrics{
			RegularCodeFilesCount: 9,
			CriticalFilesCount:    9,
			CriticalPaths:         []string{"core"},
		},
		Size:       entities.SizeVerySmall,
		LinesAdded: 9,
		Timing:     entities.TimingSignal{OffHours: true, UTCHour: 23, UTCDay: 3},
		PRAge:      3 * time.Hour,
	})

	require.Equal(t, 60, res.Score)
	require.Equal(t, entities.RiskYellow, res.Color)
	require.Contains(t, res.Factors, "Very small PR floor applied (60)")
}

func TestScoreReviewerGracePeriod(t *testing.T) {
	e := NewEngine(config.DefaultAnalysis())

	in := ScoringInput{
		Metrics:    entities.DiffMetrics{RegularCodeFilesCount: 2, TestFilesCount: 1},
		Size:       entities.SizeSmall,
		LinesAdded: 40,
		Timing:     businessHours(),
	}

	in.PRAge = 30 * time.Minute
	fresh := e.Score(in)
	require.Contains(t, fresh.Factors, "No Reviewers (grace period)")

	in.PRAge = 3 * time.Hour
	aged := e.Score(in)
	require.Contains(t, aged.Factors, "No Reviewers")
	require.Less(t, aged.Score, fresh.Score)
}

func TestScoreSignalsDampenedBySize(t *testing.T) {
	e := NewEngine(config.DefaultAnalysis())

	base := ScoringInput{
		Metrics: entities.DiffMetrics{
			RegularCodeFilesCount: 2,
			CriticalFilesCount:    1,
			CriticalPaths:         []string{"auth"},
		},
		LinesAdded: 40,
		Reviewers:  entities.ReviewerStatus{HasReviewers: true, Count: 1},
		Timing:     businessHours(),
		PRAge:      3 * time.Hour,
	}

	small := base
	small.Size = entities.SizeSmall
	large := base
	large.Size = entities.SizeLarge

	require.Greater(t, e.Score(small).Score, e.Score(large).Score)
}

func TestScoreColorsFollowThresholds(t *testing.T) {
	e := NewEngine(config.DefaultAnalysis())

	require.Equal(t, entities.RiskRed, e.assess(49, nil).Color)
	require.Equal(t, entities.RiskYellow, e.assess(50, nil).Color)
	require.Equal(t, entities.RiskYellow, e.assess(79, nil).Color)
	require.Equal(t, entities.RiskGreen, e.assess(80, nil).Color)
	require.Equal(t, entities.RiskGreen, e.assess(100, nil).Color)
}
