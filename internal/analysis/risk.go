package analysis

import (
	"fmt"
	"math"
	"strings"
	"time"

	"pr-risk-analyzer/config"
	"pr-risk-analyzer/internal/entities"
)

// riskVersion tags stored assessments so historical scores can be
// told apart after algorithm changes.
const riskVersion = "v2"

// ScoringInput is everything the engine needs for one scoring pass.
type ScoringInput struct {
	Metrics      entities.DiffMetrics
	Size         entities.SizeCategory
	LinesAdded   int
	LinesRemoved int
	Reviewers    entities.ReviewerStatus
	Timing       entities.TimingSignal
	// PRAge is the time since the PR was opened; reviewer penalties are
	// skipped inside the configured grace period.
	PRAge time.Duration
}

// Engine computes the composite risk assessment. Score is a total
// function: every input maps to exactly one 0-100 score, a color and a
// non-empty factor trail.
type Engine struct {
	cfg config.AnalysisConfig
}

// NewEngine constructs a risk scoring engine with the given tunables.
func NewEngine(cfg config.AnalysisConfig) *Engine {
	return &Engine{cfg: cfg}
}

// sizeScale dampens signal penalties for smaller PRs.
var sizeScale = map[entities.SizeCategory]float64{
	entities.SizeVerySmall: 0.25,
	entities.SizeSmall:     0.5,
	entities.SizeMedium:    0.75,
	entities.SizeLarge:     1.0,
	entities.SizeUnknown:   1.0,
}

// Score combines diff metrics, size and process signals into a 0-100
// score, a risk color and a human-readable factor list.
func (e *Engine) Score(in ScoringInput) entities.RiskAssessment {
	totalLines := in.LinesAdded + in.LinesRemoved

	if in.Metrics.TotalFiles() == 0 {
		return e.assess(100, []string{"No files changed"})
	}

	// Docs-only changes short-circuit: risk is capped regardless of volume.
	if in.Metrics.DocFilesCount > 0 &&
		in.Metrics.RegularCodeFilesCount == 0 &&
		in.Metrics.TestFilesCount == 0 {
		linesRatio := capAtOne(float64(totalLines) / float64(e.cfg.MaxLinesForNormalization))
		score := 100 - int(math.Round(float64(e.cfg.DocsOnlyMaxRisk)*linesRatio))
		return e.assess(score, []string{
			fmt.Sprintf("Docs-only PR (risk capped at %d)", e.cfg.DocsOnlyMaxRisk),
		})
	}

	testsOnly := in.Metrics.TestFilesCount > 0 && in.Metrics.RegularCodeFilesCount == 0

	effectiveFiles := float64(in.Metrics.RegularCodeFilesCount) +
		float64(in.Metrics.TestFilesCount) +
		e.cfg.DocFileWeight*float64(in.Metrics.DocFilesCount) +
		e.cfg.GeneratedFileWeight*float64(in.Metrics.GeneratedFilesCount) +
		e.cfg.RenameOnlyFileWeight*float64(in.Metrics.RenameOnlyFilesCount)

	filesScore := capAtOne(effectiveFiles / float64(e.cfg.MaxFilesForNormalization))
	linesScore := capAtOne(float64(totalLines) / float64(e.cfg.MaxLinesForNormalization))

	signalsScore, signalFactors := e.signals(in)

	risk := e.cfg.FilesWeight*filesScore +
		e.cfg.LinesWeight*linesScore +
		e.cfg.SignalsWeight*signalsScore

	score := int(math.Round((1 - risk) * 100))

	factors := make([]string, 0, len(signalFactors)+4)
	factors = append(factors,
		fmt.Sprintf("Impact surface: %.2f (%.1f weighted files)", filesScore, effectiveFiles),
		fmt.Sprintf("Change volume: %.2f (%d lines)", linesScore, totalLines),
		fmt.Sprintf("Process signals: %.2f", signalsScore),
	)
	factors = append(factors, signalFactors...)

	if testsOnly {
		score += e.cfg.TestsOnlyBonus
		factors = append(factors, fmt.Sprintf("Bonus: Tests-only PR (+%d)", e.cfg.TestsOnlyBonus))
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	// Very small changes are never pushed into the red band by the
	// generic formula alone.
	if in.Size == entities.SizeVerySmall &&
		totalLines <= e.cfg.VerySmallMaxLines &&
		score < e.cfg.VerySmallFloorScore {
		score = e.cfg.VerySmallFloorScore
		factors = append(factors, fmt.Sprintf("Very small PR floor applied (%d)", e.cfg.VerySmallFloorScore))
	}

	return e.assess(score, factors)
}

// signals sums the independent process penalties, each capped on its
// own, the sum capped at 1.
func (e *Engine) signals(in ScoringInput) (float64, []string) {
	var sum float64
	factors := make([]string, 0, 4)
	scale := sizeScale[in.Size]

	if !in.Reviewers.HasReviewers {
		if in.PRAge >= e.cfg.ReviewerGracePeriod {
			sum += e.cfg.NoReviewersPenalty
			factors = append(factors, "No Reviewers")
		} else {
			factors = append(factors, "No Reviewers (grace period)")
		}
	}

	if in.Metrics.CriticalFilesCount > 0 {
		penalty := e.cfg.CriticalFilePenalty * float64(in.Metrics.CriticalFilesCount)
		if penalty > e.cfg.CriticalPenaltyCap {
			penalty = e.cfg.CriticalPenaltyCap
		}
		sum += penalty * scale
		factors = append(factors, fmt.Sprintf("Critical Files Modified: %d (%s)",
			in.Metrics.CriticalFilesCount, strings.Join(in.Metrics.CriticalPaths, ", ")))
	}

	if in.Metrics.RegularCodeFilesCount > 0 && in.Metrics.TestFilesCount == 0 {
		sum += e.cfg.NoTestsPenalty * scale
		factors = append(factors, "No Tests Detected")
	}

	if in.Timing.OffHours || in.Timing.Weekend {
		sum += e.cfg.OffHoursPenalty
		factors = append(factors, "Off-hours Submission")
	}

	return capAtOne(sum), factors
}

func (e *Engine) assess(score int, factors []string) entities.RiskAssessment {
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	color := entities.RiskGreen
	switch {
	case score < e.cfg.RedBelow:
		color = entities.RiskRed
	case score < e.cfg.YellowBelow:
		color = entities.RiskYellow
	}

	return entities.RiskAssessment{
		Score:   score,
		Color:   color,
		Factors: factors,
		Version: riskVersion,
	}
}

func capAtOne(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
