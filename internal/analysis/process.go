package analysis

import (
	"time"

	"pr-risk-analyzer/config"
	"pr-risk-analyzer/internal/entities"
)

// ProcessAnalyzer derives size, reviewer and timing signals. All
// methods are pure functions of their inputs and the configured
// thresholds.
type ProcessAnalyzer struct {
	cfg config.AnalysisConfig
}

// NewProcessAnalyzer constructs a ProcessAnalyzer with the given tunables.
func NewProcessAnalyzer(cfg config.AnalysisConfig) *ProcessAnalyzer {
	return &ProcessAnalyzer{cfg: cfg}
}

// SizeCategory buckets the total changed lines.
func (p *ProcessAnalyzer) SizeCategory(linesAdded, linesRemoved int) entities.SizeCategory {
	total := linesAdded + linesRemoved

	switch {
	case total < p.cfg.VerySmallMaxLines:
		return entities.SizeVerySmall
	case total < p.cfg.SmallMaxLines:
		return entities.SizeSmall
	case total < p.cfg.MediumMaxLines:
		return entities.SizeMedium
	default:
		return entities.SizeLarge
	}
}

// ReviewerStatus reports reviewer presence and count.
func (p *ProcessAnalyzer) ReviewerStatus(reviewers []string) entities.ReviewerStatus {
	return entities.ReviewerStatus{
		HasReviewers: len(reviewers) > 0,
		Count:        len(reviewers),
	}
}

// TimingSignal reports UTC weekday and off-hours placement of the
// given timestamp. The off-hours window wraps midnight when the start
// hour is greater than the end hour.
func (p *ProcessAnalyzer) TimingSignal(ts time.Time) entities.TimingSignal {
	utc := ts.UTC()
	day := int(utc.Weekday())
	hour := utc.Hour()

	weekend := day == 0 || day == 6

	var offHours bool
	if p.cfg.OffHoursStart > p.cfg.OffHoursEnd {
		offHours = hour >= p.cfg.OffHoursStart || hour < p.cfg.OffHoursEnd
	} else {
		offHours = hour >= p.cfg.OffHoursStart && hour < p.cfg.OffHoursEnd
	}

	return entities.TimingSignal{
		Weekend:  weekend,
		OffHours: offHours,
		UTCHour:  hour,
		UTCDay:   day,
	}
}
