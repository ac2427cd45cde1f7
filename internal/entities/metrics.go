// Package entities contains core business entities.
package entities

// DiffMetrics holds mutually exclusive file-category counts derived
// from a PR's diff stat. Every file lands in exactly one category;
// critical is a sub-tag of regular code.
type DiffMetrics struct {
	CriticalFilesCount    int      `json:"critical_files_cnt"`
	TestFilesCount        int      `json:"test_files_cnt"`
	DocFilesCount         int      `json:"doc_files_cnt"`
	GeneratedFilesCount   int      `json:"generated_files_cnt"`
	RenameOnlyFilesCount  int      `json:"rename_only_files_cnt"`
	RegularCodeFilesCount int      `json:"regular_code_files_cnt"`
	CriticalPaths         []string `json:"critical_paths"`
}

// TotalFiles sums the mutually exclusive category counters.
func (m DiffMetrics) TotalFiles() int {
	return m.TestFilesCount + m.DocFilesCount + m.GeneratedFilesCount +
		m.RenameOnlyFilesCount + m.RegularCodeFilesCount
}

// SizeCategory buckets a PR by total changed lines.
type SizeCategory string

const (
	// SizeVerySmall is under the very-small cutoff (default 10 lines).
	SizeVerySmall SizeCategory = "very_small"
	// SizeSmall is under the small cutoff (default 50 lines).
	SizeSmall SizeCategory = "small"
	// SizeMedium is under the medium cutoff (default 200 lines).
	SizeMedium SizeCategory = "medium"
	// SizeLarge is everything at or above the medium cutoff.
	SizeLarge SizeCategory = "large"
	// SizeUnknown is used when no diff stat is available.
	SizeUnknown SizeCategory = "unknown"
)

// ReviewerStatus reports reviewer presence for a PR.
type ReviewerStatus struct {
	HasReviewers bool
	Count        int
}

// TimingSignal reports when a PR event happened in UTC terms.
type TimingSignal struct {
	Weekend  bool
	OffHours bool
	UTCHour  int
	// UTCDay is the weekday number, Sunday = 0.
	UTCDay int
}
