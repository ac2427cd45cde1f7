// Package entities contains core business entities.
package entities

import "time"

// AnalysisState is the gating record persisted per PR. It carries the
// last analyzed source commit hash so redundant re-analysis of the same
// commit can be skipped.
type AnalysisState struct {
	LastSourceCommitHash string    `json:"last_source_commit_hash"`
	LastAnalyzedAt       time.Time `json:"last_analyzed_at"`
}

// DiffSummary is the denormalized diff view stored with a PR snapshot.
type DiffSummary struct {
	FilesChanged         int      `json:"files_changed"`
	LinesAdded           int      `json:"lines_added"`
	LinesRemoved         int      `json:"lines_removed"`
	LinesChanged         int      `json:"lines_changed"`
	CriticalFilesTouched bool     `json:"critical_files_touched"`
	CriticalPaths        []string `json:"critical_paths"`
	TestsTouched         bool     `json:"tests_touched"`
	TestFilesChanged     int      `json:"test_files_changed"`
	NonTestFilesChanged  int      `json:"non_test_files_changed"`
}

// StatusFlags are derived booleans stored for fast dashboard filtering.
type StatusFlags struct {
	IsHighRisk bool `json:"is_high_risk"`
	IsStale    bool `json:"is_stale"`
	// IsBlocked is reserved in the snapshot schema; nothing sets it
	// yet, so it serializes as false.
	IsBlocked bool `json:"is_blocked"`
}

// CommentTracking records the external annotation posted for a PR:
// the remote comment id, the content fingerprint of the last posted
// body, and when it was last posted.
type CommentTracking struct {
	CommentID    string     `json:"comment_id,omitempty"`
	Fingerprint  string     `json:"fingerprint,omitempty"`
	LastPostedAt *time.Time `json:"last_posted_at,omitempty"`
}

// StoredPullRequest is the persisted snapshot of a PR, one per
// workspace+repo+PR id composite key.
type StoredPullRequest struct {
	Key           string `json:"key"`
	WorkspaceUUID string `json:"workspace_uuid"`
	RepoUUID      string `json:"repo_uuid"`
	PRID          int    `json:"pr_id"`

	Title             string  `json:"title"`
	State             PRState `json:"state"`
	AuthorAccountID   string  `json:"author_account_id"`
	SourceBranch      string  `json:"source_branch"`
	DestinationBranch string  `json:"destination_branch"`

	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastAnalyzedAt time.Time  `json:"last_analyzed_at"`
	MergedAt       *time.Time `json:"merged_at,omitempty"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`

	SizeCategory SizeCategory   `json:"size_category"`
	Diff         DiffSummary    `json:"diff"`
	Risk         RiskAssessment `json:"risk"`

	Flags    StatusFlags `json:"flags"`
	AgeHours int         `json:"age_hours"`

	Comment CommentTracking `json:"comment"`
}

// TelemetryCounts are index cardinalities for one repository, cheap to
// compute without loading PR snapshots.
type TelemetryCounts struct {
	Total  int `json:"total"`
	Open   int `json:"open"`
	Red    int `json:"red"`
	Yellow int `json:"yellow"`
	Green  int `json:"green"`
}
