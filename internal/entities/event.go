// Package entities contains core business entities.
package entities

import "time"

// EventKind enumerates supported pull request webhook event kinds.
type EventKind string

const (
	// EventCreated marks a newly opened PR.
	EventCreated EventKind = "created"
	// EventUpdated marks a PR update (new commits, metadata edits).
	EventUpdated EventKind = "updated"
	// EventMerged marks a merged PR.
	EventMerged EventKind = "merged"
	// EventRejected marks a declined PR.
	EventRejected EventKind = "rejected"
	// EventUnknown is any kind outside the known set.
	EventUnknown EventKind = "unknown"
)

// IsClosure reports whether the event ends the PR lifecycle.
func (k EventKind) IsClosure() bool {
	return k == EventMerged || k == EventRejected
}

// PRState enumerates PR lifecycle states.
type PRState string

const (
	// StateOpen marks PR as open.
	StateOpen PRState = "OPEN"
	// StateMerged marks PR as merged.
	StateMerged PRState = "MERGED"
	// StateDeclined marks PR as declined.
	StateDeclined PRState = "DECLINED"
	// StateUnknown is any state outside the known set.
	StateUnknown PRState = "UNKNOWN"
)

// PullRequestEvent is the normalized form of one webhook delivery.
type PullRequestEvent struct {
	Timestamp time.Time
	Kind      EventKind

	PRID  int
	Title string

	AuthorAccountID string

	RepoUUID      string
	WorkspaceUUID string

	State PRState

	SourceBranch      string
	DestinationBranch string

	SourceCommitHash string
	MergeCommitHash  string

	Reviewers []string
}

// FileStatus enumerates per-file change kinds from a diff stat.
type FileStatus string

const (
	// FileAdded marks a newly added file.
	FileAdded FileStatus = "added"
	// FileModified marks a modified file.
	FileModified FileStatus = "modified"
	// FileRemoved marks a deleted file.
	FileRemoved FileStatus = "removed"
	// FileRenamed marks a renamed file.
	FileRenamed FileStatus = "renamed"
	// FileUnknown is any status outside the known set.
	FileUnknown FileStatus = "unknown"
)

// FileChange is one file's pre-computed line-delta statistics.
type FileChange struct {
	Path         string
	Status       FileStatus
	LinesAdded   int
	LinesRemoved int
	// PreviousPath is only meaningful when Status is renamed.
	PreviousPath string
}

// IsPureRename reports a renamed file with zero line deltas.
func (f FileChange) IsPureRename() bool {
	return f.Status == FileRenamed && f.LinesAdded == 0 && f.LinesRemoved == 0
}

// DiffStat is the remote diff-stat fetch result for a PR.
type DiffStat struct {
	Files             []FileChange
	TotalLinesAdded   int
	TotalLinesRemoved int
}
