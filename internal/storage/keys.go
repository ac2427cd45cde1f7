// Package storage persists PR snapshots, analysis gating state and the
// secondary indexes used by dashboard queries, all on top of the
// key-value repository.
package storage

import (
	"fmt"
	"strings"
)

// Index type segments used in index keys.
const (
	indexByRepo = "byRepo"
	indexOpen   = "open"
	indexRisk   = "risk"
)

// sanitizeUUID strips the curly braces Bitbucket wraps around uuids so
// keys stay stable regardless of payload formatting.
func sanitizeUUID(uuid string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(uuid)
}

// PRKey builds the primary snapshot key for one PR.
func PRKey(workspaceUUID, repoUUID string, prID int) string {
	return fmt.Sprintf("PR:%s:%s:%d", sanitizeUUID(workspaceUUID), sanitizeUUID(repoUUID), prID)
}

// AnalysisKey builds the gating-state key for one PR.
func AnalysisKey(repoUUID string, prID int) string {
	return fmt.Sprintf("pr-analysis:%s:%d", sanitizeUUID(repoUUID), prID)
}

// IndexKey builds a secondary index key. Extra segments (the risk
// color) are appended after the repo uuid.
func IndexKey(indexType, workspaceUUID, repoUUID string, extra ...string) string {
	key := fmt.Sprintf("PR_INDEX:%s:%s:%s", indexType, sanitizeUUID(workspaceUUID), sanitizeUUID(repoUUID))
	for _, seg := range extra {
		key += ":" + seg
	}
	return key
}
