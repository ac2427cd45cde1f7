// Package mapper converts raw webhook payloads into normalized domain
// events.
package mapper

import (
	"fmt"
	"strings"
	"time"

	"pr-risk-analyzer/internal/entities"

	"go.uber.org/zap"
)

const maxTitleLength = 500

// Normalizer validates and normalizes pull request webhook payloads.
type Normalizer struct {
	log *zap.SugaredLogger
	now func() time.Time
}

// NewNormalizer constructs a Normalizer.
func NewNormalizer(log *zap.SugaredLogger) *Normalizer {
	return &Normalizer{log: log.Named("normalizer"), now: time.Now}
}

// Normalize turns a decoded webhook body into a PullRequestEvent.
// Malformed payloads return entities.ErrInvalidEvent; the rejection is
// logged with identifying fields only, never the payload body.
func (n *Normalizer) Normalize(payload map[string]any) (*entities.PullRequestEvent, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: empty payload", entities.ErrInvalidEvent)
	}

	kind := normalizeEventKind(asString(payload["eventType"]))

	pr, ok := asMap(payload["pullrequest"])
	if !ok {
		n.rejected(kind, 0, "", "missing pullrequest object")
		return nil, fmt.Errorf("%w: missing pullrequest object", entities.ErrInvalidEvent)
	}

	prID := asInt(pr["id"])
	if prID <= 0 {
		n.rejected(kind, prID, "", "non-positive pr id")
		return nil, fmt.Errorf("%w: pr id must be positive", entities.ErrInvalidEvent)
	}

	repo, ok := asMap(payload["repository"])
	if !ok {
		n.rejected(kind, prID, "", "missing repository object")
		return nil, fmt.Errorf("%w: missing repository object", entities.ErrInvalidEvent)
	}
	repoUUID := strings.TrimSpace(asString(repo["uuid"]))
	if repoUUID == "" {
		n.rejected(kind, prID, "", "missing repository uuid")
		return nil, fmt.Errorf("%w: missing repository uuid", entities.ErrInvalidEvent)
	}

	title, hasTitle := pr["title"]
	titleStr := strings.TrimSpace(asString(title))
	if hasTitle && (titleStr == "" || len(titleStr) > maxTitleLength) {
		n.rejected(kind, prID, repoUUID, "title out of bounds")
		return nil, fmt.Errorf("%w: title must be 1-%d characters", entities.ErrInvalidEvent, maxTitleLength)
	}

	actor, _ := asMap(payload["actor"])
	accountID := strings.TrimSpace(asString(actor["accountId"]))
	if accountID == "" {
		n.rejected(kind, prID, repoUUID, "missing actor account id")
		return nil, fmt.Errorf("%w: missing actor account id", entities.ErrInvalidEvent)
	}

	event := &entities.PullRequestEvent{
		Timestamp:       n.eventTime(payload),
		Kind:            kind,
		PRID:            prID,
		Title:           titleStr,
		AuthorAccountID: accountID,
		RepoUUID:        repoUUID,
		State:           normalizeState(asString(pr["state"]), kind),
	}

	if ws, ok := asMap(repo["workspace"]); ok {
		event.WorkspaceUUID = strings.TrimSpace(asString(ws["uuid"]))
	}

	if src, ok := asMap(pr["source"]); ok {
		event.SourceBranch = branchName(src["branch"])
		if commit, ok := asMap(src["commit"]); ok {
			event.SourceCommitHash = asString(commit["hash"])
		}
	}
	if event.SourceBranch == "" {
		n.rejected(kind, prID, repoUUID, "missing source branch")
		return nil, fmt.Errorf("%w: missing source branch", entities.ErrInvalidEvent)
	}
	if dst, ok := asMap(pr["destination"]); ok {
		event.DestinationBranch = branchName(dst["branch"])
	}
	if event.DestinationBranch == "" {
		n.rejected(kind, prID, repoUUID, "missing destination branch")
		return nil, fmt.Errorf("%w: missing destination branch", entities.ErrInvalidEvent)
	}
	if mc, ok := asMap(pr["mergeCommit"]); ok {
		event.MergeCommitHash = asString(mc["hash"])
	}

	if reviewers, ok := pr["reviewers"].([]any); ok {
		for _, r := range reviewers {
			rm, ok := asMap(r)
			if !ok {
				continue
			}
			if id := strings.TrimSpace(asString(rm["accountId"])); id != "" {
				event.Reviewers = append(event.Reviewers, id)
			}
		}
	}

	return event, nil
}

func (n *Normalizer) rejected(kind entities.EventKind, prID int, repoUUID, reason string) {
	n.log.Warnw("event rejected", "kind", kind, "pr_id", prID, "repo_uuid", repoUUID, "reason", reason)
}

func (n *Normalizer) eventTime(payload map[string]any) time.Time {
	if raw := asString(payload["timestamp"]); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts
		}
	}
	return n.now()
}

// normalizeEventKind maps provider event type strings onto the
// internal kinds. Unrecognized types become EventUnknown instead of an
// error so future provider additions degrade gracefully.
func normalizeEventKind(eventType string) entities.EventKind {
	t := strings.ToLower(eventType)
	switch {
	case strings.Contains(t, "created"):
		return entities.EventCreated
	case strings.Contains(t, "updated"):
		return entities.EventUpdated
	case strings.Contains(t, "fulfilled"), strings.Contains(t, "merged"):
		return entities.EventMerged
	case strings.Contains(t, "rejected"), strings.Contains(t, "declined"):
		return entities.EventRejected
	default:
		return entities.EventUnknown
	}
}

// normalizeState prefers the payload state and falls back to what the
// event kind implies.
func normalizeState(raw string, kind entities.EventKind) entities.PRState {
	switch entities.PRState(strings.ToUpper(strings.TrimSpace(raw))) {
	case entities.StateOpen:
		return entities.StateOpen
	case entities.StateMerged:
		return entities.StateMerged
	case entities.StateDeclined:
		return entities.StateDeclined
	}

	switch kind {
	case entities.EventCreated, entities.EventUpdated:
		return entities.StateOpen
	case entities.EventMerged:
		return entities.StateMerged
	case entities.EventRejected:
		return entities.StateDeclined
	default:
		return entities.StateUnknown
	}
}

// branchName accepts both the plain-string and the object form of a
// branch reference.
func branchName(v any) string {
	if s := asString(v); s != "" {
		return s
	}
	if m, ok := asMap(v); ok {
		return asString(m["name"])
	}
	return ""
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
