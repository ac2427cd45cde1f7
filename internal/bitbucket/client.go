// Package bitbucket implements the Bitbucket Cloud v2 API surface the
// pipeline consumes: diff stats, PR details and PR comments. All calls
// go through the resilient remote caller.
package bitbucket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"pr-risk-analyzer/config"
	"pr-risk-analyzer/internal/entities"
	"pr-risk-analyzer/internal/remote"

	"go.uber.org/zap"
)

// Client talks to the Bitbucket Cloud REST API.
type Client struct {
	log    *zap.SugaredLogger
	http   *http.Client
	caller *remote.Caller
	cfg    config.BitbucketConfig
}

// New constructs a Client.
func New(log *zap.SugaredLogger, caller *remote.Caller, cfg config.BitbucketConfig) *Client {
	return &Client{
		log:    log.Named("bitbucket"),
		http:   &http.Client{},
		caller: caller,
		cfg:    cfg,
	}
}

// diffStatResponse mirrors the part of the diffstat payload we consume.
type diffStatResponse struct {
	Values []struct {
		Status       string `json:"status"`
		LinesAdded   int    `json:"lines_added"`
		LinesRemoved int    `json:"lines_removed"`
		Old          *struct {
			Path string `json:"path"`
		} `json:"old"`
		New *struct {
			Path string `json:"path"`
		} `json:"new"`
	} `json:"values"`
}

// DiffStat fetches per-file line-delta statistics for a PR. A nil
// result means the remote was unavailable; analysis should be skipped
// for this cycle, not failed.
func (c *Client) DiffStat(ctx context.Context, workspace, repo string, prID int) (*entities.DiffStat, error) {
	path := fmt.Sprintf("/2.0/repositories/%s/%s/pullrequests/%d/diffstat", workspace, repo, prID)

	raw, ok := remote.Do(ctx, c.caller, "fetchDiffStat", func(ctx context.Context) (diffStatResponse, error) {
		var out diffStatResponse
		err := c.getJSON(ctx, path, &out)
		return out, err
	})
	if !ok {
		return nil, entities.ErrRemoteUnavailable
	}

	stat := &entities.DiffStat{Files: make([]entities.FileChange, 0, len(raw.Values))}
	for _, v := range raw.Values {
		change := entities.FileChange{
			Status:       normalizeFileStatus(v.Status),
			LinesAdded:   v.LinesAdded,
			LinesRemoved: v.LinesRemoved,
		}
		switch {
		case v.New != nil:
			change.Path = v.New.Path
		case v.Old != nil:
			change.Path = v.Old.Path
		default:
			change.Path = "unknown"
		}
		if change.Status == entities.FileRenamed && v.Old != nil {
			change.PreviousPath = v.Old.Path
		}
		stat.TotalLinesAdded += v.LinesAdded
		stat.TotalLinesRemoved += v.LinesRemoved
		stat.Files = append(stat.Files, change)
	}
	return stat, nil
}

// PRTitle fetches the canonical title of a PR. Best-effort enrichment:
// a failure returns ErrRemoteUnavailable and the caller keeps going.
func (c *Client) PRTitle(ctx context.Context, workspace, repo string, prID int) (string, error) {
	path := fmt.Sprintf("/2.0/repositories/%s/%s/pullrequests/%d", workspace, repo, prID)

	title, ok := remote.Do(ctx, c.caller, "fetchPRDetails", func(ctx context.Context) (string, error) {
		var out struct {
			Title string `json:"title"`
		}
		if err := c.getJSON(ctx, path, &out); err != nil {
			return "", err
		}
		return out.Title, nil
	})
	if !ok {
		return "", entities.ErrRemoteUnavailable
	}
	return title, nil
}

// CreateComment posts a new comment on a PR and returns its id.
func (c *Client) CreateComment(ctx context.Context, workspace, repo string, prID int, content string) (string, error) {
	path := fmt.Sprintf("/2.0/repositories/%s/%s/pullrequests/%d/comments", workspace, repo, prID)
	body := commentBody(content)

	id, ok := remote.Do(ctx, c.caller, "createComment", func(ctx context.Context) (string, error) {
		var out struct {
			ID json.Number `json:"id"`
		}
		if err := c.doJSON(ctx, http.MethodPost, path, body, &out, nil); err != nil {
			return "", err
		}
		return out.ID.String(), nil
	})
	if !ok {
		return "", entities.ErrRemoteUnavailable
	}
	c.log.Infow("comment created", "pr_id", prID, "comment_id", id)
	return id, nil
}

// UpdateComment rewrites an existing comment. Returns
// entities.ErrCommentNotFound when the comment was deleted out-of-band
// so the caller can fall back to creating a fresh one.
func (c *Client) UpdateComment(ctx context.Context, workspace, repo string, prID int, commentID, content string) error {
	path := fmt.Sprintf("/2.0/repositories/%s/%s/pullrequests/%d/comments/%s", workspace, repo, prID, commentID)
	body := commentBody(content)

	notFound, ok := remote.Do(ctx, c.caller, "updateComment", func(ctx context.Context) (bool, error) {
		var missing bool
		err := c.doJSON(ctx, http.MethodPut, path, body, nil, &missing)
		return missing, err
	})
	if !ok {
		return entities.ErrRemoteUnavailable
	}
	if notFound {
		c.log.Warnw("comment deleted out-of-band", "pr_id", prID, "comment_id", commentID)
		return entities.ErrCommentNotFound
	}
	c.log.Infow("comment updated", "pr_id", prID, "comment_id", commentID)
	return nil
}

func commentBody(content string) []byte {
	payload := map[string]any{
		"content": map[string]string{"raw": content},
	}
	body, _ := json.Marshal(payload)
	return body
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out, nil)
}

// doJSON performs one HTTP attempt. Non-2xx responses become
// *remote.HTTPError so the caller can classify them; a 404 is reported
// through missingOut when the caller opts into tolerating it.
func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, out any, missingOut *bool) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Username != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.AppPassword)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if missingOut != nil && resp.StatusCode == http.StatusNotFound {
		*missingOut = true
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &remote.HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func normalizeFileStatus(s string) entities.FileStatus {
	switch entities.FileStatus(s) {
	case entities.FileAdded, entities.FileModified, entities.FileRemoved, entities.FileRenamed:
		return entities.FileStatus(s)
	default:
		return entities.FileUnknown
	}
}
