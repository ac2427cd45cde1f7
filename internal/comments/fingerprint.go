// Package comments renders risk reports as PR comments and reconciles
// them against what is already posted, so a PR carries exactly one
// up-to-date annotation.
package comments

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"pr-risk-analyzer/internal/entities"
)

// Fingerprint hashes the content-bearing parts of an assessment. Two
// analyses that would render identical reports produce the same
// fingerprint; timestamps never participate so a re-analysis with an
// unchanged outcome does not re-post.
func Fingerprint(pr *entities.StoredPullRequest) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%s|%s|", pr.Risk.Score, pr.Risk.Color, pr.Risk.Version, pr.SizeCategory)
	h.Write([]byte(strings.Join(pr.Risk.Factors, "|")))
	return hex.EncodeToString(h.Sum(nil))
}
