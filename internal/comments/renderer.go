package comments

import (
	"fmt"
	"strings"

	"pr-risk-analyzer/internal/entities"
)

var colorEmoji = map[entities.RiskColor]string{
	entities.RiskGreen:  "\U0001F7E2",
	entities.RiskYellow: "\U0001F7E1",
	entities.RiskRed:    "\U0001F534",
}

// Render produces the markdown body posted as the PR's risk comment.
func Render(pr *entities.StoredPullRequest) string {
	var b strings.Builder

	emoji := colorEmoji[pr.Risk.Color]
	fmt.Fprintf(&b, "**%s Risk: %s (score %d/100)**\n\n", emoji, strings.ToUpper(string(pr.Risk.Color)), pr.Risk.Score)

	fmt.Fprintf(&b, "Size: %s, %d files changed, +%d / -%d lines\n",
		pr.SizeCategory, pr.Diff.FilesChanged, pr.Diff.LinesAdded, pr.Diff.LinesRemoved)

	if len(pr.Diff.CriticalPaths) > 0 {
		fmt.Fprintf(&b, "\nCritical paths touched:\n")
		for _, p := range pr.Diff.CriticalPaths {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
	}

	if len(pr.Risk.Factors) > 0 {
		fmt.Fprintf(&b, "\nFactors:\n")
		for _, f := range pr.Risk.Factors {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}

	if pr.Flags.IsStale {
		fmt.Fprintf(&b, "\nThis PR has been open for %d hours.\n", pr.AgeHours)
	}

	return b.String()
}
