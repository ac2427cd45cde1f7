// Package analysis derives diff metrics, process signals and the risk
// assessment for a pull request.
package analysis

import (
	"strings"

	"pr-risk-analyzer/config"
	"pr-risk-analyzer/internal/entities"
)

// DiffAnalyzer classifies changed files into mutually exclusive
// categories using configured keyword lists.
type DiffAnalyzer struct {
	cfg config.AnalysisConfig
}

// NewDiffAnalyzer constructs a DiffAnalyzer with the given tunables.
func NewDiffAnalyzer(cfg config.AnalysisConfig) *DiffAnalyzer {
	return &DiffAnalyzer{cfg: cfg}
}

// Analyze buckets every file into exactly one category. Classification
// is first-match by priority: rename-only, generated, documentation,
// test, then regular code. Regular code files are additionally checked
// against the critical-path keywords; a match tags the file critical
// without removing it from the regular count.
func (a *DiffAnalyzer) Analyze(files []entities.FileChange) entities.DiffMetrics {
	metrics := entities.DiffMetrics{CriticalPaths: []string{}}
	seenKeywords := make(map[string]struct{})

	for _, file := range files {
		path := strings.ToLower(file.Path)

		switch {
		case file.IsPureRename():
			metrics.RenameOnlyFilesCount++
		case matchesAny(path, a.cfg.GeneratedKeywords):
			metrics.GeneratedFilesCount++
		case matchesAny(path, a.cfg.DocKeywords):
			metrics.DocFilesCount++
		case matchesAny(path, a.cfg.TestKeywords):
			metrics.TestFilesCount++
		default:
			metrics.RegularCodeFilesCount++
			for _, keyword := range a.cfg.CriticalKeywords {
				if strings.Contains(path, keyword) {
					metrics.CriticalFilesCount++
					if _, ok := seenKeywords[keyword]; !ok {
						seenKeywords[keyword] = struct{}{}
						metrics.CriticalPaths = append(metrics.CriticalPaths, keyword)
					}
					break
				}
			}
		}
	}

	return metrics
}

func matchesAny(path string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(path, k) {
			return true
		}
	}
	return false
}
