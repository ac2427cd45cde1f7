// Package entities contains core business entities.
package entities

// RiskColor is the coarse three-band risk classification.
type RiskColor string

const (
	// RiskGreen marks low-risk PRs (score >= green threshold).
	RiskGreen RiskColor = "green"
	// RiskYellow marks medium-risk PRs.
	RiskYellow RiskColor = "yellow"
	// RiskRed marks high-risk PRs (score below red threshold).
	RiskRed RiskColor = "red"
)

// RiskAssessment is the result of one scoring pass. It is never
// persisted standalone, only embedded in StoredPullRequest.
type RiskAssessment struct {
	Score   int       `json:"score"`
	Color   RiskColor `json:"color"`
	Factors []string  `json:"factors"`
	Version string    `json:"version"`
}
