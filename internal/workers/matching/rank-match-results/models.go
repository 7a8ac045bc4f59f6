// internal/workers/matching/rank-match-results/models.go
package rankmatchresults

import "staffing-workers/internal/models"

type Input struct {
	RunID   string               `json:"runId"`
	Results []models.MatchResult `json:"results"`
}

type Output struct {
	RunID   string               `json:"runId"`
	Results []models.MatchResult `json:"results"`
	Total   int                  `json:"total"`
}
