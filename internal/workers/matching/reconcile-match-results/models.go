// internal/workers/matching/reconcile-match-results/models.go
package reconcilematchresults

import "staffing-workers/internal/models"

type Input struct {
	RunID       string                `json:"runId"`
	Requisition models.JobRequirement `json:"requisition"`
	Results     []models.MatchResult  `json:"results"`
}

type Output struct {
	RunID     string               `json:"runId"`
	Results   []models.MatchResult `json:"results"`
	FromFeed  int                  `json:"fromFeed"`
	FromLocal int                  `json:"fromLocal"`
}
