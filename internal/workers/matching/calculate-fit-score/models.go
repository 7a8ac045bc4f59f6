// internal/workers/matching/calculate-fit-score/models.go
package calculatefitscore

import "staffing-workers/internal/models"

type Input struct {
	RunID       string                    `json:"runId"`
	Requisition models.JobRequirement     `json:"requisition"`
	Candidates  []models.CandidateProfile `json:"candidates"`
	CVs         []models.CVRecord         `json:"cvs"`
}

type Output struct {
	RunID   string               `json:"runId"`
	Results []models.MatchResult `json:"results"`
}
