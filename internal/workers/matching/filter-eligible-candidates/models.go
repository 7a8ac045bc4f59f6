// internal/workers/matching/filter-eligible-candidates/models.go
package filtereligiblecandidates

import "staffing-workers/internal/models"

// Exclusion reasons recorded per dropped candidate.
const (
	ReasonHired            = "hired"
	ReasonBlockingStatus   = "blocking_status"
	ReasonUnverifiedGroup  = "unverified_group"
	ReasonEnrichmentFailed = "enrichment_failed"
)

type Input struct {
	RunID         string                    `json:"runId"`
	RequisitionID string                    `json:"requisitionId"`
	Candidates    []models.CandidateProfile `json:"candidates"`
	CVs           []models.CVRecord         `json:"cvs"`
	Applications  []models.Application      `json:"applications"`
}

type Output struct {
	RunID         string                    `json:"runId"`
	RequisitionID string                    `json:"requisitionId"`
	Candidates    []models.CandidateProfile `json:"candidates"`
	CVs           []models.CVRecord         `json:"cvs"`
	Excluded      map[string]int            `json:"excluded"`
}
