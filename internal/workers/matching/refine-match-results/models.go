// internal/workers/matching/refine-match-results/models.go
package refinematchresults

import "staffing-workers/internal/models"

// Refinements are the user-adjustable facets. All active facets compose with
// AND semantics.
type Refinements struct {
	SearchText       string `json:"searchText,omitempty"`
	MinScore         *int   `json:"minScore,omitempty"`
	HideLowScore     bool   `json:"hideLowScore,omitempty"`
	OnlyFullyMatched bool   `json:"onlyFullyMatched,omitempty"`
	Page             int    `json:"page,omitempty"`
}

type Input struct {
	RunID       string               `json:"runId"`
	Results     []models.MatchResult `json:"results"`
	Refinements *Refinements         `json:"refinements,omitempty"`
}

type Output struct {
	RunID         string               `json:"runId"`
	Results       []models.MatchResult `json:"results"`
	Page          int                  `json:"page"`
	PageSize      int                  `json:"pageSize"`
	TotalFiltered int                  `json:"totalFiltered"`
	TotalPages    int                  `json:"totalPages"`
	HasMore       bool                 `json:"hasMore"`
}
