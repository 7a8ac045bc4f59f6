// internal/workers/infrastructure/build-match-response/models.go
package buildmatchresponse

import "staffing-workers/internal/models"

type Input struct {
	RunID         string               `json:"runId"`
	RequisitionID string               `json:"requisitionId"`
	Results       []models.MatchResult `json:"results"`
	Page          int                  `json:"page"`
	PageSize      int                  `json:"pageSize"`
	TotalFiltered int                  `json:"totalFiltered"`
	TotalPages    int                  `json:"totalPages"`
	HasMore       bool                 `json:"hasMore"`
	Excluded      map[string]int       `json:"excluded,omitempty"`
}

type Pagination struct {
	Page          int  `json:"page"`
	PageSize      int  `json:"pageSize"`
	TotalFiltered int  `json:"totalFiltered"`
	TotalPages    int  `json:"totalPages"`
	HasMore       bool `json:"hasMore"`
}

type ResponseMetadata struct {
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

type ResponsePayload struct {
	RunID         string               `json:"runId"`
	RequisitionID string               `json:"requisitionId"`
	Status        string               `json:"status"`
	Results       []models.MatchResult `json:"results"`
	Pagination    Pagination           `json:"pagination"`
	Excluded      map[string]int       `json:"excluded,omitempty"`
	Metadata      ResponseMetadata     `json:"metadata"`
}

type Output struct {
	Response ResponsePayload `json:"response"`
}
