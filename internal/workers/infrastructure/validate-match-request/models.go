// internal/workers/infrastructure/validate-match-request/models.go
package validatematchrequest

type Input struct {
	RequisitionID string                 `json:"requisitionId"`
	Refinements   map[string]interface{} `json:"refinements,omitempty"`
}

type Output struct {
	Valid         bool                   `json:"valid"`
	RunID         string                 `json:"runId"`
	RequisitionID string                 `json:"requisitionId"`
	Refinements   map[string]interface{} `json:"refinements,omitempty"`
}
