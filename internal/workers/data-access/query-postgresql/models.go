// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

type Input struct {
	QueryType     string   `json:"queryType"`
	RequisitionID string   `json:"requisitionId,omitempty"`
	CandidateID   string   `json:"candidateId,omitempty"`
	CandidateIDs  []string `json:"candidateIds,omitempty"`
	SkillIDs      []string `json:"skillIds,omitempty"`
	GroupIDs      []string `json:"groupIds,omitempty"`
	LevelID       string   `json:"levelId,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"`
}
