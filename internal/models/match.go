// internal/models/match.go
package models

// ScoreBreakdown holds the per-criterion points behind a match score.
type ScoreBreakdown struct {
	Skills            int `json:"skills"`
	Level             int `json:"level"`
	WorkMode          int `json:"workMode"`
	Location          int `json:"location"`
	AvailabilityBonus int `json:"availabilityBonus"`
}

// MatchResult is the scored outcome for one CV against one requisition.
// Candidate display fields are denormalized onto the result so the
// presentation-side text search can run over the result set alone.
// Results live in memory for one run and are discarded with it.
type MatchResult struct {
	CVID           string         `json:"cvId"`
	CandidateID    string         `json:"candidateId"`
	CandidateName  string         `json:"candidateName,omitempty"`
	CandidateEmail string         `json:"candidateEmail,omitempty"`
	CandidatePhone string         `json:"candidatePhone,omitempty"`
	CVVersion      int            `json:"cvVersion"`
	Score          int            `json:"score"`
	MatchedSkills  []string       `json:"matchedSkills"`
	MissingSkills  []string       `json:"missingSkills"`
	LevelMatched   bool           `json:"levelMatched"`
	Breakdown      ScoreBreakdown `json:"scoreBreakdown"`
	Summary        string         `json:"summary"`
}

// FullyMatched reports whether the result covers every required skill.
func (r MatchResult) FullyMatched() bool {
	return len(r.MissingSkills) == 0
}

// Application links a CV to a requisition; only the status matters here.
type Application struct {
	CVID          string `json:"cvId"`
	RequisitionID string `json:"requisitionId"`
	Status        string `json:"status"`
}

// ApplicationStatusHired marks CVs that are excluded from further matching
// on the same requisition.
const ApplicationStatusHired = "Hired"
