// internal/models/candidate.go
package models

// CandidateStatus is the candidate's current lifecycle status.
type CandidateStatus string

const (
	StatusAvailable   CandidateStatus = "Available"
	StatusBusy        CandidateStatus = "Busy"
	StatusUnavailable CandidateStatus = "Unavailable"
	StatusWorking     CandidateStatus = "Working"
	StatusApplying    CandidateStatus = "Applying"
)

// Committed reports whether the candidate is already engaged elsewhere and
// must not enter matching.
func (s CandidateStatus) Committed() bool {
	return s == StatusApplying || s == StatusWorking
}

// SkillClaim is one self-reported skill on a candidate profile.
type SkillClaim struct {
	SkillID     string `json:"skillId"`
	Proficiency int    `json:"proficiency"`
	Years       int    `json:"yearsExperience"`
}

// CandidateProfile is a read-only snapshot of one candidate for a matching
// run. SkillGroupIDs are the distinct groups implied by Skills; they are
// filled during enrichment, not stored upstream.
type CandidateProfile struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Status        CandidateStatus `json:"status"`
	WorkModes     WorkMode        `json:"workModes"`
	LocationID    string          `json:"locationId,omitempty"`
	Skills        []SkillClaim    `json:"skills"`
	SkillGroupIDs []string        `json:"skillGroupIds,omitempty"`
}
