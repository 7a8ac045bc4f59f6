// internal/models/requisition.go
package models

// WorkMode is a bitmask of the places work may happen. Flags are
// independently settable and combine freely.
type WorkMode uint8

const (
	WorkModeNone     WorkMode = 0
	WorkModeOnsite   WorkMode = 1
	WorkModeRemote   WorkMode = 2
	WorkModeHybrid   WorkMode = 4
	WorkModeFlexible WorkMode = 8
)

// Has reports whether any of the given flags are set.
func (m WorkMode) Has(flags WorkMode) bool {
	return m&flags != 0
}

// RemoteFriendly reports whether the mode allows remote or hybrid work,
// which bypasses the location requirement during scoring.
func (m WorkMode) RemoteFriendly() bool {
	return m.Has(WorkModeRemote | WorkModeHybrid)
}

// JobRequirement is the read-only snapshot of a requisition for one matching
// run. The engine never mutates it.
type JobRequirement struct {
	ID               string   `json:"id"`
	RequiredSkillIDs []string `json:"requiredSkillIds"`
	LevelID          string   `json:"levelId,omitempty"`
	WorkModes        WorkMode `json:"workModes"`
	LocationID       string   `json:"locationId,omitempty"`
}

type SeniorityLevel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
