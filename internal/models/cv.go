// internal/models/cv.go
package models

import "fmt"

// CVRecord is one versioned resume artifact. A candidate may own several;
// exactly the record's level association participates in scoring.
type CVRecord struct {
	ID          string `json:"id"`
	CandidateID string `json:"candidateId"`
	Version     int    `json:"version"`
	LevelID     string `json:"levelId,omitempty"`
	FileRef     string `json:"fileRef,omitempty"`
}

// VersionLabel is the display form of the version ("v3"), which the result
// text search also matches against.
func (c CVRecord) VersionLabel() string {
	return fmt.Sprintf("v%d", c.Version)
}
