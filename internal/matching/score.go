// internal/matching/score.go
package matching

import (
	"fmt"
	"math"

	"staffing-workers/internal/models"
)

// Component weights. Skills + level + work mode + location make the 100-point
// base; availability adds on top of it and is surfaced as a separate badge.
const (
	SkillsWeight      = 50
	LevelWeight       = 20
	WorkModeWeight    = 10
	LocationWeight    = 15
	AvailabilityBonus = 5

	MaxScore = SkillsWeight + LevelWeight + WorkModeWeight + LocationWeight + AvailabilityBonus
)

// ScoreInput is one (candidate, CV, requisition) pair with skill identifiers
// already resolved to display names by the catalog.
type ScoreInput struct {
	Requisition         models.JobRequirement
	RequiredSkillNames  []string
	Candidate           models.CandidateProfile
	CandidateSkillNames []string
	CV                  models.CVRecord
}

// Score computes the weighted fit for one pair. It never fails: missing
// inputs degrade to zero points for the affected criterion, so the result is
// always an integer in [0, MaxScore].
func Score(in ScoreInput) models.MatchResult {
	matched, missing := SkillDiff(in.RequiredSkillNames, in.CandidateSkillNames)

	skillPts := SkillsWeight
	if n := len(in.RequiredSkillNames); n > 0 {
		skillPts = int(math.Round(float64(SkillsWeight) * float64(len(matched)) / float64(n)))
	}

	levelMatched := in.CV.LevelID != "" && in.CV.LevelID == in.Requisition.LevelID
	levelPts := 0
	if levelMatched {
		levelPts = LevelWeight
	}

	modePts := 0
	if in.Requisition.WorkModes == models.WorkModeNone {
		modePts = WorkModeWeight
	} else if in.Candidate.WorkModes.Has(in.Requisition.WorkModes) {
		modePts = WorkModeWeight
	}

	locationPts := locationPoints(in.Requisition, in.Candidate)

	bonus := 0
	if in.Candidate.Status == models.StatusAvailable {
		bonus = AvailabilityBonus
	}

	breakdown := models.ScoreBreakdown{
		Skills:            skillPts,
		Level:             levelPts,
		WorkMode:          modePts,
		Location:          locationPts,
		AvailabilityBonus: bonus,
	}

	result := models.MatchResult{
		CVID:           in.CV.ID,
		CandidateID:    in.Candidate.ID,
		CandidateName:  in.Candidate.Name,
		CandidateEmail: in.Candidate.Email,
		CandidatePhone: in.Candidate.Phone,
		CVVersion:      in.CV.Version,
		Score:          skillPts + levelPts + modePts + locationPts + bonus,
		MatchedSkills:  matched,
		MissingSkills:  missing,
		LevelMatched:   levelMatched,
		Breakdown:      breakdown,
	}
	result.Summary = buildSummary(result, len(in.RequiredSkillNames))
	return result
}

func locationPoints(req models.JobRequirement, cand models.CandidateProfile) int {
	// Remote or hybrid requisitions are location-agnostic.
	if req.WorkModes.RemoteFriendly() {
		return LocationWeight
	}
	if req.LocationID == "" {
		return LocationWeight
	}
	if cand.LocationID != "" && cand.LocationID == req.LocationID {
		return LocationWeight
	}
	return 0
}

func buildSummary(r models.MatchResult, requiredCount int) string {
	skills := "no skill requirements"
	if requiredCount > 0 {
		skills = fmt.Sprintf("%d/%d required skills", len(r.MatchedSkills), requiredCount)
	}

	level := "level mismatch"
	if r.LevelMatched {
		level = "level match"
	}

	summary := fmt.Sprintf("%s, %s", skills, level)
	if r.Breakdown.AvailabilityBonus > 0 {
		summary += ", available now"
	}
	return summary
}

// Clamp bounds a score into the valid range. Applied to upstream-supplied
// scores during reconciliation.
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
