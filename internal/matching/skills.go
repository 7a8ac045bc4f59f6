// internal/matching/skills.go
package matching

import "strings"

// Normalize folds a skill name for comparison. All skill matching in the
// engine is case-insensitive and whitespace-trimmed.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SkillDiff splits the required skill names into matched and missing against
// the candidate's skill names. Both output lists keep the required order and
// the required spelling, so matched+missing always re-assembles the
// requirement set.
func SkillDiff(required, candidate []string) (matched, missing []string) {
	have := make(map[string]bool, len(candidate))
	for _, name := range candidate {
		have[Normalize(name)] = true
	}

	matched = []string{}
	missing = []string{}
	for _, name := range required {
		if have[Normalize(name)] {
			matched = append(matched, name)
		} else {
			missing = append(missing, name)
		}
	}
	return matched, missing
}

// MissingFrom recomputes the missing-skills list as required minus matched.
// Used during reconciliation where the matched list is trusted but the
// missing list may be absent or truncated upstream.
func MissingFrom(required, matched []string) []string {
	_, missing := SkillDiff(required, matched)
	return missing
}
