// internal/models/verification.go
package models

// SkillGroupVerification is the expert attestation state of one
// (candidate, skill group) pair.
type SkillGroupVerification struct {
	GroupID             string `json:"groupId"`
	IsVerified          bool   `json:"isVerified"`
	NeedsReverification bool   `json:"needsReverification"`
}

// Trusted reports whether the group may contribute to matching. A group that
// was never verified, or whose verification was invalidated, is not trusted.
func (v SkillGroupVerification) Trusted() bool {
	return v.IsVerified && !v.NeedsReverification
}
