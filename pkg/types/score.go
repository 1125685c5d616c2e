// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MatchScoreBreakdown itemizes the confidence score between two contact
// records. Each contribution is zero when its rule did not fire; penalties
// are negative. TotalScore is the sum floored at zero, with no upper cap:
// a strong pairing can exceed 100 and thresholds are lower bounds only.
type MatchScoreBreakdown struct {
	// Positive contributions.
	EmailMatch   int `json:"email_match" yaml:"email_match"`
	PhoneMatch   int `json:"phone_match" yaml:"phone_match"`
	ExactName    int `json:"exact_name" yaml:"exact_name"`
	SimilarName  int `json:"similar_name" yaml:"similar_name"`
	Organization int `json:"organization" yaml:"organization"`
	Address      int `json:"address" yaml:"address"`

	// Penalties (negative when applied).
	DomainMismatch      int `json:"domain_mismatch" yaml:"domain_mismatch"`
	ContactInfoMismatch int `json:"contact_info_mismatch" yaml:"contact_info_mismatch"`

	// TotalScore is max(0, sum of all contributions).
	TotalScore int `json:"total_score" yaml:"total_score"`

	// Reasons lists a human-readable string for every rule that contributed,
	// positively or negatively, in fixed rule order.
	Reasons []string `json:"reasons" yaml:"reasons"`
}

// PrimaryReason returns the first reason, or a generic fallback when no rule
// contributed.
func (b MatchScoreBreakdown) PrimaryReason() string {
	if len(b.Reasons) > 0 {
		return b.Reasons[0]
	}
	return "Similar contacts"
}
