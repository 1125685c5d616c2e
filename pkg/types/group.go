// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the contact-engine
// deduplication pipeline: contact records, score breakdowns, duplicate
// groups, remembered patterns, and engine configuration.
package types

import "time"

// ContactSource labels the origin of a duplicate candidate.
type ContactSource string

const (
	SourceCloud ContactSource = "cloud"
	SourceLocal ContactSource = "local"
)

// GroupType classifies how the candidates of a group relate to the sources.
type GroupType string

const (
	GroupWithinCloud   GroupType = "within_cloud"
	GroupWithinLocal   GroupType = "within_local"
	GroupAcrossSources GroupType = "across_sources"
	GroupOneToMany     GroupType = "one_to_many"
)

// UserDecision records what the user chose to do with a duplicate group.
type UserDecision string

const (
	DecisionMerge        UserDecision = "merge"
	DecisionKeepSeparate UserDecision = "keep_separate"
	DecisionSkip         UserDecision = "skip"
)

// Classification is the decision policy's verdict for a group.
type Classification string

const (
	ClassAutoMerge         Classification = "auto_merge"
	ClassNeedsConfirmation Classification = "needs_confirmation"
	ClassKeepSeparate      Classification = "keep_separate"
)

// DuplicateCandidate wraps a contact record with its source tag.
type DuplicateCandidate struct {
	Contact *ContactRecord `json:"contact" yaml:"contact"`
	Source  ContactSource  `json:"source" yaml:"source"`
}

// DuplicateGroup is a set of two or more candidates believed to describe the
// same person. Groups are created by the detector, classified and decision
// pre-filled by the policy, and consumed by the merge engine. The only
// mutation after creation is attaching UserDecision and Classification.
type DuplicateGroup struct {
	// ID is a generated identifier for referring to the group in reports.
	ID string `json:"id" yaml:"id"`

	Candidates []DuplicateCandidate `json:"candidates" yaml:"candidates"`

	// MatchScore is the confidence score of the pairing.
	MatchScore int `json:"match_score" yaml:"match_score"`

	// MatchReason is the primary reason string from the score breakdown.
	MatchReason string `json:"match_reason" yaml:"match_reason"`

	GroupType GroupType `json:"group_type" yaml:"group_type"`

	// Classification is set by the decision policy. Empty until classified.
	Classification Classification `json:"classification,omitempty" yaml:"classification,omitempty"`

	// UserDecision is set from pattern memory or explicit user input.
	// Empty means undecided.
	UserDecision UserDecision `json:"user_decision,omitempty" yaml:"user_decision,omitempty"`

	DetectedAt time.Time `json:"detected_at" yaml:"detected_at"`
}

// ShouldAutoMerge reports whether the group qualifies for merging without
// confirmation on score and size alone. The decision policy additionally
// demotes groups whose merge preview conflicts on a critical field.
func (g *DuplicateGroup) ShouldAutoMerge(cfg EngineConfig) bool {
	return g.MatchScore >= cfg.AutoMergeThreshold &&
		len(g.Candidates) <= cfg.MaxAutoMergeGroupSize
}

// ShouldPromptUser reports whether the group falls in the confirmation band.
func (g *DuplicateGroup) ShouldPromptUser(cfg EngineConfig) bool {
	return g.MatchScore >= cfg.ConfirmationThreshold &&
		g.MatchScore < cfg.AutoMergeThreshold
}

// ShouldKeepSeparate reports whether the group scores below the
// confirmation band.
func (g *DuplicateGroup) ShouldKeepSeparate(cfg EngineConfig) bool {
	return g.MatchScore < cfg.ConfirmationThreshold
}

// NeedsUserConfirmation reports whether the group still requires user input:
// it is in the confirmation band, or auto-merge eligible with no decision
// attached yet.
func (g *DuplicateGroup) NeedsUserConfirmation(cfg EngineConfig) bool {
	if g.ShouldPromptUser(cfg) {
		return true
	}
	return g.ShouldAutoMerge(cfg) && g.UserDecision == ""
}

// Records returns the contact records of the group's candidates in order.
func (g *DuplicateGroup) Records() []*ContactRecord {
	records := make([]*ContactRecord, len(g.Candidates))
	for i, c := range g.Candidates {
		records[i] = c.Contact
	}
	return records
}

// Link records a previously confirmed mapping between a cloud record and a
// local record. Linked pairs are skipped by cross-source detection.
type Link struct {
	CloudID string `json:"cloud_id" yaml:"cloud_id"`
	LocalID string `json:"local_id" yaml:"local_id"`
}

// DuplicatePattern is a remembered user decision keyed by a derived
// signature of the group's match characteristics.
type DuplicatePattern struct {
	Pattern   string       `json:"pattern" yaml:"pattern"`
	Decision  UserDecision `json:"decision" yaml:"decision"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
}

// ScanError is a recoverable error encountered during a detection pass,
// with the context it occurred in. Scan errors never abort a pass.
type ScanError struct {
	Context string `json:"context" yaml:"context"`
	Err     string `json:"error" yaml:"error"`
}

// ScanStats aggregates counts for one detection pass.
type ScanStats struct {
	ScannedCloud      int           `json:"scanned_cloud" yaml:"scanned_cloud"`
	ScannedLocal      int           `json:"scanned_local" yaml:"scanned_local"`
	GroupsFound       int           `json:"groups_found" yaml:"groups_found"`
	AutoMerge         int           `json:"auto_merge" yaml:"auto_merge"`
	NeedsConfirmation int           `json:"needs_confirmation" yaml:"needs_confirmation"`
	KeepSeparate      int           `json:"keep_separate" yaml:"keep_separate"`
	Duration          time.Duration `json:"duration" yaml:"duration"`
}

// ScanReport is the full output of a detection pass: the groups found,
// aggregate statistics, and any recoverable errors.
type ScanReport struct {
	Groups []*DuplicateGroup `json:"groups" yaml:"groups"`
	Stats  ScanStats         `json:"stats" yaml:"stats"`
	Errors []ScanError       `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// MergeChange describes one field of a merge preview: either a conflict
// (multiple distinct non-empty values observed, one chosen) or a
// non-conflicting union.
type MergeChange struct {
	Field string `json:"field" yaml:"field"`

	// Conflict is true when more than one distinct non-empty value was
	// observed for a critical field.
	Conflict bool `json:"conflict" yaml:"conflict"`

	// Values lists the distinct values observed (for conflicts) or the
	// resulting union (for multi-valued fields).
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`

	// Chosen is the value the merge selected. Empty for union changes.
	Chosen string `json:"chosen,omitempty" yaml:"chosen,omitempty"`
}

// MergePreview is the on-demand dry run of merging a group: the merged
// record plus per-field changes for review.
type MergePreview struct {
	Merged  *ContactRecord `json:"merged" yaml:"merged"`
	Changes []MergeChange  `json:"changes" yaml:"changes"`
}

// HasCriticalConflict reports whether any change in the preview is a
// conflict on a critical field.
func (p MergePreview) HasCriticalConflict() bool {
	for _, ch := range p.Changes {
		if ch.Conflict {
			return true
		}
	}
	return false
}
