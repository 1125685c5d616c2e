// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// EngineConfig holds the deduplication thresholds. The engine receives it
// explicitly on every entry point; it never reads ambient state.
type EngineConfig struct {
	// AutoMergeThreshold is the minimum score for merging without
	// confirmation (default 80).
	AutoMergeThreshold int `json:"auto_merge_threshold" yaml:"auto_merge_threshold"`

	// ConfirmationThreshold is the minimum score for a pair to be reported
	// at all (default 50). Pairs at or above it but below
	// AutoMergeThreshold need user confirmation.
	ConfirmationThreshold int `json:"confirmation_threshold" yaml:"confirmation_threshold"`

	// MaxAutoMergeGroupSize caps how many candidates a group may have and
	// still auto-merge (default 3).
	MaxAutoMergeGroupSize int `json:"max_auto_merge_group_size" yaml:"max_auto_merge_group_size"`

	// PreferLater biases scalar-field merging toward the later record.
	PreferLater bool `json:"prefer_later" yaml:"prefer_later"`
}

// DefaultEngineConfig returns the documented default thresholds.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		AutoMergeThreshold:    80,
		ConfirmationThreshold: 50,
		MaxAutoMergeGroupSize: 3,
	}
}

// Validate rejects configurations that would silently degrade matching:
// negative thresholds, an inverted threshold pair, or a group-size cap
// below 2.
func (c EngineConfig) Validate() error {
	if c.AutoMergeThreshold < 0 {
		return fmt.Errorf("auto_merge_threshold must be non-negative, got %d", c.AutoMergeThreshold)
	}
	if c.ConfirmationThreshold < 0 {
		return fmt.Errorf("confirmation_threshold must be non-negative, got %d", c.ConfirmationThreshold)
	}
	if c.ConfirmationThreshold > c.AutoMergeThreshold {
		return fmt.Errorf("confirmation_threshold (%d) must not exceed auto_merge_threshold (%d)",
			c.ConfirmationThreshold, c.AutoMergeThreshold)
	}
	if c.MaxAutoMergeGroupSize < 2 {
		return fmt.Errorf("max_auto_merge_group_size must be at least 2, got %d", c.MaxAutoMergeGroupSize)
	}
	return nil
}
