// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package policy classifies duplicate groups and pre-fills decisions from
// pattern memory. It performs no merging itself; merge previews are
// computed only to detect critical-field conflicts.
package policy

import (
	"fmt"

	"github.com/pdiddy/contact-engine/internal/merge"
	"github.com/pdiddy/contact-engine/internal/patterns"
	"github.com/pdiddy/contact-engine/pkg/types"
)

// Signature derives the pattern key for a group: group type, score rounded
// down to the nearest 10, primary match reason, and candidate count. Groups
// with the same signature tend to deserve the same decision, which is what
// pattern memory exploits.
func Signature(g *types.DuplicateGroup) string {
	return fmt.Sprintf("%s|%d|%s|%d",
		g.GroupType, g.MatchScore/10*10, g.MatchReason, len(g.Candidates))
}

// Classify sets each group's Classification and applies remembered
// decisions from the store. Auto-merge eligible groups whose merge preview
// conflicts on a critical field (given name, family name, organization) are
// demoted to needs-confirmation regardless of score.
//
// A nil store disables pattern pre-filling. Store read failures are
// recorded on the report and never abort classification: the scan simply
// proceeds without memory for that group.
func Classify(report *types.ScanReport, store patterns.Store, cfg types.EngineConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}

	report.Stats.AutoMerge = 0
	report.Stats.NeedsConfirmation = 0
	report.Stats.KeepSeparate = 0

	for _, g := range report.Groups {
		g.Classification = classifyGroup(g, cfg)

		switch g.Classification {
		case types.ClassAutoMerge:
			report.Stats.AutoMerge++
		case types.ClassNeedsConfirmation:
			report.Stats.NeedsConfirmation++
		case types.ClassKeepSeparate:
			report.Stats.KeepSeparate++
		}

		if store == nil || g.UserDecision != "" {
			continue
		}
		sig := Signature(g)
		decision, ok, err := store.Get(sig)
		if err != nil {
			report.Errors = append(report.Errors, types.ScanError{
				Context: fmt.Sprintf("pattern lookup %q", sig),
				Err:     err.Error(),
			})
			continue
		}
		if ok {
			g.UserDecision = decision
		}
	}
	return nil
}

func classifyGroup(g *types.DuplicateGroup, cfg types.EngineConfig) types.Classification {
	if g.ShouldKeepSeparate(cfg) {
		return types.ClassKeepSeparate
	}
	if g.ShouldAutoMerge(cfg) {
		preview := merge.GeneratePreview(g, cfg.PreferLater)
		if preview.HasCriticalConflict() {
			return types.ClassNeedsConfirmation
		}
		return types.ClassAutoMerge
	}
	// Confirmation band, or above the auto threshold but too large a group.
	return types.ClassNeedsConfirmation
}

// Remember stores the group's decision under its derived signature so
// future scans can pre-fill it.
func Remember(store patterns.Store, g *types.DuplicateGroup, decision types.UserDecision) error {
	if err := store.Put(Signature(g), decision); err != nil {
		return fmt.Errorf("remembering decision: %w", err)
	}
	return nil
}
