// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package detect runs the match scorer over all record pairs within and
// across two contact sources and assembles duplicate groups. Detection is
// pure computation over in-memory data: no I/O, no shared state, safe to
// run on a background goroutine.
package detect

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/contact-engine/internal/score"
	"github.com/pdiddy/contact-engine/pkg/types"
)

// Detect scores every unordered pair within each source and every cross
// pair between them, emitting a two-candidate group for each pair at or
// above the confirmation threshold. Cross pairs already joined by an
// existing link are skipped so confirmed mappings are never re-reported.
//
// The within-source passes are O(n²); for the collection sizes this engine
// targets (hundreds to a few thousand records) a full pass completes in
// well under a second. Progress lines are written to w.
//
// No transitive clustering is performed: when A–B and B–C both qualify,
// the result is two separate pair groups.
func Detect(ctx context.Context, cloud, local []*types.ContactRecord, links []types.Link, cfg types.EngineConfig, w io.Writer) (*types.ScanReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	start := time.Now()
	report := &types.ScanReport{}
	report.Stats.ScannedCloud = len(cloud)
	report.Stats.ScannedLocal = len(local)

	linked := make(map[types.Link]struct{}, len(links))
	for _, l := range links {
		linked[l] = struct{}{}
	}

	fmt.Fprintf(w, "scanning %d cloud and %d local contacts\n", len(cloud), len(local))

	if err := withinPass(ctx, cloud, types.SourceCloud, types.GroupWithinCloud, cfg, report); err != nil {
		return report, err
	}
	if err := withinPass(ctx, local, types.SourceLocal, types.GroupWithinLocal, cfg, report); err != nil {
		return report, err
	}
	if err := acrossPass(ctx, cloud, local, linked, cfg, report); err != nil {
		return report, err
	}

	// Pass order and pair order must not show in the output.
	sortGroups(report.Groups)

	report.Stats.GroupsFound = len(report.Groups)
	report.Stats.Duration = time.Since(start)

	fmt.Fprintf(w, "found %d duplicate group(s) in %s\n",
		report.Stats.GroupsFound, report.Stats.Duration.Round(time.Millisecond))

	return report, nil
}

// withinPass visits every unordered pair of distinct records in one source
// exactly once.
func withinPass(ctx context.Context, records []*types.ContactRecord, src types.ContactSource, gt types.GroupType, cfg types.EngineConfig, report *types.ScanReport) error {
	for i := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for j := i + 1; j < len(records); j++ {
			scorePair(records[i], src, records[j], src, gt, cfg, report)
		}
	}
	return nil
}

// acrossPass visits every (cloud, local) pair, skipping pairs whose source
// keys are already linked.
func acrossPass(ctx context.Context, cloud, local []*types.ContactRecord, linked map[types.Link]struct{}, cfg types.EngineConfig, report *types.ScanReport) error {
	for _, c := range cloud {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for _, l := range local {
			if c.CloudID != "" && l.LocalID != "" {
				if _, ok := linked[types.Link{CloudID: c.CloudID, LocalID: l.LocalID}]; ok {
					continue
				}
			}
			scorePair(c, types.SourceCloud, l, types.SourceLocal, types.GroupAcrossSources, cfg, report)
		}
	}
	return nil
}

func scorePair(a *types.ContactRecord, srcA types.ContactSource, b *types.ContactRecord, srcB types.ContactSource, gt types.GroupType, cfg types.EngineConfig, report *types.ScanReport) {
	// A record with no usable fields is an input anomaly, not an error: it
	// cannot match anything and is simply skipped.
	if a == nil || b == nil {
		report.Errors = append(report.Errors, types.ScanError{
			Context: string(gt),
			Err:     "nil contact record skipped",
		})
		return
	}

	breakdown := score.Score(a, b)
	if breakdown.TotalScore < cfg.ConfirmationThreshold {
		return
	}

	report.Groups = append(report.Groups, &types.DuplicateGroup{
		ID: uuid.NewString(),
		Candidates: []types.DuplicateCandidate{
			{Contact: a, Source: srcA},
			{Contact: b, Source: srcB},
		},
		MatchScore:  breakdown.TotalScore,
		MatchReason: breakdown.PrimaryReason(),
		GroupType:   gt,
		DetectedAt:  time.Now().UTC(),
	})
}

// sortGroups orders groups by a stable key: type, then score descending,
// then the member record IDs. Group IDs are random and excluded from the
// key so repeated scans of the same input order identically.
func sortGroups(groups []*types.DuplicateGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.GroupType != b.GroupType {
			return a.GroupType < b.GroupType
		}
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		return memberKey(a) < memberKey(b)
	})
}

func memberKey(g *types.DuplicateGroup) string {
	key := ""
	for _, c := range g.Candidates {
		key += c.Contact.ID + "|"
	}
	return key
}
