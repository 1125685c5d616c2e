// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/contact-engine/internal/contactfile"
	"github.com/pdiddy/contact-engine/internal/merge"
	"github.com/pdiddy/contact-engine/internal/policy"
	"github.com/pdiddy/contact-engine/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <report> <group-id>",
	Short: "Preview or compute the merge of one duplicate group",
	Long: `Merge loads a saved scan report, finds the named group, and prints the
merge preview: the merged record plus each critical-field conflict and
multi-valued union. With --apply the merged record is printed as JSON for
the external mapper to write back; with --remember the decision is stored
in the pattern database for future scans.`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().Bool("prefer-later", false, "prefer the later record's value for scalar fields")
	mergeCmd.Flags().Bool("apply", false, "print the merged record as JSON")
	mergeCmd.Flags().Bool("remember", false, "remember this merge decision for similar groups")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	report, err := contactfile.ReadReport(args[0])
	if err != nil {
		return err
	}

	var group *types.DuplicateGroup
	for _, g := range report.Groups {
		if g.ID == args[1] {
			group = g
			break
		}
	}
	if group == nil {
		return fmt.Errorf("group %q not found in report %s", args[1], args[0])
	}
	if len(group.Candidates) == 0 {
		return fmt.Errorf("group %q has no candidates", args[1])
	}

	preferLater, _ := cmd.Flags().GetBool("prefer-later")
	preview := merge.GeneratePreview(group, preferLater)

	if remember, _ := cmd.Flags().GetBool("remember"); remember {
		store, err := openPatternStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := policy.Remember(store, group, types.DecisionMerge); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Decision remembered as", policy.Signature(group))
	}

	if apply, _ := cmd.Flags().GetBool("apply"); apply {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(preview.Merged)
	}

	printPreview(group, preview)
	return nil
}

func printPreview(group *types.DuplicateGroup, preview types.MergePreview) {
	fmt.Printf("Group %s (%s, score %d): %s\n",
		group.ID, group.GroupType, group.MatchScore, group.MatchReason)
	fmt.Printf("Merged: %s %s", preview.Merged.GivenName, preview.Merged.FamilyName)
	if preview.Merged.Organization != "" {
		fmt.Printf(" (%s)", preview.Merged.Organization)
	}
	fmt.Println()

	for _, ch := range preview.Changes {
		if ch.Conflict {
			fmt.Printf("  CONFLICT %-14s %s -> chose %q\n",
				ch.Field, strings.Join(ch.Values, " | "), ch.Chosen)
			continue
		}
		fmt.Printf("  union    %-14s %d value(s): %s\n",
			ch.Field, len(ch.Values), strings.Join(ch.Values, ", "))
	}
}
