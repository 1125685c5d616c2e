// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/contact-engine/pkg/types"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Manage remembered duplicate decisions",
	Long: `Patterns manages the store of remembered user decisions. Each entry maps
a pattern signature (group type, score band, match reason, group size) to
the decision the user made last time a matching group appeared.`,
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all remembered patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPatternStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		all, err := store.List()
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println("No remembered patterns.")
			return nil
		}

		fmt.Printf("%-60s  %-14s  %s\n", "Pattern", "Decision", "Created")
		fmt.Println(strings.Repeat("-", 100))
		for _, p := range all {
			fmt.Printf("%-60s  %-14s  %s\n",
				p.Pattern, p.Decision, p.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var patternsRememberCmd = &cobra.Command{
	Use:   "remember <signature> <merge|keep_separate|skip>",
	Short: "Store a decision under a pattern signature",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		decision := types.UserDecision(args[1])
		switch decision {
		case types.DecisionMerge, types.DecisionKeepSeparate, types.DecisionSkip:
		default:
			return fmt.Errorf("unknown decision %q: use merge, keep_separate, or skip", args[1])
		}

		store, err := openPatternStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Put(args[0], decision)
	},
}

var patternsForgetCmd = &cobra.Command{
	Use:   "forget <signature>",
	Short: "Delete one remembered pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPatternStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Delete(args[0])
	},
}

var patternsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all remembered patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPatternStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "All patterns cleared.")
		return nil
	},
}

func init() {
	patternsCmd.AddCommand(patternsListCmd)
	patternsCmd.AddCommand(patternsRememberCmd)
	patternsCmd.AddCommand(patternsForgetCmd)
	patternsCmd.AddCommand(patternsClearCmd)
	rootCmd.AddCommand(patternsCmd)
}
