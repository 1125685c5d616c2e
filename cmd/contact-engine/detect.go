// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/contact-engine/internal/contactfile"
	"github.com/pdiddy/contact-engine/internal/detect"
	"github.com/pdiddy/contact-engine/internal/patterns"
	"github.com/pdiddy/contact-engine/internal/policy"
	"github.com/pdiddy/contact-engine/pkg/types"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Scan contact files for duplicate groups",
	Long: `Detect scores every contact pair within and across the given sources,
assembles duplicate groups above the confirmation threshold, classifies
each group (auto-merge, needs confirmation, keep separate), and pre-fills
decisions remembered from earlier runs.

Pairs already joined by an entry in the links file are skipped.`,
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().String("cloud", "", "cloud contact file (YAML or JSON)")
	detectCmd.Flags().String("local", "", "local contact file (YAML or JSON)")
	detectCmd.Flags().String("links", "", "file of previously confirmed cloud/local links")
	detectCmd.Flags().String("out", "", "write the full report to this file (YAML or JSON by extension)")
	detectCmd.Flags().Bool("json", false, "print the report as JSON instead of a table")
	detectCmd.Flags().Int("auto-threshold", 80, "minimum score for automatic merging")
	detectCmd.Flags().Int("confirm-threshold", 50, "minimum score for reporting a pair")
	detectCmd.Flags().Int("max-group", 3, "maximum group size eligible for automatic merging")
	detectCmd.Flags().Bool("prefer-later", false, "prefer the later record's value for scalar fields")

	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	cloudPath, _ := cmd.Flags().GetString("cloud")
	localPath, _ := cmd.Flags().GetString("local")
	if cloudPath == "" && localPath == "" {
		return fmt.Errorf("no input: provide --cloud and/or --local contact files")
	}

	cfg := engineConfig(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	var cloud, local []*types.ContactRecord
	var err error
	if cloudPath != "" {
		if cloud, err = contactfile.LoadContacts(cloudPath); err != nil {
			return err
		}
	}
	if localPath != "" {
		if local, err = contactfile.LoadContacts(localPath); err != nil {
			return err
		}
	}

	linksPath, _ := cmd.Flags().GetString("links")
	links, err := contactfile.LoadLinks(linksPath)
	if err != nil {
		return err
	}

	report, err := detect.Detect(context.Background(), cloud, local, links, cfg, os.Stderr)
	if err != nil {
		return err
	}

	store, err := openPatternStore(cmd)
	if err != nil {
		// A broken pattern store degrades the scan, it does not abort it.
		fmt.Fprintf(os.Stderr, "warning: pattern store unavailable: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	var patternStore patterns.Store
	if store != nil {
		patternStore = store
	}
	if err := policy.Classify(report, patternStore, cfg); err != nil {
		return err
	}

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		if err := contactfile.WriteReport(report, outPath); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Report written to", outPath)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return contactfile.FormatJSON(report, os.Stdout)
	}
	contactfile.FormatTable(report, os.Stdout)
	return nil
}

func openPatternStore(cmd *cobra.Command) (*patterns.SQLiteStore, error) {
	dbPath, _ := cmd.Root().PersistentFlags().GetString("patterns-db")
	return patterns.NewSQLiteStore(dbPath)
}
