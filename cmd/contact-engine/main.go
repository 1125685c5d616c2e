// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the contact-engine CLI. The engine
// itself is an in-process library; the CLI feeds it contact files exported
// by external source mappers and prints or saves the resulting reports.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/contact-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the contact-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "contact-engine",
	Short: "Duplicate contact detection and merge engine",
	Long: `contact-engine finds contacts that likely describe the same person across
a cloud contact export and a local contact export, scores each candidate
pair, classifies groups for automatic or confirmed merging, and computes
deterministic merged records.

The engine never talks to a contacts service: inputs are plain contact
files written by external mappers, and outputs are scan reports.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./contact-engine.yaml or ~/.config/contact-engine/config.yaml)")
	rootCmd.PersistentFlags().String("patterns-db", "contact-engine-patterns.db", "path to the SQLite pattern store")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("contact-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "contact-engine"))
		}
	}

	viper.SetEnvPrefix("CONTACT_ENGINE")
	viper.AutomaticEnv()

	defaults := types.DefaultEngineConfig()
	viper.SetDefault("auto_merge_threshold", defaults.AutoMergeThreshold)
	viper.SetDefault("confirmation_threshold", defaults.ConfirmationThreshold)
	viper.SetDefault("max_auto_merge_group_size", defaults.MaxAutoMergeGroupSize)
	viper.SetDefault("prefer_later", defaults.PreferLater)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig builds the engine configuration from the config file and
// environment, with changed flags taking precedence. Validation happens in
// the engine entry points.
func engineConfig(cmd *cobra.Command) types.EngineConfig {
	cfg := types.EngineConfig{
		AutoMergeThreshold:    viper.GetInt("auto_merge_threshold"),
		ConfirmationThreshold: viper.GetInt("confirmation_threshold"),
		MaxAutoMergeGroupSize: viper.GetInt("max_auto_merge_group_size"),
		PreferLater:           viper.GetBool("prefer_later"),
	}
	if cmd.Flags().Changed("auto-threshold") {
		cfg.AutoMergeThreshold, _ = cmd.Flags().GetInt("auto-threshold")
	}
	if cmd.Flags().Changed("confirm-threshold") {
		cfg.ConfirmationThreshold, _ = cmd.Flags().GetInt("confirm-threshold")
	}
	if cmd.Flags().Changed("max-group") {
		cfg.MaxAutoMergeGroupSize, _ = cmd.Flags().GetInt("max-group")
	}
	if cmd.Flags().Changed("prefer-later") {
		cfg.PreferLater, _ = cmd.Flags().GetBool("prefer-later")
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
