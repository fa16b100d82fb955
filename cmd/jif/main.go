// Package main provides the jif CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tbrink/jif/internal/config"
	"github.com/tbrink/jif/internal/iftable"
	"github.com/tbrink/jif/internal/resolver"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath overrides the default config file location
var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jif",
	Short: "Annotate scholarly PDFs with journal impact factors",
	Long: `jif looks up journal impact factors for scholarly PDFs, offline.

For each PDF it reads the embedded subjects metadata, extracts a journal
name candidate with ordered pattern rules, and matches it against a
local impact-factor reference spreadsheet. Files it cannot resolve are
flagged in the report for manual review rather than guessed at.

All commands output JSON by default; pass --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/jif/config.yml)")
	rootCmd.Version = Version

	_ = godotenv.Load()
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.LoadCached(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustLoadTable loads the reference table, exits on error. A broken
// table aborts before any document is processed.
func mustLoadTable(path string, opts iftable.LoadOptions) *iftable.Table {
	if path == "" {
		exitWithError(ExitConfigError, "no reference table configured\n\nSet table_path in %s or pass --table.", config.Path())
	}
	table, err := iftable.Load(config.ExpandTilde(path), opts)
	if err != nil {
		exitWithError(ExitDataError, "loading reference table: %v", err)
	}
	return table
}

// effectiveThreshold returns the flag value when --threshold was given on
// the command line, else the configured one. Zero is a valid explicit value.
func effectiveThreshold(cmd *cobra.Command, flagVal, cfgVal int) int {
	if cmd.Flags().Changed("threshold") {
		return flagVal
	}
	return cfgVal
}

// mustLoadRules returns the resolver rule set: a custom yaml set when
// configured, the built-ins otherwise.
func mustLoadRules(path string) *resolver.RuleSet {
	if path == "" {
		return resolver.Default()
	}
	rules, err := resolver.LoadRules(config.ExpandTilde(path))
	if err != nil {
		exitWithError(ExitConfigError, "loading rules: %v", err)
	}
	return rules
}
