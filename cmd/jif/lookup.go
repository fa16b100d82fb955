package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbrink/jif/internal/config"
	"github.com/tbrink/jif/internal/iftable"
)

var (
	lookupTable     string
	lookupThreshold int
)

func init() {
	lookupCmd.Flags().StringVar(&lookupTable, "table", "", "Impact-factor reference spreadsheet")
	lookupCmd.Flags().IntVar(&lookupThreshold, "threshold", 0, "Minimum fuzzy match score 0-100 (default from config)")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <journal name>",
	Short: "Look up one journal name in the reference table",
	Long: `Look up one journal name in the reference table.

Useful for checking how a name extracted from a PDF would match, or for
manually resolving files the scan flagged.

Examples:
  jif lookup "Journal of Applied Physics"
  jif lookup "Nature Comm" --threshold 80`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

// LookupResponse is the JSON response of the lookup command.
type LookupResponse struct {
	Query string        `json:"query"`
	Match iftable.Match `json:"match"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	tablePath := lookupTable
	if tablePath == "" {
		tablePath = cfg.TablePath
	}
	threshold := effectiveThreshold(cmd, lookupThreshold, cfg.FuzzyThreshold)
	if err := config.ValidateThreshold(threshold); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	table := mustLoadTable(tablePath, iftable.LoadOptions{})
	query := strings.Join(args, " ")
	match := table.Lookup(query, threshold)

	if !humanOutput {
		return outputJSON(LookupResponse{Query: query, Match: match})
	}

	switch match.Status {
	case iftable.MatchExact, iftable.MatchFuzzy:
		fmt.Printf("%s\n  IF %.1f", match.Entry.Journal, match.Entry.ImpactFactor)
		if match.Entry.Edition != "" {
			fmt.Printf(" (%s)", match.Entry.Edition)
		}
		fmt.Printf("\n  match: %s, score %d\n", match.Status, match.Score)
	case iftable.MatchAmbiguous:
		fmt.Printf("ambiguous, equally plausible:\n")
		for _, name := range match.Candidates {
			fmt.Printf("  %s\n", name)
		}
	default:
		fmt.Printf("no match for %q\n", query)
	}
	return nil
}
