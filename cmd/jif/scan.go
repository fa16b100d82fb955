package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbrink/jif/internal/config"
	"github.com/tbrink/jif/internal/iftable"
	"github.com/tbrink/jif/internal/pipeline"
	"github.com/tbrink/jif/internal/report"
)

var (
	scanTable     string
	scanOut       string
	scanFormat    string
	scanRules     string
	scanThreshold int
	scanRecursive bool
	scanDryRun    bool
	scanMaxPages  int
	scanNameCol   string
	scanIFCol     string
)

func init() {
	scanCmd.Flags().StringVar(&scanTable, "table", "", "Impact-factor reference spreadsheet (.xlsx, .csv, .tsv)")
	scanCmd.Flags().StringVar(&scanOut, "out", "jif-results.csv", "Report output path")
	scanCmd.Flags().StringVar(&scanFormat, "format", "", "Report format: csv, xlsx, jsonl (default from --out extension or config)")
	scanCmd.Flags().StringVar(&scanRules, "rules", "", "Custom resolver rule set (yaml)")
	scanCmd.Flags().IntVar(&scanThreshold, "threshold", 0, "Minimum fuzzy match score 0-100 (default from config)")
	scanCmd.Flags().BoolVar(&scanRecursive, "recursive", true, "Recurse into subdirectories")
	scanCmd.Flags().BoolVar(&scanDryRun, "dry-run", false, "Process and summarize without writing the report")
	scanCmd.Flags().IntVar(&scanMaxPages, "max-pages", 0, "Pages scanned by the body-text fallback (default 2)")
	scanCmd.Flags().StringVar(&scanNameCol, "name-column", "", "Explicit journal name column header in the table")
	scanCmd.Flags().StringVar(&scanIFCol, "if-column", "", "Explicit impact factor column header in the table")
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan <dir-or-pdf>...",
	Short: "Annotate a batch of PDFs with journal impact factors",
	Long: `Annotate a batch of PDFs with journal impact factors.

Each input is a PDF file or a directory to search for PDFs. Every file
produces one report row with the extracted journal name, the matched
impact factor and a status; unreadable or unresolvable files are flagged
for manual review, never skipped silently.

Examples:
  jif scan ./papers --table 2025-jcr.xlsx
  jif scan ./papers --out results.xlsx
  jif scan paper.pdf --table jcr.csv --threshold 90 --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

// ScanResponse is the JSON response of the scan command.
type ScanResponse struct {
	Summary pipeline.Summary  `json:"summary"`
	Report  string            `json:"report,omitempty"`
	DryRun  bool              `json:"dry_run,omitempty"`
	Results []pipeline.Result `json:"results"`
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	tablePath := scanTable
	if tablePath == "" {
		tablePath = cfg.TablePath
	}
	rulesPath := scanRules
	if rulesPath == "" {
		rulesPath = cfg.RulesPath
	}
	threshold := effectiveThreshold(cmd, scanThreshold, cfg.FuzzyThreshold)
	if err := config.ValidateThreshold(threshold); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	format, out := resolveOutput(cfg.OutputFormat, scanFormat, scanOut, cmd.Flags().Changed("out"))
	if err := config.ValidateFormat(format); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	// Reference table failures are fatal before any document is touched.
	table := mustLoadTable(tablePath, iftable.LoadOptions{
		NameColumn: scanNameCol,
		IFColumn:   scanIFCol,
	})
	rules := mustLoadRules(rulesPath)

	paths, err := pipeline.FindPDFs(args, scanRecursive)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if len(paths) == 0 {
		exitWithError(ExitError, "no PDF files found under %v", args)
	}

	proc := &pipeline.Processor{
		Table:     table,
		Rules:     rules,
		Threshold: threshold,
		MaxPages:  scanMaxPages,
	}

	var progress func(i, n int, r pipeline.Result)
	if humanOutput {
		progress = printProgress
	}
	results, summary := proc.Run(paths, progress)

	if !scanDryRun {
		if err := report.Write(out, format, results); err != nil {
			exitWithError(ExitError, "writing report: %v", err)
		}
	}

	if humanOutput {
		printSummary(summary)
		if !scanDryRun {
			fmt.Printf("\nReport written to %s\n", out)
		}
	} else {
		resp := ScanResponse{Summary: summary, Results: results, DryRun: scanDryRun}
		if !scanDryRun {
			resp.Report = out
		}
		outputJSON(resp)
	}
	return nil
}

// resolveOutput picks the report format and path. An explicit --format wins;
// otherwise an explicit --out names the format through its extension;
// otherwise the configured output_format applies and names the default file.
func resolveOutput(cfgFormat, flagFormat, out string, outSet bool) (string, string) {
	switch {
	case flagFormat != "":
		return flagFormat, out
	case outSet:
		return report.InferFormat(out), out
	case cfgFormat != "":
		return cfgFormat, "jif-results." + cfgFormat
	default:
		return report.InferFormat(out), out
	}
}

// printProgress prints one line per processed file in human mode.
func printProgress(i, n int, r pipeline.Result) {
	switch r.Status {
	case pipeline.StatusResolved:
		fmt.Printf("[%d/%d] %s\n        %s  IF %.1f (%s)\n", i, n, r.File, r.MatchedJournal, *r.ImpactFactor, r.MatchType)
	case pipeline.StatusNoIF:
		fmt.Printf("[%d/%d] %s\n        extracted %q, no table match\n", i, n, r.File, r.Journal)
	case pipeline.StatusAmbiguous:
		fmt.Printf("[%d/%d] %s\n        %q is ambiguous: %s\n", i, n, r.File, r.Journal, r.Detail)
	case pipeline.StatusReadError:
		fmt.Printf("[%d/%d] %s\n        read error: %s\n", i, n, r.File, r.Detail)
	default:
		fmt.Printf("[%d/%d] %s\n        no journal found\n", i, n, r.File)
	}
}

// printSummary prints the run statistics in human mode.
func printSummary(s pipeline.Summary) {
	fmt.Println()
	fmt.Println("Summary")
	fmt.Printf("  total:            %d\n", s.Total)
	fmt.Printf("  resolved:         %d (%s)\n", s.Resolved, s.Percent(s.Resolved))
	fmt.Printf("  no journal found: %d (%s)\n", s.NoJournal, s.Percent(s.NoJournal))
	fmt.Printf("  no IF found:      %d (%s)\n", s.NoIF, s.Percent(s.NoIF))
	fmt.Printf("  ambiguous:        %d (%s)\n", s.Ambiguous, s.Percent(s.Ambiguous))
	fmt.Printf("  read errors:      %d (%s)\n", s.ReadErrors, s.Percent(s.ReadErrors))
}
