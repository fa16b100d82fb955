package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbrink/jif/internal/config"
	"github.com/tbrink/jif/internal/iftable"
)

var checkTable string

func init() {
	checkCmd.Flags().StringVar(&checkTable, "table", "", "Impact-factor reference spreadsheet")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and reference table",
	Long: `Validate the configuration and reference table.

Confirms the table exists, parses, and has usable journal name and
impact factor columns, and reports duplicate journal names.`,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status      string       `json:"status"`
	Table       string       `json:"table"`
	Entries     int          `json:"entries"`
	SkippedRows int          `json:"skipped_rows"`
	Threshold   int          `json:"threshold"`
	Issues      []CheckIssue `json:"issues"`
}

// CheckIssue represents a single issue found during check.
type CheckIssue struct {
	Type   string   `json:"type"`
	Names  []string `json:"names,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	tablePath := checkTable
	if tablePath == "" {
		tablePath = cfg.TablePath
	}
	if err := config.ValidateTablePath(tablePath); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := config.ValidateThreshold(cfg.FuzzyThreshold); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := config.ValidateFormat(cfg.OutputFormat); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	table := mustLoadTable(tablePath, iftable.LoadOptions{})

	var issues []CheckIssue
	for _, names := range table.Duplicates() {
		issues = append(issues, CheckIssue{
			Type:   "duplicate_journal",
			Names:  names,
			Reason: "exact lookups resolve to the first occurrence",
		})
	}
	if table.SkippedRows > 0 {
		issues = append(issues, CheckIssue{
			Type:   "skipped_rows",
			Reason: fmt.Sprintf("%d rows had no usable name or impact factor", table.SkippedRows),
		})
	}

	status := "ok"
	if len(issues) > 0 {
		status = "warnings"
	}

	if humanOutput {
		fmt.Printf("table:   %s\n", table.Source)
		fmt.Printf("entries: %d (%d rows skipped)\n", table.Len(), table.SkippedRows)
		fmt.Printf("status:  %s\n", status)
		for _, issue := range issues {
			if len(issue.Names) > 0 {
				fmt.Printf("  %s: %s (%s)\n", issue.Type, strings.Join(issue.Names, ", "), issue.Reason)
			} else {
				fmt.Printf("  %s: %s\n", issue.Type, issue.Reason)
			}
		}
		return nil
	}

	return outputJSON(CheckResult{
		Status:      status,
		Table:       table.Source,
		Entries:     table.Len(),
		SkippedRows: table.SkippedRows,
		Threshold:   cfg.FuzzyThreshold,
		Issues:      issues,
	})
}
