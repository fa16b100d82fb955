package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tbrink/jif/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  jif config                        # Show all config
  jif config table                  # Get specific value
  jif config table ~/ref/jcr.xlsx   # Set value
  jif config threshold 90           # Set fuzzy match threshold

Keys:
  table      Path to the impact-factor reference spreadsheet
  rules      Path to a custom resolver rule set (yaml)
  threshold  Minimum fuzzy match score, 0-100
  format     Default report format (csv, xlsx, jsonl)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the response for config get commands.
type ConfigResponse struct {
	TablePath      string `json:"table_path,omitempty"`
	RulesPath      string `json:"rules_path,omitempty"`
	FuzzyThreshold int    `json:"fuzzy_threshold,omitempty"`
	OutputFormat   string `json:"output_format,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("table:     %s\n", cfg.TablePath)
			fmt.Printf("rules:     %s\n", cfg.RulesPath)
			fmt.Printf("threshold: %d\n", cfg.FuzzyThreshold)
			fmt.Printf("format:    %s\n", cfg.OutputFormat)
		} else {
			outputJSON(ConfigResponse{
				TablePath:      cfg.TablePath,
				RulesPath:      cfg.RulesPath,
				FuzzyThreshold: cfg.FuzzyThreshold,
				OutputFormat:   cfg.OutputFormat,
			})
		}
		return nil
	}

	key := args[0]

	// One arg: get specific value
	if len(args) == 1 {
		var value string
		switch key {
		case "table":
			value = cfg.TablePath
		case "rules":
			value = cfg.RulesPath
		case "threshold":
			value = strconv.Itoa(cfg.FuzzyThreshold)
		case "format":
			value = cfg.OutputFormat
		default:
			exitWithError(ExitError, "unknown configuration key: %s", key)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	switch key {
	case "table":
		expanded := config.ExpandTilde(value)
		if err := config.ValidateTablePath(expanded); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		cfg.TablePath = expanded
	case "rules":
		cfg.RulesPath = config.ExpandTilde(value)
	case "threshold":
		n, err := strconv.Atoi(value)
		if err != nil {
			exitWithError(ExitError, "threshold must be an integer: %s", value)
		}
		if err := config.ValidateThreshold(n); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		cfg.FuzzyThreshold = n
	case "format":
		if err := config.ValidateFormat(value); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		cfg.OutputFormat = value
	default:
		exitWithError(ExitError, "unknown configuration key: %s", key)
	}

	if err := cfg.Save(configPath); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("%s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}
