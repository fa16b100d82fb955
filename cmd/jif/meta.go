package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbrink/jif/internal/pdfmeta"
	"github.com/tbrink/jif/internal/resolver"
)

func init() {
	rootCmd.AddCommand(metaCmd)
}

var metaCmd = &cobra.Command{
	Use:   "meta <file.pdf>",
	Short: "Show a PDF's embedded metadata and the extracted candidate",
	Long: `Show a PDF's embedded document metadata and what the resolver
extracts from it. Intended for triaging files the scan could not resolve.`,
	Args: cobra.ExactArgs(1),
	RunE: runMeta,
}

// MetaResponse is the JSON response of the meta command.
type MetaResponse struct {
	File      string          `json:"file"`
	Info      pdfmeta.DocInfo `json:"info"`
	Candidate string          `json:"candidate,omitempty"`
	Rule      string          `json:"rule,omitempty"`
}

func runMeta(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	path := args[0]

	info, err := pdfmeta.ReadInfo(path)
	if err != nil {
		exitWithError(ExitError, "reading metadata: %v", err)
	}

	rules := mustLoadRules(cfg.RulesPath)
	candidate, rule, ok := rules.Resolve(info.Subject)
	if !ok {
		if text, terr := pdfmeta.FirstPagesText(path, pdfmeta.DefaultMaxPages); terr == nil {
			candidate, rule, ok = resolver.ResolveText(text)
		}
	}

	if !humanOutput {
		resp := MetaResponse{File: path, Info: info}
		if ok {
			resp.Candidate = candidate
			resp.Rule = rule
		}
		return outputJSON(resp)
	}

	fmt.Printf("%s\n", path)
	printField("Title", info.Title)
	printField("Author", info.Author)
	printField("Subject", info.Subject)
	printField("Keywords", info.Keywords)
	printField("Creator", info.Creator)
	printField("Producer", info.Producer)
	if ok {
		fmt.Printf("\ncandidate: %q (rule %s)\n", candidate, rule)
	} else {
		fmt.Printf("\nno journal name candidate\n")
	}
	return nil
}

func printField(name, value string) {
	if value == "" {
		value = "(absent)"
	}
	fmt.Printf("  %-9s %s\n", name+":", value)
}
