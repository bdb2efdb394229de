// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pure-connector/internal/lookup"
)

var debugAuthorsCmd = &cobra.Command{
	Use:   "debug-authors [term]",
	Short: "Show which author containers sampled records carry",
	Long: `Debug-authors fetches an unfiltered sample of research outputs and
reports, for the records whose identifier or title contains term, which
author containers they carry and which author shape the connector uses.
Without a matching record the first one is reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		var term string
		if len(args) > 0 {
			term = args[0]
		}
		report, err := engine.DebugAuthors(cmd.Context(), term)
		if err != nil {
			return err
		}
		return lookup.WriteJSON(os.Stdout, report)
	},
}

var debugNotFoundCmd = &cobra.Command{
	Use:   "debug-not-found <identifier>",
	Short: "Explain why an identifier does not resolve",
	Long: `Debug-not-found searches for the full identifier and for its value part,
lists the identifiers the connector synthesizes for what comes back, and
retries the regular lookup.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		report, err := engine.DebugNotFound(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return lookup.WriteJSON(os.Stdout, report)
	},
}

func init() {
	rootCmd.AddCommand(debugAuthorsCmd)
	rootCmd.AddCommand(debugNotFoundCmd)
}
