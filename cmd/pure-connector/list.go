// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pure-connector/internal/localdata"
	"github.com/pdiddy/pure-connector/internal/lookup"
	"github.com/pdiddy/pure-connector/pkg/types"
)

const defaultPerPage = 20

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of publications",
	Long: `List runs one Pure search and prints the resolvable results as
"#  Identifier  Title". Records without any usable identifier are skipped.
Pages are independent searches over a live index, so a record may move
between pages.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("search", "", "free-text search term (empty lists everything)")
	listCmd.Flags().Int("page", 1, "page number, starting at 1")
	listCmd.Flags().Int("per-page", defaultPerPage, "publications per page")
	listCmd.Flags().StringSlice("local-data", nil, "local data attributes to attach (comma-separated)")
	addOutputFlags(listCmd, true)

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	term, _ := cmd.Flags().GetString("search")
	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")
	requested, _ := cmd.Flags().GetStringSlice("local-data")

	engine, _, cleanup, err := newEngine(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var mappings []types.LocalDataMapping
	if len(requested) > 0 {
		if mappings, err = localDataMappings(); err != nil {
			return err
		}
	}

	results, err := engine.ListPageWithProvenance(cmd.Context(), term, page, perPage)
	if err != nil {
		return err
	}

	pubs := make([]types.Publication, len(results))
	for i, r := range results {
		pubs[i] = r.Publication
		if err := localdata.ApplyTo(&pubs[i], mappings, r.Record, requested); err != nil {
			return err
		}
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	asCSL, _ := cmd.Flags().GetBool("csl")
	switch {
	case asJSON:
		return lookup.WriteJSON(os.Stdout, pubs)
	case asYAML:
		return lookup.WriteYAML(os.Stdout, pubs)
	case asCSL:
		return lookup.WriteCSL(os.Stdout, pubs)
	}

	req, err := engine.PageRequest(term, page, perPage)
	if err != nil {
		return err
	}
	if err := lookup.WriteTable(os.Stdout, pubs, req.Offset+1); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}
