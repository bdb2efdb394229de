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

var getCmd = &cobra.Command{
	Use:   "get <identifier>",
	Short: "Print one publication by canonical identifier",
	Long: `Get resolves a canonical identifier (a bare value such as "123", or
sourceTag_value such as "scopus_85012345" or "uuid_<uuid>") to one
publication. Only the first search window is scanned; use debug-not-found
when an identifier you expect to exist does not resolve.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	addOutputFlags(getCmd, false)
	getCmd.Flags().StringSlice("local-data", nil, "local data attributes to attach (comma-separated)")

	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	engine, _, cleanup, err := newEngine(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	requested, _ := cmd.Flags().GetStringSlice("local-data")
	var mappings []types.LocalDataMapping
	if len(requested) > 0 {
		if mappings, err = localDataMappings(); err != nil {
			return err
		}
	}

	res, err := engine.GetByIDWithProvenance(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if res == nil {
		return fmt.Errorf("publication %q not found", args[0])
	}

	pub := res.Publication
	if err := localdata.ApplyTo(&pub, mappings, res.Record, requested); err != nil {
		return err
	}

	asYAML, _ := cmd.Flags().GetBool("yaml")
	asCSL, _ := cmd.Flags().GetBool("csl")
	switch {
	case asYAML:
		return lookup.WriteYAML(os.Stdout, pub)
	case asCSL:
		return lookup.WriteCSL(os.Stdout, []types.Publication{pub})
	}
	return lookup.WriteJSON(os.Stdout, pub)
}
