// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the Pure API is reachable with the configured key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cfg, cleanup, err := newEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := engine.CheckConnection(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Connected to %s\n", cfg.APIURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
