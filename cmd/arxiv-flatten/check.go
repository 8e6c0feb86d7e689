// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-flatten/internal/expand"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that latexpand is installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		tool := expand.NewLatexpand(loadConfig().Latexpand)
		if err := tool.Available(); err != nil {
			return err
		}
		fmt.Printf("%s: ok\n", tool.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
