package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of arxiv-flatten",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("arxiv-flatten %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
