// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-flatten/internal/flatten"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten <arxiv-url>",
	Short: "Download a paper's source and write <id>_expanded.tex",
	Long: `Flatten accepts an arXiv abs, pdf, or html URL (or an ar5iv abs URL),
downloads the paper's source archive, selects the main TeX file, and runs
latexpand over it. The result is written to <output-dir>/<id>_expanded.tex
and its path is printed on stdout.

latexpand must be installed; its absence is reported before any download.`,
	Args: cobra.ExactArgs(1),
	RunE: runFlatten,
}

func init() {
	flattenCmd.Flags().String("output-dir", ".", "directory that receives <id>_expanded.tex")
	flattenCmd.Flags().Bool("keep-comments", true, "keep LaTeX comments in the output")
	flattenCmd.Flags().Bool("include-figures", false, "keep figure-related content in the output")

	bindFlag("output_dir", flattenCmd.Flags().Lookup("output-dir"))
	bindFlag("keep_comments", flattenCmd.Flags().Lookup("keep-comments"))
	bindFlag("include_figures", flattenCmd.Flags().Lookup("include-figures"))

	rootCmd.AddCommand(flattenCmd)
}

func runFlatten(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	f, err := flatten.New(cfg, flatten.WithProgress(os.Stderr))
	if err != nil {
		return err
	}

	out, err := f.Flatten(cmd.Context(), args[0], cfg.Expand)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
