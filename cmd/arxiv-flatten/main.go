// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-flatten CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-flatten/internal/expand"
	"github.com/pdiddy/arxiv-flatten/internal/source"
	"github.com/pdiddy/arxiv-flatten/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout = 60 * time.Second

	// configName is the config file stem looked up in . and ~/.config/arxiv-flatten.
	configName = "arxiv-flatten"
)

// rootCmd is the base command for the arxiv-flatten CLI.
var rootCmd = &cobra.Command{
	Use:   "arxiv-flatten",
	Short: "Flatten an arXiv paper's LaTeX source into one file",
	Long: `arxiv-flatten downloads the LaTeX source of an arXiv paper, picks its
main file, and inlines every \input and \include with latexpand, producing a
single self-contained <id>_expanded.tex.

Settings are read from flags, ARXIV_FLATTEN_* environment variables, and
./arxiv-flatten.yaml or ~/.config/arxiv-flatten/arxiv-flatten.yaml.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./arxiv-flatten.yaml or ~/.config/arxiv-flatten/arxiv-flatten.yaml)")
	pf.Duration("timeout", defaultTimeout, "HTTP request timeout")
	pf.String("user-agent", source.DefaultUserAgent, "User-Agent sent to arXiv")
	pf.Int("retries", 0, "retries for HTTP 429 responses (0 = single attempt)")
	pf.String("catalog", string(types.CatalogAtom), "metadata backend: atom or goarxiv")
	pf.String("latexpand", expand.DefaultBinary, "latexpand binary name or path")

	bindFlag("timeout", pf.Lookup("timeout"))
	bindFlag("user_agent", pf.Lookup("user-agent"))
	bindFlag("retries", pf.Lookup("retries"))
	bindFlag("catalog", pf.Lookup("catalog"))
	bindFlag("latexpand", pf.Lookup("latexpand"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "arxiv-flatten"))
		}
	}

	viper.SetEnvPrefix("ARXIV_FLATTEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
