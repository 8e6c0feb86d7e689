// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-flatten/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config merges defaults, the config file, ARXIV_FLATTEN_* environment
variables, and flags, and prints the result. The output is a valid config
file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(loadConfig())
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	viper.SetDefault("output_dir", ".")
	viper.SetDefault("keep_comments", true)
	viper.SetDefault("include_figures", false)

	rootCmd.AddCommand(configCmd)
}

// bindFlag binds a viper key to a flag, panicking on programmer error.
func bindFlag(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

// loadConfig builds the flatten configuration from viper.
func loadConfig() types.FlattenConfig {
	return types.FlattenConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: viper.GetString("user_agent"),
			Retries:   viper.GetInt("retries"),
		},
		Catalog:   types.CatalogBackend(viper.GetString("catalog")),
		Latexpand: viper.GetString("latexpand"),
		OutputDir: viper.GetString("output_dir"),
		Expand: types.ExpandOptions{
			KeepComments:   viper.GetBool("keep_comments"),
			IncludeFigures: viper.GetBool("include_figures"),
		},
	}
}
