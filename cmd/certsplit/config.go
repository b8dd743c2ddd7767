// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/certsplit/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved split settings as YAML",
	Long: `Config shows the settings split would run with after merging flags,
CERTSPLIT_* environment variables, and the config file. It accepts the same
flags as split.`,
	PreRunE: bindRunFlags,
	RunE:    runConfig,
}

// resolvedConfig is the YAML view printed by the config command.
type resolvedConfig struct {
	types.SplitConfig `yaml:",inline"`
	IndexDB           string `yaml:"index_db"`
	Report            string `yaml:"report"`
	ConfigFile        string `yaml:"config_file,omitempty"`
}

func init() {
	addRunFlags(configCmd.Flags())
	configCmd.Flags().String("report", "", "XLSX run report path")

	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(resolvedConfig{
		SplitConfig: splitConfig(),
		IndexDB:     viper.GetString("index_db"),
		Report:      viper.GetString("report"),
		ConfigFile:  viper.ConfigFileUsed(),
	})
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
