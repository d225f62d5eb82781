package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"estateadmin/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configOutputDir string
	configOverwrite bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management utilities",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a config.yaml populated with the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(configOutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		filename := filepath.Join(configOutputDir, "config.yaml")
		if _, err := os.Stat(filename); err == nil && !configOverwrite {
			fmt.Printf("Skipping %s (file exists, use --overwrite to replace)\n", filename)
			return nil
		}

		data, err := yaml.Marshal(config.Default())
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		if err := os.WriteFile(filename, data, 0600); err != nil {
			return fmt.Errorf("failed to write config file %s: %w", filename, err)
		}
		fmt.Printf("Generated %s\n", filename)
		return nil
	},
}

func init() {
	configGenerateCmd.Flags().StringVar(&configOutputDir, "output", ".", "output directory for the configuration file")
	configGenerateCmd.Flags().BoolVar(&configOverwrite, "overwrite", false, "overwrite an existing file")
	configCmd.AddCommand(configGenerateCmd)
	rootCmd.AddCommand(configCmd)
}
