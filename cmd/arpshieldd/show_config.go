package arpshieldd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"go.arpshield.dev/arpshield/internal/config"
)

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Print the effective configuration after defaults and env overrides",
	Long: `Show-config loads the configuration the same way serve does, applying
defaults and ARPSHIELD_-prefixed environment overrides, and re-emits it as
YAML, so operators can see exactly what serve would run with.

Examples:
  arpshieldd show-config -c config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShowConfig(configFile)
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
}

func runShowConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	fmt.Print(string(out))
	return nil
}
