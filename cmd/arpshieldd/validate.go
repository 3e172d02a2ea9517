package arpshieldd

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.arpshield.dev/arpshield/internal/config"
)

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Validate a configuration file without starting the engine",
	Long: `Validate parses and checks a configuration document the same way serve
does, reporting the first structural error found, without opening any
sockets.

Examples:
  arpshieldd validate-config -c config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidateConfig(configFile)
	},
}

func runValidateConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		exitWithError(fmt.Sprintf("invalid config %s", path), err)
		return nil
	}

	if _, err := cfg.ToEngineConfig(); err != nil {
		exitWithError(fmt.Sprintf("invalid config %s", path), err)
		return nil
	}

	fmt.Printf("VALID: %d interface(s), %d reverse-map entr(y/ies)\n", len(cfg.Interfaces), len(cfg.ReverseMap))
	return nil
}
