// Package arpshieldd implements arpshieldd's CLI using cobra.
package arpshieldd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "arpshieldd",
	Short: "A hardened ARP/RARP/ACD engine for one or more Ethernet links",
	Long: `arpshieldd resolves and defends addresses on the interfaces it is
given: RFC 826 ARP resolution with cache/negative-cache/flood-control
protections against spoofed or storm traffic, RFC 5227 address conflict
detection for locally-owned addresses, and RFC 903-style RARP replies from
a static reverse table.`,
	Version: "0.1.0",
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/arpshieldd/config.yaml",
		"configuration file path")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
