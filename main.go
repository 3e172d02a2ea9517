// Command arpshieldd is a hardened ARP/RARP/ACD engine for Ethernet links.
package main

import (
	"fmt"
	"os"

	"go.arpshield.dev/arpshield/cmd/arpshieldd"
)

func main() {
	if err := arpshieldd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
