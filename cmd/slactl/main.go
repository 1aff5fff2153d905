// Command slactl generates, aggregates and exports SLA datasets offline.
package main

import (
	"fmt"
	"os"

	"github.com/stanstork/batchboard-api/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
