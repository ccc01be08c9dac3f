// Command fogsim drives a vehicular fog-placement simulation and serves its
// status over HTTP, replacing the node's original single-process HTTP
// server with a cobra-structured CLI over the same router/shutdown shape.
package main

import (
	"fmt"
	"os"

	"fogsim/cmd/fogsim/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
