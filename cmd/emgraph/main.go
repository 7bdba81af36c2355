// Command emgraph checks and inspects eventmodel wiring files.
//
// Usage:
//
//	emgraph validate wiring.yaml
//	emgraph inspect wiring.yaml --event saved
//	emgraph snapshot wiring.yaml --db topologies.db --name main
//	emgraph list --db topologies.db
//	emgraph export --db topologies.db --name main
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := buildRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "emgraph:", err)
		os.Exit(1)
	}
}
