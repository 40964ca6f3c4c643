// Command smqctl drives the stochastic multiqueue experiment harness: it
// runs sweeps of the simulation, writes their .dat tables to disk, and can
// serve those tables over HTTP for inspection.
package main

import "github.com/jthornber/smq/cmd/smqctl/cmd"

func main() {
	cmd.Execute()
}
