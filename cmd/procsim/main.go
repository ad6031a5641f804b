// Command procsim runs the out-of-order pipeline simulator against an
// instruction trace.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/procsim/cmd/procsim/cmd"
)

func main() {
	cmd.Execute()

	// Run the registered exit handlers (CSV trace flush, recorder flush);
	// they do not run when main simply returns.
	atexit.Exit(0)
}
