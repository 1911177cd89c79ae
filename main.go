// Command sahayak is the command-line client for the Sahayak
// teaching-assistant server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sahayak-app/sahayak/cmd"
)

func main() {
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
