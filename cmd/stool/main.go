// Command stool runs the save-state backup engine for a single game: it
// loads the main and per-game configuration, wires the archive codec and
// progress sink, and starts the engine until interrupted.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stool",
		Short: "Per-game save-state backup engine",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newListCmd())
	return root
}
