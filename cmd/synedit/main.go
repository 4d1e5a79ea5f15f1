// Command synedit is the transport and file-I/O collaborator spec.md §6
// places outside the core: it reads source from disk, calls engine.ProcessFile
// or engine.ProcessBatch, and writes modified content back unless --dry-run
// is set. The engine itself never touches a filesystem or a socket.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load() // loads a .env file into the environment if present; absence is not an error. No flag takes its default from it.

	root := &cobra.Command{
		Use:   "synedit",
		Short: "Structured source-code transformation engine",
		Long:  "Applies a closed set of CST-verified operations to TypeScript, TSX, JavaScript, JSX and CSS sources.",
	}

	root.AddCommand(newApplyCommand(), newDiffCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
