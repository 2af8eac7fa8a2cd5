// Command playctl runs snippets through the playground pipeline locally,
// without the HTTP server or the rate limiter.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errRunFailed makes playctl exit 1 after the explanation was printed.
var errRunFailed = errors.New("run failed")

var rootCmd = &cobra.Command{
	Use:   "playctl",
	Short: "Run Python snippets the way the playground does",
	Long: `playctl runs a Python snippet with the same runner, output shaping and
Turkish error explanations as the playground server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newRunCmd(), newExplainCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
