package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/app-estudos/estudos/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var dir string

	root := &cobra.Command{
		Use:   "estudos",
		Short: "Serve and inspect the estudos application",
		Long: `estudos serves a single-page application from a static route table.

Routes are nested under a base layout. Each view is loaded the first
time a route that needs it is visited and cached afterwards.

Configuration is read from estudos.json in the working directory,
then .env, then ESTUDOS_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&dir, "dir", "C", ".", "Directory containing estudos.json")

	root.AddCommand(
		serveCmd(&dir),
		routesCmd(&dir),
		resolveCmd(&dir),
		versionCmd(),
	)
	return root
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
