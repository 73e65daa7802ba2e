// Command starter runs and inspects the starter application.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	starterrors "github.com/vango-dev/starter/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var se *starterrors.StarterError
		if errors.As(err, &se) {
			fmt.Fprintln(os.Stderr, se.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dir string

	rootCmd := &cobra.Command{
		Use:   "starter",
		Short: "A server-driven single-page app starter",
		Long: `starter serves a small single-page application whose routing, state
and rendering live on the server. A thin browser client forwards
navigation and clicks over a WebSocket.

Configuration is read from starter.json in the project directory and
may be overridden with STARTER_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&dir, "dir", "C", ".", "Project directory containing starter.json")

	rootCmd.AddCommand(
		serveCmd(&dir),
		routesCmd(),
		matchCmd(),
		deployCmd(&dir),
		initCmd(&dir),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
