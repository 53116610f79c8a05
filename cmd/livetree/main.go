package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/livetree/internal/config"
	"github.com/vango-dev/livetree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// options holds the global flags.
type options struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "livetree",
		Short: "A reactive view layer over a live node tree",
		Long: `livetree keeps a live node tree in sync with reactive signals.

Attributes, styles and child lists are bound to signals and updated in
place; structural changes and native events are reported as one stream.

  • demo     run a scripted todo list and print what happened
  • events   show the native event table
  • inspect  serve the demo tree and its event stream over HTTP`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to livetree.json or livetree.yaml (default: search upwards from the working directory)")

	rootCmd.AddCommand(
		demoCmd(opts),
		eventsCmd(opts),
		inspectCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration named by --config or found from the
// working directory.
func (o *options) load() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.Load(".")
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
