// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/coderlyu/mini-webpack/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	dir        string
	logLevel   string
	logFormat  string
	verbose    bool
}

func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "minipack",
		Short: "A minimal JavaScript module bundler",
		Long: TitleStyle.Render("minipack") + SubtitleStyle.Render(" - A minimal JavaScript module bundler") + `

minipack follows every require() and import from an entry module, runs the
configured loaders over each file, rewrites module syntax to a small runtime
and writes a single bundle.

Configuration is read from minipack.config.{cue,toml,yaml,yml,json} in the
working directory, or from the file given with --config.

` + SubtitleStyle.Render("Examples:") + `
  minipack build                    Bundle ./src/index.js into dist/bundle.js
  minipack build --entry ./app.js   Bundle another entry module
  minipack deps                     Print the dependency tree
  minipack config show              Show the resolved configuration`,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default is minipack.config.* in the working directory)")
	pf.StringVarP(&flags.dir, "dir", "C", "", "run as if started in this directory")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: text, json, logfmt")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "show full error chains")

	root.AddCommand(
		newBuildCommand(app, flags),
		newDepsCommand(app, flags),
		newConfigCommand(app, flags),
		newLoadersCommand(app),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the command's exit code.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// handleError prints errors that were not already rendered by a command.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Rendered {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
