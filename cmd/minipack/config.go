// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coderlyu/mini-webpack/internal/config"
)

func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect minipack configuration",
		Long: `Inspect minipack configuration.

Configuration is read from the file given with --config, or from the first of
minipack.config.cue, .toml, .yaml, .yml and .json found in the working
directory. MINIPACK_* environment variables override single settings, for
example MINIPACK_OUTPUT_PATH=build.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags, nil)
			if err != nil {
				return renderError(app.stderr, err, flags.verbose)
			}
			out, err := config.Marshal(cfg, format)
			if err != nil {
				return err
			}
			_, err = app.stdout.Write(out)
			return err
		},
	}
	showCmd.Flags().StringVar(&format, "format", config.FormatTOML, "output format: toml, json or yaml")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags, nil)
			if err != nil {
				return renderError(app.stderr, err, flags.verbose)
			}
			if cfg.File == "" {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(using defaults)"))
				return nil
			}
			fmt.Fprintln(app.stdout, cfg.File)
			return nil
		},
	}

	cfgCmd.AddCommand(showCmd, pathCmd)
	return cfgCmd
}
