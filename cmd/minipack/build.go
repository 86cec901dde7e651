// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/coderlyu/mini-webpack/internal/issue"
)

func newBuildCommand(app *App, flags *rootFlags) *cobra.Command {
	var (
		entry      string
		outputPath string
		filename   string
		traversal  string
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Bundle the entry module and its dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides := map[string]any{}
			setIfChanged(cmd, overrides, "entry", "entry", entry)
			setIfChanged(cmd, overrides, "output-path", "output.path", outputPath)
			setIfChanged(cmd, overrides, "output-filename", "output.filename", filename)
			setIfChanged(cmd, overrides, "traversal", "traversal", traversal)

			ctx := cmd.Context()
			cfg, err := app.loadConfig(ctx, flags, overrides)
			if err != nil {
				return renderError(app.stderr, err, flags.verbose)
			}
			c, err := app.newCompiler(cfg)
			if err != nil {
				return renderError(app.stderr, issue.WrapWithContext(err, "prepare build", cfg.Entry), flags.verbose)
			}
			res, err := c.Run(ctx)
			if err != nil {
				return renderError(app.stderr, issue.WrapWithContext(err, "build bundle", cfg.Entry), flags.verbose)
			}

			fmt.Fprintf(app.stdout, "%s Bundled %d modules into %s (%d bytes) in %s\n",
				SuccessStyle.Render("✓"),
				res.Mapping.Len(),
				PathStyle.Render(displayPath(cfg.Root, res.Output)),
				res.Size,
				res.Duration.Round(time.Millisecond),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&entry, "entry", "", "entry module, relative to the root")
	cmd.Flags().StringVarP(&outputPath, "output-path", "o", "", "output directory, relative to the root")
	cmd.Flags().StringVar(&filename, "output-filename", "", "bundle file name")
	cmd.Flags().StringVar(&traversal, "traversal", "", "dependency traversal: depth-first or breadth-first")
	return cmd
}

// setIfChanged records a flag value as a configuration override when the
// flag was given.
func setIfChanged(cmd *cobra.Command, overrides map[string]any, flag, key, value string) {
	if cmd.Flags().Changed(flag) {
		overrides[key] = value
	}
}

// displayPath returns p relative to root when it lies below it.
func displayPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return filepath.ToSlash(rel)
}
