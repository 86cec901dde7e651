// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coderlyu/mini-webpack/internal/loader"
	"github.com/coderlyu/mini-webpack/internal/plugins"
)

func newLoadersCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "loaders",
		Short: "List the builtin loaders and plugins",
		Long: `List the builtin loaders and plugins.

Besides the builtin names, a rule may use a loader file below the project
root: a .js or .cjs file exporting a function of the source, evaluated in an
embedded JavaScript runtime, or a .sh script that reads the source on stdin
and writes the result to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(app.stdout, TitleStyle.Render("Loaders"))
			for _, name := range loader.NewRegistry(".").Names() {
				fmt.Fprintf(app.stdout, "  %s\n", PathStyle.Render(name))
			}
			fmt.Fprintln(app.stdout)
			fmt.Fprintln(app.stdout, TitleStyle.Render("Plugins"))
			for _, name := range plugins.Names() {
				fmt.Fprintf(app.stdout, "  %s\n", PathStyle.Render(name))
			}
			return nil
		},
	}
}
