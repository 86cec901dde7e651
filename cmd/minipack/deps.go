// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/coderlyu/mini-webpack/internal/graph"
	"github.com/coderlyu/mini-webpack/internal/issue"
)

func newDepsCommand(app *App, flags *rootFlags) *cobra.Command {
	var flat bool
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Print the dependency tree without writing a bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := app.loadConfig(ctx, flags, nil)
			if err != nil {
				return renderError(app.stderr, err, flags.verbose)
			}
			c, err := app.newCompiler(cfg)
			if err != nil {
				return renderError(app.stderr, issue.WrapWithContext(err, "prepare build", cfg.Entry), flags.verbose)
			}
			mapping, err := c.Analyze(ctx)
			if err != nil {
				return renderError(app.stderr, issue.WrapWithContext(err, "analyze dependencies", cfg.Entry), flags.verbose)
			}

			if flat {
				printFlat(app.stdout, mapping)
				return nil
			}
			fmt.Fprintln(app.stdout, dependencyTree(mapping, c.Entry()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&flat, "flat", false, "list modules in traversal order instead of a tree")
	return cmd
}

func printFlat(w io.Writer, mapping *graph.Mapping) {
	for _, m := range mapping.Modules() {
		fmt.Fprintf(w, "%s %s\n", PathStyle.Render(m.Path), SubtitleStyle.Render(m.Dialect.String()))
	}
}

// dependencyTree renders the graph below entry. A module is expanded at its
// first occurrence only; later occurrences are marked.
func dependencyTree(mapping *graph.Mapping, entry string) *tree.Tree {
	edges := mapping.Edges()
	expanded := map[string]bool{}

	var build func(p string) *tree.Tree
	build = func(p string) *tree.Tree {
		t := tree.Root(p)
		expanded[p] = true
		for _, dep := range edges.Imports(p) {
			if expanded[dep] {
				t.Child(dep + SubtitleStyle.Render(" (shown above)"))
				continue
			}
			if len(edges.Imports(dep)) == 0 {
				expanded[dep] = true
				t.Child(dep)
				continue
			}
			t.Child(build(dep))
		}
		return t
	}

	return build(entry).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(SubtitleStyle).
		RootStyle(TitleStyle)
}
