// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/coderlyu/mini-webpack/internal/config"
	"github.com/coderlyu/mini-webpack/internal/emit"
	"github.com/coderlyu/mini-webpack/internal/graph"
	"github.com/coderlyu/mini-webpack/internal/issue"
	"github.com/coderlyu/mini-webpack/internal/loader"
	"github.com/coderlyu/mini-webpack/internal/rewrite"
	"github.com/coderlyu/mini-webpack/internal/syntax"
)

// classifyError maps a build failure to its issue catalog entry. It returns
// zero when no entry applies.
func classifyError(err error) issue.Id {
	var transformErr *loader.TransformError
	switch {
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrConfigNotFound):
		return issue.ConfigLoadFailedId
	case errors.Is(err, graph.ErrModuleNotFound):
		return issue.ModuleNotFoundId
	case errors.Is(err, syntax.ErrParse):
		return issue.ParseErrorId
	case errors.Is(err, rewrite.ErrUnsupportedSyntax):
		return issue.UnsupportedSyntaxId
	case errors.Is(err, loader.ErrUnknownLoader):
		return issue.LoaderNotFoundId
	case errors.As(err, &transformErr):
		return issue.LoaderFailedId
	case errors.Is(err, emit.ErrOutputDirMissing):
		return issue.OutputDirMissingId
	case errors.Is(err, emit.ErrTemplate):
		return issue.TemplateErrorId
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) && (ae.Operation == "load configuration" || ae.Operation == "validate configuration") {
		return issue.ConfigLoadFailedId
	}
	return 0
}

// renderError prints err and its catalog entry to w and returns the exit
// error the command should return.
func renderError(w io.Writer, err error, verbose bool) *ExitError {
	fmt.Fprintf(w, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	if id := classifyError(err); id != 0 {
		if entry := issue.Get(id); entry != nil {
			if rendered, renderErr := entry.Render("dark"); renderErr == nil {
				fmt.Fprint(w, rendered)
			}
		}
	}
	return &ExitError{Code: 1, Err: err, Rendered: true}
}
