// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"

	"github.com/coderlyu/mini-webpack/internal/config"
	"github.com/coderlyu/mini-webpack/internal/emit"
	"github.com/coderlyu/mini-webpack/internal/graph"
	"github.com/coderlyu/mini-webpack/internal/issue"
	"github.com/coderlyu/mini-webpack/internal/loader"
	"github.com/coderlyu/mini-webpack/internal/rewrite"
	"github.com/coderlyu/mini-webpack/internal/syntax"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"missing module", &graph.ModuleNotFoundError{Path: "./b.js", Importer: "./a.js"}, issue.ModuleNotFoundId},
		{"parse", &syntax.ParseError{File: "./a.js", Cause: errors.New("unexpected )")}, issue.ParseErrorId},
		{"unsupported", fmt.Errorf("./a.js: %w", rewrite.ErrUnsupportedSyntax), issue.UnsupportedSyntaxId},
		{"unknown loader", &loader.UnknownLoaderError{Ref: "minify"}, issue.LoaderNotFoundId},
		{"loader failed", &loader.TransformError{Loader: "banner", Path: "./a.js", Err: errors.New("boom")}, issue.LoaderFailedId},
		{"output dir", fmt.Errorf("%w: dist", emit.ErrOutputDirMissing), issue.OutputDirMissingId},
		{"template", fmt.Errorf("%w: bad", emit.ErrTemplate), issue.TemplateErrorId},
		{"invalid config", &config.InvalidConfigError{}, issue.ConfigLoadFailedId},
		{"config operation", issue.WrapWithContext(errors.New("x"), "load configuration", "a.toml"), issue.ConfigLoadFailedId},
		{"wrapped build error", issue.WrapWithContext(&graph.ModuleNotFoundError{Path: "./x"}, "build bundle", "./a.js"), issue.ModuleNotFoundId},
		{"other", errors.New("something else"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := issue.NewErrorContext().
		WithOperation("build bundle").
		WithResource("./src/index.js").
		WithSuggestion("Check the import path").
		Wrap(&graph.ModuleNotFoundError{Path: "./src/b.js", Importer: "./src/index.js"}).
		BuildError()

	exitErr := renderError(&buf, err, false)
	if exitErr.Code != 1 || !exitErr.Rendered {
		t.Errorf("ExitError = %+v", exitErr)
	}
	if !errors.Is(exitErr, graph.ErrModuleNotFound) {
		t.Error("ExitError should unwrap to the build error")
	}

	out := buf.String()
	for _, want := range []string{"Error:", "module ./src/b.js not found (imported by ./src/index.js)", "Check the import path"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHandleErrorSkipsRenderedErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handleError(&buf, fang.Styles{}, &ExitError{Code: 1, Err: errors.New("shown"), Rendered: true})
	if buf.Len() != 0 {
		t.Errorf("rendered error printed again: %q", buf.String())
	}

	handleError(&buf, fang.Styles{}, errors.New("plain failure"))
	if !strings.Contains(buf.String(), "plain failure") {
		t.Errorf("plain errors must be printed, got %q", buf.String())
	}
}
