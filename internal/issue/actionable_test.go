// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{"operation only", &ActionableError{Operation: "bundle"}, "failed to bundle"},
		{
			"operation with resource",
			&ActionableError{Operation: "bundle", Resource: "./src/index.js"},
			"failed to bundle: ./src/index.js",
		},
		{
			"operation with cause",
			&ActionableError{Operation: "load configuration", Cause: errors.New("unexpected token")},
			"failed to load configuration: unexpected token",
		},
		{
			"full context",
			&ActionableError{Operation: "bundle", Resource: "./src/index.js", Cause: errors.New("module ./a.js not found")},
			"failed to bundle: ./src/index.js: module ./a.js not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := NewErrorContext().WithOperation("bundle").Wrap(fmt.Errorf("walk: %w", sentinel)).BuildError()
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should find the wrapped sentinel")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Error("errors.As should find *ActionableError")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	err := &ActionableError{
		Operation:   "write bundle",
		Resource:    "dist/bundle.js",
		Suggestions: []string{"Create the output directory", "Check permissions"},
		Cause:       fmt.Errorf("stat dist: %w", errors.New("no such file")),
	}

	short := err.Format(false)
	want := "failed to write bundle: dist/bundle.js: stat dist: no such file\n\n  • Create the output directory\n  • Check permissions"
	if short != want {
		t.Errorf("Format(false) =\n%q\nwant\n%q", short, want)
	}

	verbose := err.Format(true)
	for _, part := range []string{"Error chain:", "1. stat dist: no such file", "2. no such file"} {
		if !strings.Contains(verbose, part) {
			t.Errorf("Format(true) missing %q:\n%s", part, verbose)
		}
	}
	if strings.Contains((&ActionableError{Operation: "x"}).Format(true), "Error chain") {
		t.Error("no chain expected without a cause")
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil interface", err)
	}

	ctx := NewErrorContext().
		WithOperation("bundle").
		WithResource("./index.js").
		WithSuggestion("one").
		WithSuggestions("two", "three")
	first := ctx.Build()
	if !first.HasSuggestions() || len(first.Suggestions) != 3 {
		t.Fatalf("Suggestions = %v, want 3", first.Suggestions)
	}

	second := ctx.WithSuggestion("four").Build()
	if len(first.Suggestions) != 3 || len(second.Suggestions) != 4 {
		t.Errorf("builds must not share suggestion storage: %v / %v", first.Suggestions, second.Suggestions)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "bundle", "x") != nil {
		t.Error("nil error must stay nil")
	}
	cause := errors.New("boom")
	err := WrapWithContext(cause, "bundle", "./index.js")
	if err.Operation != "bundle" || err.Resource != "./index.js" || !errors.Is(err, cause) {
		t.Errorf("unexpected wrap %+v", err)
	}
	if err.HasSuggestions() {
		t.Error("no suggestions expected")
	}
}
