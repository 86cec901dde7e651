// SPDX-License-Identifier: MPL-2.0

package syntax

import (
	"errors"
	"fmt"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// ErrParse is the sentinel wrapped by every ParseError.
var ErrParse = errors.New("parse error")

type (
	// Program is a parsed JavaScript module.
	Program struct {
		// File is the name used in diagnostics.
		File string

		ast *js.AST
	}

	// ParseError reports source text that the parser rejected.
	// It wraps ErrParse for errors.Is() compatibility.
	ParseError struct {
		File  string
		Cause error
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Cause)
}

// Unwrap returns ErrParse and the parser's own error.
func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Cause}
}

// Parse parses src as an ES module. Script-only constructs such as
// CommonJS require calls parse the same way.
func Parse(file, src string) (*Program, error) {
	ast, err := js.Parse(parse.NewInputString(src), js.Options{})
	if err != nil {
		return nil, &ParseError{File: file, Cause: err}
	}
	return &Program{File: file, ast: ast}, nil
}

// Body returns the top-level statement list. Callers may mutate it.
func (p *Program) Body() *[]js.IStmt {
	return &p.ast.List
}

// String prints the program as JavaScript.
func (p *Program) String() string {
	return p.ast.JSString()
}
