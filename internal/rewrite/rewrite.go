// SPDX-License-Identifier: MPL-2.0

package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/js"

	"github.com/coderlyu/mini-webpack/internal/syntax"
)

const (
	// RequireFunc is the runtime module loader every import is rewritten to.
	RequireFunc = "__webpack_require__"
	// InteropHelper is the runtime member that gives a CommonJS module a
	// "default" export for default imports.
	InteropHelper = "n"
	// ExportsVar is the exports object of the module being evaluated.
	ExportsVar = "__webpack_exports__"
	// DefaultExportVar holds the value of `export default`.
	DefaultExportVar = "__WEBPACK_DEFAULT_EXPORT__"

	requireName = "require"
	bindingTag  = "__WEBPACK_IMPORTED_MODULE_"
)

const (
	// CommonJS modules only use require and module.exports.
	CommonJS Dialect = iota
	// ESModule modules use import and export statements.
	ESModule
)

// ErrUnsupportedSyntax is returned for module syntax the rewriter cannot express.
var ErrUnsupportedSyntax = errors.New("unsupported module syntax")

type (
	// Dialect is the module system a source file is written in.
	Dialect int

	// ParseError reports a module that failed to parse.
	ParseError = syntax.ParseError

	// Resolver normalizes import specifiers relative to the importing module.
	Resolver interface {
		Specifier(importer, spec string, esm bool) (string, error)
	}

	// Result is the outcome of rewriting one module.
	Result struct {
		// Code is the rewritten module body.
		Code string
		// Dependencies lists normalized paths in the order they appear in the
		// source. A path required twice appears twice.
		Dependencies []string
		// Dialect is the detected module system.
		Dialect Dialect
	}

	// Rewriter rewrites modules against a project root.
	Rewriter struct {
		resolver Resolver
	}
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case CommonJS:
		return "commonjs"
	case ESModule:
		return "esm"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// New returns a Rewriter resolving specifiers with r.
func New(r Resolver) *Rewriter {
	return &Rewriter{resolver: r}
}

// Rewrite parses source, the content of the module at the normalized path,
// and rewrites its imports, exports and require calls.
func (rw *Rewriter) Rewrite(path, source string) (*Result, error) {
	prog, err := syntax.Parse(path, source)
	if err != nil {
		return nil, err
	}

	m := &module{
		rw:       rw,
		path:     path,
		dialect:  Detect(prog),
		bindings: make(map[string]binding),
	}

	syntax.Walk(syntax.Funcs{
		ImportFunc: m.importStmt,
		ExportFunc: m.exportStmt,
		CallFunc:   m.requireCall,
	}, prog)
	if m.err != nil {
		return nil, m.err
	}

	if len(m.bindings) > 0 {
		syntax.Walk(syntax.Funcs{IdentFunc: m.reference}, prog)
	}

	var code strings.Builder
	if m.dialect == ESModule {
		m.writePreamble(&code)
	}
	code.WriteString(prog.String())

	return &Result{
		Code:         code.String(),
		Dependencies: m.deps,
		Dialect:      m.dialect,
	}, nil
}

// Detect reports the dialect of a parsed module.
func Detect(p *syntax.Program) Dialect {
	for _, s := range *p.Body() {
		switch s.(type) {
		case *js.ImportStmt, *js.ExportStmt:
			return ESModule
		}
	}
	return CommonJS
}

// BindingName returns the local name an import of the normalized path gets.
// n is the position of the import declaration within its module.
func BindingName(path string, n int) string {
	base := strings.TrimPrefix(path, "./")
	base = strings.TrimSuffix(base, ".js")
	var b strings.Builder
	b.WriteString("__")
	for _, r := range base {
		if r == '_' || r == '$' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	fmt.Fprintf(&b, "%s%d__", bindingTag, n)
	return b.String()
}
