// SPDX-License-Identifier: MPL-2.0

package rewrite

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/js"

	"github.com/coderlyu/mini-webpack/internal/syntax"
)

type (
	// binding is what a local import name stands for.
	binding struct {
		local     string
		name      string
		namespace bool
	}

	exportEntry struct {
		name  string
		local string
	}

	// module is the rewrite state of one source file.
	module struct {
		rw       *Rewriter
		path     string
		dialect  Dialect
		deps     []string
		imports  int
		bindings map[string]binding
		exports  []exportEntry
		err      error
	}
)

func (m *module) fail(err error) {
	if m.err == nil {
		m.err = err
	}
}

func (m *module) resolve(spec string, esm bool) (string, bool) {
	p, err := m.rw.resolver.Specifier(m.path, spec, esm)
	if err != nil {
		m.fail(fmt.Errorf("%s: %w", m.path, err))
		return "", false
	}
	m.deps = append(m.deps, p)
	return p, true
}

func (m *module) importStmt(c *syntax.Cursor, n *js.ImportStmt) {
	if m.err != nil {
		return
	}
	p, ok := m.resolve(syntax.Unquote(n.Module), true)
	if !ok {
		return
	}
	local := BindingName(p, m.imports)
	m.imports++

	stmts := []js.IStmt{syntax.Let(local, syntax.Call(syntax.Ident(RequireFunc), syntax.String(p)))}
	if n.Default != nil {
		interop := local + "_default"
		m.bindings[string(n.Default)] = binding{local: interop, name: "default"}
		stmts = append(stmts, syntax.Let(interop, syntax.Call(syntax.Member(syntax.Ident(RequireFunc), InteropHelper), syntax.Ident(local))))
	}
	for _, a := range n.List {
		switch {
		case a.Binding == nil:
		case string(a.Name) == "*":
			m.bindings[string(a.Binding)] = binding{local: local, namespace: true}
		case a.Name != nil && isQuoted(a.Name):
			m.fail(fmt.Errorf("%s: %w: string import name %s", m.path, ErrUnsupportedSyntax, a.Name))
			return
		case a.Name != nil:
			m.bindings[string(a.Binding)] = binding{local: local, name: string(a.Name)}
		default:
			m.bindings[string(a.Binding)] = binding{local: local, name: string(a.Binding)}
		}
	}

	c.ReplaceStmts(stmts...)
}

func (m *module) exportStmt(c *syntax.Cursor, n *js.ExportStmt) {
	if m.err != nil {
		return
	}
	if n.Module != nil {
		m.fail(fmt.Errorf("%s: %w: re-export from %s", m.path, ErrUnsupportedSyntax, n.Module))
		return
	}

	if n.Default {
		m.exports = append(m.exports, exportEntry{name: "default", local: DefaultExportVar})
		switch d := n.Decl.(type) {
		case *js.FuncDecl:
			if d.Name != nil {
				c.ReplaceStmts(d, syntax.Const(DefaultExportVar, syntax.Ident(string(d.Name.Data))))
				return
			}
		case *js.ClassDecl:
			if d.Name != nil {
				c.ReplaceStmts(d, syntax.Const(DefaultExportVar, syntax.Ident(string(d.Name.Data))))
				return
			}
		}
		c.ReplaceStmts(syntax.Const(DefaultExportVar, n.Decl))
		return
	}

	switch d := n.Decl.(type) {
	case nil:
		for _, a := range n.List {
			if a.Binding == nil {
				continue
			}
			local := string(a.Binding)
			if a.Name != nil {
				local = string(a.Name)
			}
			m.exports = append(m.exports, exportEntry{name: exportName(a.Binding), local: local})
		}
		c.ReplaceStmts()
	case *js.VarDecl:
		for _, el := range d.List {
			for _, name := range syntax.BoundNames(el.Binding) {
				m.exports = append(m.exports, exportEntry{name: name, local: name})
			}
		}
		c.ReplaceStmts(d)
	case *js.FuncDecl:
		m.exports = append(m.exports, exportEntry{name: string(d.Name.Data), local: string(d.Name.Data)})
		c.ReplaceStmts(d)
	case *js.ClassDecl:
		m.exports = append(m.exports, exportEntry{name: string(d.Name.Data), local: string(d.Name.Data)})
		c.ReplaceStmts(d)
	default:
		m.fail(fmt.Errorf("%s: %w: export of %T", m.path, ErrUnsupportedSyntax, d))
	}
}

func (m *module) requireCall(_ *syntax.Cursor, n *js.CallExpr) {
	if m.err != nil {
		return
	}
	v, ok := n.X.(*js.Var)
	if !ok || string(v.Data) != requireName || !syntax.IsFree(v) {
		return
	}
	if len(n.Args.List) != 1 || n.Args.List[0].Rest {
		m.fail(fmt.Errorf("%s: %w: require expects a single argument", m.path, ErrUnsupportedSyntax))
		return
	}
	spec, ok := syntax.StringValue(n.Args.List[0].Value)
	if !ok {
		m.fail(fmt.Errorf("%s: %w: require argument %s is not a string literal",
			m.path, ErrUnsupportedSyntax, syntax.Source(n.Args.List[0].Value)))
		return
	}
	p, ok := m.resolve(spec, false)
	if !ok {
		return
	}
	n.X = syntax.Ident(RequireFunc)
	n.Args.List[0].Value = syntax.String(p)
}

// reference replaces an identifier bound by an import with the qualified
// access on the imported module.
func (m *module) reference(c *syntax.Cursor, v *js.Var) {
	b, ok := m.bindings[string(v.Data)]
	if !ok || !syntax.IsFree(v) {
		return
	}

	var repl js.IExpr = syntax.Ident(b.local)
	if !b.namespace {
		repl = syntax.Member(repl, b.name)
	}

	call, isCallee := c.Callee()
	if !isCallee || b.namespace {
		c.Replace(repl)
		return
	}

	c.Replace(syntax.Detached(repl))
	stmt := c.Parent().Parent()
	if stmt == nil {
		return
	}
	if es, ok := stmt.Node().(*js.ExprStmt); ok && es.Value == js.IExpr(call) && stmt.InList() {
		stmt.InsertBefore(syntax.Empty())
	}
}

func (m *module) writePreamble(b *strings.Builder) {
	fmt.Fprintf(b, "%s.r(%s);\n", RequireFunc, ExportsVar)
	if len(m.exports) == 0 {
		return
	}
	fmt.Fprintf(b, "%s.d(%s, {\n", RequireFunc, ExportsVar)
	for i, e := range m.exports {
		fmt.Fprintf(b, "  %q: () => (%s)", e.name, m.exportValue(e.local))
		if i < len(m.exports)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("});\n")
}

func (m *module) exportValue(local string) string {
	b, ok := m.bindings[local]
	if !ok {
		return local
	}
	if b.namespace {
		return b.local
	}
	return b.local + "." + b.name
}

func isQuoted(name []byte) bool {
	return len(name) > 1 && (name[0] == '"' || name[0] == '\'')
}

func exportName(name []byte) string {
	if isQuoted(name) {
		return syntax.Unquote(name)
	}
	return string(name)
}
