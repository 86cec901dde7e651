// SPDX-License-Identifier: MPL-2.0

package syntax

import "github.com/tdewolff/parse/v2/js"

type (
	// Visitor receives the node kinds the bundler rewrites. Every method is
	// called before the node's children are traversed, so in-place edits to
	// the node are seen by the rest of the walk.
	Visitor interface {
		Import(c *Cursor, n *js.ImportStmt)
		Export(c *Cursor, n *js.ExportStmt)
		Call(c *Cursor, n *js.CallExpr)
		// Ident is called for identifier references in expression position.
		// Binding positions (declarations, parameters) are not reported.
		Ident(c *Cursor, n *js.Var)
	}

	// Funcs adapts optional functions to a Visitor. Nil fields are no-ops.
	Funcs struct {
		ImportFunc func(c *Cursor, n *js.ImportStmt)
		ExportFunc func(c *Cursor, n *js.ExportStmt)
		CallFunc   func(c *Cursor, n *js.CallExpr)
		IdentFunc  func(c *Cursor, n *js.Var)
	}

	// Cursor describes the position of a node during Walk: its parent, the
	// expression slot holding it, or the statement list it belongs to.
	// A Cursor is only valid while Walk is running.
	Cursor struct {
		node   js.INode
		parent *Cursor
		slot   *js.IExpr

		list     *stmtList
		index    int
		span     int
		replaced []js.IStmt
	}

	stmtList struct {
		stmts *[]js.IStmt
		top   bool
	}

	walker struct {
		v Visitor
	}
)

// Import implements Visitor.
func (f Funcs) Import(c *Cursor, n *js.ImportStmt) {
	if f.ImportFunc != nil {
		f.ImportFunc(c, n)
	}
}

// Export implements Visitor.
func (f Funcs) Export(c *Cursor, n *js.ExportStmt) {
	if f.ExportFunc != nil {
		f.ExportFunc(c, n)
	}
}

// Call implements Visitor.
func (f Funcs) Call(c *Cursor, n *js.CallExpr) {
	if f.CallFunc != nil {
		f.CallFunc(c, n)
	}
}

// Ident implements Visitor.
func (f Funcs) Ident(c *Cursor, n *js.Var) {
	if f.IdentFunc != nil {
		f.IdentFunc(c, n)
	}
}

// Node returns the node at the cursor.
func (c *Cursor) Node() js.INode { return c.node }

// Parent returns the cursor of the enclosing node, or nil at the top level.
func (c *Cursor) Parent() *Cursor { return c.parent }

// Callee returns the call expression whose callee slot holds the node.
func (c *Cursor) Callee() (*js.CallExpr, bool) {
	if c.parent == nil || c.slot == nil {
		return nil, false
	}
	call, ok := c.parent.node.(*js.CallExpr)
	if !ok || c.slot != &call.X {
		return nil, false
	}
	return call, true
}

// InList reports whether the node is a member of a statement list
// (module body, block, case clause or function body).
func (c *Cursor) InList() bool { return c.list != nil }

// TopLevel reports whether the node is a statement of the module body.
func (c *Cursor) TopLevel() bool { return c.list != nil && c.list.top }

// Replace puts e in the expression slot holding the node.
// It reports false when the node does not sit in an expression slot.
func (c *Cursor) Replace(e js.IExpr) bool {
	if c.slot == nil {
		return false
	}
	*c.slot = e
	c.node = e
	return true
}

// ReplaceStmts substitutes the statement at the cursor with stmts. The
// replacement statements are walked in place of the original.
// It reports false when the node is not a statement list member.
func (c *Cursor) ReplaceStmts(stmts ...js.IStmt) bool {
	if c.list == nil {
		return false
	}
	old := *c.list.stmts
	out := make([]js.IStmt, 0, len(old)-c.span+len(stmts))
	out = append(out, old[:c.index]...)
	out = append(out, stmts...)
	out = append(out, old[c.index+c.span:]...)
	*c.list.stmts = out
	c.span = len(stmts)
	c.replaced = append([]js.IStmt{}, stmts...)
	return true
}

// InsertBefore inserts stmts in front of the statement at the cursor.
// It reports false when the node is not a statement list member.
func (c *Cursor) InsertBefore(stmts ...js.IStmt) bool {
	if c.list == nil {
		return false
	}
	old := *c.list.stmts
	out := make([]js.IStmt, 0, len(old)+len(stmts))
	out = append(out, old[:c.index]...)
	out = append(out, stmts...)
	out = append(out, old[c.index:]...)
	*c.list.stmts = out
	c.index += len(stmts)
	return true
}

// Walk traverses the program depth-first in source order, calling v for
// imports, exports, calls and identifier references.
func Walk(v Visitor, p *Program) {
	w := &walker{v: v}
	w.stmtList(nil, p.Body(), true)
}

func (w *walker) stmtList(parent *Cursor, stmts *[]js.IStmt, top bool) {
	l := &stmtList{stmts: stmts, top: top}
	for i := 0; i < len(*stmts); i++ {
		c := &Cursor{node: (*stmts)[i], parent: parent, list: l, index: i, span: 1}
		w.stmt(c)
		i = c.index + c.span - 1
	}
}

func (w *walker) replacement(c *Cursor) {
	pos := c.index
	for _, s := range c.replaced {
		rc := &Cursor{node: s, parent: c.parent, list: c.list, index: pos, span: 1}
		w.stmt(rc)
		pos = rc.index + rc.span
	}
	c.span = pos - c.index
}

func (w *walker) child(parent *Cursor, s js.IStmt) {
	if s == nil {
		return
	}
	w.stmt(&Cursor{node: s, parent: parent})
}

func (w *walker) block(parent *Cursor, b *js.BlockStmt) {
	if b == nil {
		return
	}
	w.stmtList(&Cursor{node: b, parent: parent}, &b.List, false)
}

func (w *walker) stmt(c *Cursor) {
	switch n := c.node.(type) {
	case *js.ImportStmt:
		w.v.Import(c, n)
		if c.replaced != nil {
			w.replacement(c)
		}
	case *js.ExportStmt:
		w.v.Export(c, n)
		if c.replaced != nil {
			w.replacement(c)
			return
		}
		w.expr(c, &n.Decl)
	case *js.BlockStmt:
		w.stmtList(c, &n.List, false)
	case *js.ExprStmt:
		w.expr(c, &n.Value)
	case *js.VarDecl:
		w.varDecl(c, n)
	case *js.FuncDecl:
		w.funcDecl(c, n)
	case *js.ClassDecl:
		w.classDecl(c, n)
	case *js.IfStmt:
		w.expr(c, &n.Cond)
		w.child(c, n.Body)
		w.child(c, n.Else)
	case *js.DoWhileStmt:
		w.child(c, n.Body)
		w.expr(c, &n.Cond)
	case *js.WhileStmt:
		w.expr(c, &n.Cond)
		w.child(c, n.Body)
	case *js.ForStmt:
		w.expr(c, &n.Init)
		w.expr(c, &n.Cond)
		w.expr(c, &n.Post)
		w.block(c, n.Body)
	case *js.ForInStmt:
		w.expr(c, &n.Init)
		w.expr(c, &n.Value)
		w.block(c, n.Body)
	case *js.ForOfStmt:
		w.expr(c, &n.Init)
		w.expr(c, &n.Value)
		w.block(c, n.Body)
	case *js.SwitchStmt:
		w.expr(c, &n.Init)
		for i := range n.List {
			clause := &n.List[i]
			cc := &Cursor{node: clause, parent: c}
			w.expr(cc, &clause.Cond)
			w.stmtList(cc, &clause.List, false)
		}
	case *js.ReturnStmt:
		w.expr(c, &n.Value)
	case *js.ThrowStmt:
		w.expr(c, &n.Value)
	case *js.WithStmt:
		w.expr(c, &n.Cond)
		w.child(c, n.Body)
	case *js.LabelledStmt:
		w.child(c, n.Value)
	case *js.TryStmt:
		w.block(c, n.Body)
		w.binding(c, n.Binding)
		w.block(c, n.Catch)
		w.block(c, n.Finally)
	}
}

func (w *walker) expr(parent *Cursor, slot *js.IExpr) {
	if *slot == nil {
		return
	}
	c := &Cursor{node: *slot, parent: parent, slot: slot}
	switch n := (*slot).(type) {
	case *js.Var:
		w.v.Ident(c, n)
	case *js.CallExpr:
		w.v.Call(c, n)
		w.expr(c, &n.X)
		w.args(c, &n.Args)
	case *js.NewExpr:
		w.expr(c, &n.X)
		if n.Args != nil {
			w.args(c, n.Args)
		}
	case *js.GroupExpr:
		w.expr(c, &n.X)
	case *js.DotExpr:
		w.expr(c, &n.X)
	case *js.IndexExpr:
		w.expr(c, &n.X)
		w.expr(c, &n.Y)
	case *js.UnaryExpr:
		w.expr(c, &n.X)
	case *js.BinaryExpr:
		w.expr(c, &n.X)
		w.expr(c, &n.Y)
	case *js.CondExpr:
		w.expr(c, &n.Cond)
		w.expr(c, &n.X)
		w.expr(c, &n.Y)
	case *js.YieldExpr:
		w.expr(c, &n.X)
	case *js.CommaExpr:
		for i := range n.List {
			w.expr(c, &n.List[i])
		}
	case *js.ArrayExpr:
		for i := range n.List {
			w.expr(c, &n.List[i].Value)
		}
	case *js.ObjectExpr:
		for i := range n.List {
			prop := &n.List[i]
			if prop.Name != nil {
				w.propertyName(c, prop.Name)
			}
			w.expr(c, &prop.Value)
			w.expr(c, &prop.Init)
		}
	case *js.TemplateExpr:
		w.expr(c, &n.Tag)
		for i := range n.List {
			w.expr(c, &n.List[i].Expr)
		}
	case *js.ArrowFunc:
		w.params(c, &n.Params)
		w.block(c, &n.Body)
	case *js.FuncDecl:
		w.funcDecl(c, n)
	case *js.ClassDecl:
		w.classDecl(c, n)
	case *js.MethodDecl:
		w.method(c, n)
	case *js.VarDecl:
		w.varDecl(c, n)
	}
}

func (w *walker) args(parent *Cursor, args *js.Args) {
	for i := range args.List {
		w.expr(parent, &args.List[i].Value)
	}
}

func (w *walker) propertyName(parent *Cursor, name *js.PropertyName) {
	w.expr(parent, &name.Computed)
}

func (w *walker) binding(parent *Cursor, b js.IBinding) {
	switch n := b.(type) {
	case *js.BindingArray:
		c := &Cursor{node: n, parent: parent}
		for i := range n.List {
			w.bindingElement(c, &n.List[i])
		}
		w.binding(c, n.Rest)
	case *js.BindingObject:
		c := &Cursor{node: n, parent: parent}
		for i := range n.List {
			item := &n.List[i]
			if item.Key != nil {
				w.propertyName(c, item.Key)
			}
			w.bindingElement(c, &item.Value)
		}
	}
}

func (w *walker) bindingElement(parent *Cursor, el *js.BindingElement) {
	w.binding(parent, el.Binding)
	w.expr(parent, &el.Default)
}

func (w *walker) params(parent *Cursor, p *js.Params) {
	for i := range p.List {
		w.bindingElement(parent, &p.List[i])
	}
	w.binding(parent, p.Rest)
}

func (w *walker) varDecl(c *Cursor, n *js.VarDecl) {
	for i := range n.List {
		w.bindingElement(c, &n.List[i])
	}
}

func (w *walker) funcDecl(c *Cursor, n *js.FuncDecl) {
	w.params(c, &n.Params)
	w.block(c, &n.Body)
}

func (w *walker) method(c *Cursor, n *js.MethodDecl) {
	w.propertyName(c, &n.Name.PropertyName)
	w.params(c, &n.Params)
	w.block(c, &n.Body)
}

func (w *walker) classDecl(c *Cursor, n *js.ClassDecl) {
	w.expr(c, &n.Extends)
	for i := range n.List {
		el := &n.List[i]
		switch {
		case el.StaticBlock != nil:
			w.block(c, el.StaticBlock)
		case el.Method != nil:
			w.method(c, el.Method)
		default:
			w.propertyName(c, &el.Field.Name.PropertyName)
			w.expr(c, &el.Field.Init)
		}
	}
}
