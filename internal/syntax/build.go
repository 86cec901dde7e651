// SPDX-License-Identifier: MPL-2.0

package syntax

import (
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2/js"
)

// Ident returns a reference to name.
func Ident(name string) *js.Var {
	return &js.Var{Data: []byte(name)}
}

// String returns a double-quoted string literal for s.
func String(s string) *js.LiteralExpr {
	return &js.LiteralExpr{TokenType: js.StringToken, Data: []byte(strconv.Quote(s))}
}

// Member returns the property access x.name.
func Member(x js.IExpr, name string) *js.DotExpr {
	return &js.DotExpr{
		X:    x,
		Y:    js.LiteralExpr{TokenType: js.IdentifierToken, Data: []byte(name)},
		Prec: js.OpMember,
	}
}

// Call returns callee(args...).
func Call(callee js.IExpr, args ...js.IExpr) *js.CallExpr {
	call := &js.CallExpr{X: callee}
	for _, a := range args {
		call.Args.List = append(call.Args.List, js.Arg{Value: a})
	}
	return call
}

// Detached returns (0, x). Calling it invokes x without a receiver.
func Detached(x js.IExpr) *js.GroupExpr {
	zero := &js.LiteralExpr{TokenType: js.DecimalToken, Data: []byte("0")}
	return &js.GroupExpr{X: &js.CommaExpr{List: []js.IExpr{zero, x}}}
}

// Let returns `let name = init`.
func Let(name string, init js.IExpr) *js.VarDecl {
	return declare(js.LetToken, name, init)
}

// Const returns `const name = init`.
func Const(name string, init js.IExpr) *js.VarDecl {
	return declare(js.ConstToken, name, init)
}

func declare(tt js.TokenType, name string, init js.IExpr) *js.VarDecl {
	v := Ident(name)
	v.Decl = js.LexicalDecl
	return &js.VarDecl{
		TokenType: tt,
		List:      []js.BindingElement{{Binding: v, Default: init}},
	}
}

// Empty returns the empty statement `;`.
func Empty() *js.EmptyStmt {
	return &js.EmptyStmt{}
}

// Source prints a single node as JavaScript.
func Source(n js.INode) string {
	var b strings.Builder
	n.JS(&b)
	return b.String()
}

// Root follows the scope links of v to the variable it resolves to.
func Root(v *js.Var) *js.Var {
	for v.Link != nil {
		v = v.Link
	}
	return v
}

// IsFree reports whether v is not bound by any declaration in the module.
func IsFree(v *js.Var) bool {
	return Root(v).Decl == js.NoDecl
}

// StringValue returns the contents of a string literal expression.
func StringValue(e js.IExpr) (string, bool) {
	var lit js.LiteralExpr
	switch n := e.(type) {
	case *js.LiteralExpr:
		lit = *n
	case js.LiteralExpr:
		lit = n
	default:
		return "", false
	}
	if lit.TokenType != js.StringToken {
		return "", false
	}
	return Unquote(lit.Data), true
}

// Unquote strips the quotes of a JavaScript string token and resolves
// simple backslash escapes.
func Unquote(data []byte) string {
	if len(data) < 2 {
		return string(data)
	}
	s := string(data[1 : len(data)-1])
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// BoundNames returns the identifiers introduced by a binding pattern.
func BoundNames(b js.IBinding) []string {
	var names []string
	switch n := b.(type) {
	case *js.Var:
		names = append(names, string(n.Data))
	case *js.BindingArray:
		for _, el := range n.List {
			names = append(names, BoundNames(el.Binding)...)
		}
		names = append(names, BoundNames(n.Rest)...)
	case *js.BindingObject:
		for _, item := range n.List {
			names = append(names, BoundNames(item.Value.Binding)...)
		}
		if n.Rest != nil {
			names = append(names, string(n.Rest.Data))
		}
	}
	return names
}
