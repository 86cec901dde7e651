// SPDX-License-Identifier: MPL-2.0

package syntax

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tdewolff/parse/v2/js"
)

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	p, err := Parse("test.js", src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func TestParseError(t *testing.T) {
	t.Parallel()

	_, err := Parse("bad.js", "let = ;")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !errors.Is(err, ErrParse) {
		t.Errorf("errors.Is(err, ErrParse) = false for %v", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) || pe.File != "bad.js" {
		t.Errorf("expected *ParseError for bad.js, got %T", err)
	}
}

func TestWalkReplaceIdent(t *testing.T) {
	t.Parallel()

	p := mustParse(t, "foo(1);\nconst o = {foo};\nfunction g(foo) { return foo; }\n")
	Walk(Funcs{
		IdentFunc: func(c *Cursor, n *js.Var) {
			if string(n.Data) == "foo" && IsFree(n) {
				c.Replace(Member(Ident("m"), "bar"))
			}
		},
	}, p)

	out := p.String()
	for _, want := range []string{"m.bar(1)", "foo: m.bar", "return foo"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWalkInsertBefore(t *testing.T) {
	t.Parallel()

	p := mustParse(t, "a();\nif (x) { b(); }\n")
	Walk(Funcs{
		CallFunc: func(c *Cursor, n *js.CallExpr) {
			stmt := c.Parent()
			if _, ok := stmt.Node().(*js.ExprStmt); ok && stmt.InList() {
				stmt.InsertBefore(Empty())
			}
		},
	}, p)

	out := p.String()
	if !strings.HasPrefix(out, ";\na();") {
		t.Errorf("expected guard before top-level call, got:\n%s", out)
	}
	if !regexp.MustCompile(`;\s*b\(\);`).MatchString(out) {
		t.Errorf("expected guard inside block too, got:\n%s", out)
	}
}

func TestWalkReplaceStmts(t *testing.T) {
	t.Parallel()

	p := mustParse(t, "import a from './a';\nimport b from './b';\nlog(a, b);\n")
	var seen []string
	Walk(Funcs{
		ImportFunc: func(c *Cursor, n *js.ImportStmt) {
			name := string(n.Default)
			seen = append(seen, name)
			c.ReplaceStmts(Let(name, Call(Ident("load"), String(Unquote(n.Module)))))
		},
	}, p)

	if diff := cmp.Diff([]string{"a", "b"}, seen); diff != "" {
		t.Errorf("visited imports mismatch (-want +got):\n%s", diff)
	}
	want := "let a = load(\"./a\");\nlet b = load(\"./b\");\nlog(a, b);"
	if got := p.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestIsFree(t *testing.T) {
	t.Parallel()

	p := mustParse(t, "require('x');\nfunction f(require) { require('y'); }\n")
	var free []bool
	Walk(Funcs{
		CallFunc: func(c *Cursor, n *js.CallExpr) {
			if v, ok := n.X.(*js.Var); ok {
				free = append(free, IsFree(v))
			}
		},
	}, p)
	if diff := cmp.Diff([]bool{true, false}, free); diff != "" {
		t.Errorf("IsFree mismatch (-want +got):\n%s", diff)
	}
}

func TestStringValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr js.IExpr
		want string
		ok   bool
	}{
		{"double quoted", &js.LiteralExpr{TokenType: js.StringToken, Data: []byte(`"./a"`)}, "./a", true},
		{"single quoted", &js.LiteralExpr{TokenType: js.StringToken, Data: []byte(`'./b'`)}, "./b", true},
		{"escaped quote", &js.LiteralExpr{TokenType: js.StringToken, Data: []byte(`'it\'s'`)}, "it's", true},
		{"identifier", Ident("x"), "", false},
		{"number", &js.LiteralExpr{TokenType: js.DecimalToken, Data: []byte("1")}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := StringValue(tt.expr)
			if got != tt.want || ok != tt.ok {
				t.Errorf("StringValue() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBoundNames(t *testing.T) {
	t.Parallel()

	p := mustParse(t, "const {a, b: [c, ...d], ...e} = obj;")
	decl, ok := (*p.Body())[0].(*js.VarDecl)
	if !ok {
		t.Fatalf("expected *js.VarDecl, got %T", (*p.Body())[0])
	}
	got := BoundNames(decl.List[0].Binding)
	if diff := cmp.Diff([]string{"a", "c", "d", "e"}, got); diff != "" {
		t.Errorf("BoundNames mismatch (-want +got):\n%s", diff)
	}
}
