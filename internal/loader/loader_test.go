// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func tagLoader(tag string) Loader {
	return Func(func(_ context.Context, _ *Context, source string) (string, error) {
		return source + "|" + tag, nil
	})
}

type countingOpener struct {
	inner *Registry
	calls map[string]int
}

func (o *countingOpener) Open(ref string) (Loader, error) {
	o.calls[ref]++
	return o.inner.Open(ref)
}

func resource(name string) Resource {
	return Resource{Path: "./" + name, Name: name, Abs: "/project/src/" + name, Root: "/project/src"}
}

func TestPipelineReverseOrder(t *testing.T) {
	t.Parallel()

	reg := NewRegistryFS(fstest.MapFS{})
	for _, tag := range []string{"A", "B", "C"} {
		reg.Register(tag, tagLoader(tag))
	}
	rules := []Rule{
		{Test: regexp.MustCompile(`\.js$`), Use: []Use{{Loader: "A"}, {Loader: "B"}, {Loader: "C"}}},
		{Test: regexp.MustCompile(`\.css$`), Use: []Use{{Loader: "A"}}},
		{Test: regexp.MustCompile(`index`), Use: []Use{{Loader: "B"}}},
	}
	p := NewPipeline(rules, NewCache(reg))

	got, err := p.Apply(context.Background(), StagePost, resource("index.js"), "x")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if want := "x|C|B|A|B"; got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
}

func TestPipelineStages(t *testing.T) {
	t.Parallel()

	reg := NewRegistryFS(fstest.MapFS{})
	reg.Register("pre", tagLoader("pre"))
	reg.Register("post", tagLoader("post"))
	p := NewPipeline([]Rule{
		{Use: []Use{{Loader: "pre"}}, Stage: StagePre},
		{Use: []Use{{Loader: "post"}}},
	}, NewCache(reg))

	tests := []struct {
		stage Stage
		want  string
	}{
		{StagePre, "x|pre"},
		{StagePost, "x|post"},
	}
	for _, tt := range tests {
		got, err := p.Apply(context.Background(), tt.stage, resource("a.js"), "x")
		if err != nil {
			t.Fatalf("Apply(%s) error = %v", tt.stage, err)
		}
		if got != tt.want {
			t.Errorf("Apply(%s) = %q, want %q", tt.stage, got, tt.want)
		}
	}
}

func TestCacheOpensOnce(t *testing.T) {
	t.Parallel()

	reg := NewRegistryFS(fstest.MapFS{
		"loaders/upper.js": {Data: []byte("module.exports = function (s) { return s.toUpperCase(); };")},
	})
	opener := &countingOpener{inner: reg, calls: map[string]int{}}
	cache := NewCache(opener)
	p := NewPipeline([]Rule{{Use: []Use{{Loader: "./loaders/upper.js"}}}}, cache)

	for _, name := range []string{"a.js", "b.js", "c.js"} {
		got, err := p.Apply(context.Background(), StagePost, resource(name), "abc")
		if err != nil {
			t.Fatalf("Apply(%s) error = %v", name, err)
		}
		if got != "ABC" {
			t.Errorf("Apply(%s) = %q, want ABC", name, got)
		}
	}

	if n := opener.calls["./loaders/upper.js"]; n != 1 {
		t.Errorf("opener called %d times, want 1", n)
	}
	if n := cache.Opens("./loaders/upper.js"); n != 1 {
		t.Errorf("Opens() = %d, want 1", n)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestUnknownLoader(t *testing.T) {
	t.Parallel()

	p := NewPipeline([]Rule{
		{Test: regexp.MustCompile(`\.ts$`), Use: []Use{{Loader: "missing"}}},
		{Test: regexp.MustCompile(`\.js$`), Use: []Use{{Loader: "missing"}}},
	}, NewCache(NewRegistryFS(fstest.MapFS{})))

	if _, err := p.Apply(context.Background(), StagePost, resource("a.css"), "x"); err != nil {
		t.Fatalf("non-matching rule must not resolve its loader, got %v", err)
	}

	_, err := p.Apply(context.Background(), StagePost, resource("a.js"), "x")
	if !errors.Is(err, ErrUnknownLoader) {
		t.Fatalf("expected ErrUnknownLoader, got %v", err)
	}
	var ule *UnknownLoaderError
	if !errors.As(err, &ule) || ule.Ref != "missing" {
		t.Errorf("expected *UnknownLoaderError for missing, got %v", err)
	}
}

func TestTransformError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	reg := NewRegistryFS(fstest.MapFS{})
	reg.Register("fail", Func(func(context.Context, *Context, string) (string, error) {
		return "", boom
	}))
	p := NewPipeline([]Rule{{Use: []Use{{Loader: "fail"}}}}, NewCache(reg))

	_, err := p.Apply(context.Background(), StagePost, resource("a.js"), "x")
	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransformError, got %v", err)
	}
	if te.Loader != "fail" || te.Path != "./a.js" || !errors.Is(err, boom) {
		t.Errorf("unexpected TransformError %+v", te)
	}
}

func TestScriptLoader(t *testing.T) {
	t.Parallel()

	reg := NewRegistryFS(fstest.MapFS{
		"tag.js": {Data: []byte(`module.exports = function (source) {
  return source + "\n// " + this.query.tag + " " + this.resourcePath + " " + this.rootContext;
};`)},
		"broken.js":  {Data: []byte("module.exports = 42;")},
		"forever.js": {Data: []byte("module.exports = function (s) { for (;;) {} };")},
	})

	l, err := reg.Open("./tag.js")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	lc := &Context{Query: map[string]any{"tag": "js"}, ResourcePath: "/project/src/a.js", RootDir: "/project/src"}
	got, err := l.Load(context.Background(), lc, "const a = 1;")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := "const a = 1;\n// js /project/src/a.js /project/src"; got != want {
		t.Errorf("Load() = %q, want %q", got, want)
	}

	if _, err := reg.Open("broken.js"); !errors.Is(err, ErrUnknownLoader) || !errors.Is(err, errNotAFunction) {
		t.Errorf("expected non-function export to be rejected, got %v", err)
	}

	forever, err := reg.Open("forever.js")
	if err != nil {
		t.Fatalf("Open(forever.js) error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := forever.Load(ctx, &Context{}, ""); err == nil {
		t.Error("expected cancelled context to interrupt the script")
	}
}

func TestShellLoader(t *testing.T) {
	t.Parallel()

	script := strings.Join([]string{
		`while IFS= read -r line || [ -n "$line" ]; do`,
		`  printf '%s\n' "$line"`,
		`done`,
		`printf '// %s %s\n' "$MINIPACK_OPT_BUILD_TAG" "$MINIPACK_RESOURCE_PATH"`,
	}, "\n")
	reg := NewRegistryFS(fstest.MapFS{
		"scripts/tag.sh":  {Data: []byte(script)},
		"scripts/fail.sh": {Data: []byte("echo oops >&2\nexit 3\n")},
	})

	root := t.TempDir()
	lc := &Context{Query: map[string]any{"build-tag": "sh"}, ResourcePath: "/project/src/a.js", RootDir: root}

	l, err := reg.Open("./scripts/tag.sh")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got, err := l.Load(context.Background(), lc, "const a = 1;\nconst b = 2;")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := "const a = 1;\nconst b = 2;\n// sh /project/src/a.js\n"; got != want {
		t.Errorf("Load() = %q, want %q", got, want)
	}

	fail, err := reg.Open("scripts/fail.sh")
	if err != nil {
		t.Fatalf("Open(fail.sh) error = %v", err)
	}
	_, err = fail.Load(context.Background(), lc, "")
	if err == nil || !strings.Contains(err.Error(), "status 3") || !strings.Contains(err.Error(), "oops") {
		t.Errorf("expected exit status error with stderr, got %v", err)
	}
}

func TestShellEnv(t *testing.T) {
	t.Parallel()

	env, err := shellEnv(&Context{Query: map[string]any{"n": 2, "name": "x"}, ResourcePath: "/r/a.js", RootDir: "/r"})
	if err != nil {
		t.Fatalf("shellEnv() error = %v", err)
	}
	for _, want := range []string{
		EnvQuery + `={"n":2,"name":"x"}`,
		EnvOptionPrefix + "N=2",
		EnvOptionPrefix + "NAME=x",
		EnvResourcePath + "=/r/a.js",
	} {
		found := false
		for _, kv := range env {
			if kv == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("environment missing %q", want)
		}
	}
}

func TestBuiltins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		loader  string
		query   map[string]any
		source  string
		want    string
		wantErr bool
	}{
		{"banner", BannerLoader, map[string]any{"text": "v1"}, "x();", "/*! v1 */\nx();", false},
		{"banner without text", BannerLoader, nil, "x();", "", true},
		{"banner number text", BannerLoader, map[string]any{"text": 2}, "x();", "/*! 2 */\nx();", false},
		{
			"replace in key order", ReplaceLoader,
			map[string]any{"values": map[string]any{"__B__": "b", "__A__": "__B__"}},
			"__A__ __B__", "b b", false,
		},
		{"replace without values", ReplaceLoader, nil, "x", "", true},
		{"replace values not an object", ReplaceLoader, map[string]any{"values": "x"}, "x", "", true},
		{"json", JSONLoader, nil, " {\"a\": 1}\n", "module.exports = {\"a\": 1};\n", false},
		{"invalid json", JSONLoader, nil, "{a: 1}", "", true},
		{"raw", RawLoader, nil, "a \"b\"\n", "module.exports = \"a \\\"b\\\"\\n\";\n", false},
	}
	reg := NewRegistryFS(fstest.MapFS{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, err := reg.Open(tt.loader)
			if err != nil {
				t.Fatalf("Open(%q) error = %v", tt.loader, err)
			}
			got, err := l.Load(context.Background(), &Context{Query: tt.query}, tt.source)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Load() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistryNames(t *testing.T) {
	t.Parallel()

	reg := NewRegistryFS(fstest.MapFS{})
	reg.Register("custom", tagLoader("c"))
	want := []string{BannerLoader, "custom", JSONLoader, RawLoader, ReplaceLoader}
	if diff := cmp.Diff(want, reg.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestRuleMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule Rule
		res  string
		want bool
	}{
		{"test matches", Rule{Test: regexp.MustCompile(`\.js$`)}, "a.js", true},
		{"test rejects", Rule{Test: regexp.MustCompile(`\.css$`)}, "a.js", false},
		{"nil test", Rule{}, "a.js", true},
		{"include matches", Rule{Include: []string{"lib/**"}}, "lib/x/a.js", true},
		{"include rejects", Rule{Include: []string{"lib/**"}}, "app/a.js", false},
		{"exclude wins", Rule{Test: regexp.MustCompile(`\.js$`), Exclude: []string{"**/vendor/**"}}, "lib/vendor/a.js", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.rule.Matches(resource(tt.res)); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.res, got, tt.want)
			}
		})
	}
}

func TestNormalizeUse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      any
		want    []Use
		wantErr bool
	}{
		{"string", "banner", []Use{{Loader: "banner"}}, false},
		{"descriptor", map[string]any{"loader": "banner", "options": map[string]any{"text": "x"}},
			[]Use{{Loader: "banner", Options: map[string]any{"text": "x"}}}, false},
		{"mixed list", []any{"a", map[string]any{"loader": "b"}}, []Use{{Loader: "a"}, {Loader: "b"}}, false},
		{"string list", []string{"a", "b"}, []Use{{Loader: "a"}, {Loader: "b"}}, false},
		{"nil", nil, nil, false},
		{"descriptor without loader", map[string]any{"options": map[string]any{}}, nil, true},
		{"bad options", map[string]any{"loader": "a", "options": "x"}, nil, true},
		{"nested list", []any{[]any{"a"}}, nil, true},
		{"number", 3, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeUse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeUse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidUse) {
					t.Errorf("expected ErrInvalidUse, got %v", err)
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeUse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
