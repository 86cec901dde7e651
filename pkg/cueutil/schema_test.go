// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Config: {
	name?:  string & !=""
	mode?:  "fast" | "slow"
	items?: [...{id: int}]
}
`

func mustCompile(t *testing.T) *Schema {
	t.Helper()
	s, err := Compile(testSchema, "#Config")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return s
}

func TestCompileMissingDefinition(t *testing.T) {
	t.Parallel()

	if _, err := Compile(testSchema, "#Missing"); err == nil {
		t.Error("expected error for missing definition")
	}
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	s := mustCompile(t)
	got, err := s.DecodeFile([]byte(`name: "x"
mode: "fast"
`), "ok.cue")
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if got["name"] != "x" || got["mode"] != "fast" {
		t.Errorf("DecodeFile() = %v", got)
	}

	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"syntax error", "name: ", "bad.cue"},
		{"unknown field", `color: "red"`, "color"},
		{"bad enum", `mode: "medium"`, "mode"},
		{"nested index", `items: [{id: 1}, {id: "two"}]`, "items[1].id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := s.DecodeFile([]byte(tt.src), "bad.cue")
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	s := mustCompile(t)
	if err := s.Check(map[string]any{"name": "x", "items": []any{map[string]any{"id": 1}}}, "ok.toml"); err != nil {
		t.Errorf("Check() error = %v", err)
	}
	err := s.Check(map[string]any{"mode": "medium"}, "bad.toml")
	if err == nil || !strings.Contains(err.Error(), "bad.toml: mode") {
		t.Errorf("expected error naming bad.toml and mode, got %v", err)
	}
}
