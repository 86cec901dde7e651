// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests verify Go struct JSON tags match CUE schema field names, so a
// renamed field cannot be silently ignored while decoding.

// extractCUEFields returns the top-level fields of a CUE struct definition,
// mapped to whether the field is optional.
func extractCUEFields(t *testing.T, val cue.Value) map[string]bool {
	t.Helper()

	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}

	fields := make(map[string]bool)
	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		fields[strings.TrimSuffix(sel.String(), "?")] = iter.IsOptional()
	}
	return fields
}

// extractGoJSONTags returns the JSON names of the exported fields of typ,
// mapped to whether the tag has omitempty. Fields tagged json:"-" are skipped.
func extractGoJSONTags(t *testing.T, typ reflect.Type) map[string]bool {
	t.Helper()

	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		t.Fatalf("expected struct type, got %s", typ.Kind())
	}

	fields := make(map[string]bool)
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		parts := strings.Split(field.Tag.Get("json"), ",")
		if parts[0] == "" || parts[0] == "-" {
			continue
		}
		fields[parts[0]] = slices.Contains(parts[1:], "omitempty")
	}
	return fields
}

func assertFieldsSync(t *testing.T, name string, cueFields, goFields map[string]bool) {
	t.Helper()

	for field := range cueFields {
		if _, ok := goFields[field]; !ok {
			t.Errorf("[%s] CUE field %q not found in Go struct (missing JSON tag)", name, field)
		}
	}
	for field := range goFields {
		if _, ok := cueFields[field]; !ok {
			t.Errorf("[%s] Go JSON tag %q not found in CUE schema", name, field)
		}
	}
}

func TestSchemaSync(t *testing.T) {
	t.Parallel()

	schema := cuecontext.New().CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile CUE schema: %v", schema.Err())
	}

	tests := []struct {
		def string
		typ reflect.Type
	}{
		{"#Config", reflect.TypeFor[Config]()},
		{"#Module", reflect.TypeFor[ModuleConfig]()},
		{"#Rule", reflect.TypeFor[RuleConfig]()},
		{"#Output", reflect.TypeFor[OutputConfig]()},
		{"#Plugin", reflect.TypeFor[PluginConfig]()},
		{"#Log", reflect.TypeFor[LogConfig]()},
	}
	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			t.Parallel()

			def := schema.LookupPath(cue.ParsePath(tt.def))
			if def.Err() != nil {
				t.Fatalf("failed to lookup %s: %v", tt.def, def.Err())
			}
			assertFieldsSync(t, tt.def, extractCUEFields(t, def), extractGoJSONTags(t, tt.typ))
		})
	}
}
