// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Schema is a compiled CUE definition documents are checked against.
type Schema struct {
	ctx *cue.Context
	def cue.Value
}

// Compile compiles source and looks up the definition at path, e.g. "#Config".
func Compile(source, path string) (*Schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(source)
	if v.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", v.Err())
	}
	def := v.LookupPath(cue.ParsePath(path))
	if def.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", path, def.Err())
	}
	return &Schema{ctx: ctx, def: def}, nil
}

// DecodeFile compiles a CUE document, checks it against the schema and
// returns its fields. Optional fields may be left out.
func (s *Schema) DecodeFile(data []byte, filename string) (map[string]any, error) {
	if err := CheckFileSize(data, DefaultMaxFileSize, filename); err != nil {
		return nil, err
	}

	user := s.ctx.CompileBytes(data, cue.Filename(filename))
	if user.Err() != nil {
		return nil, FormatError(user.Err(), filename)
	}

	unified := s.def.Unify(user)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, FormatError(err, filename)
	}

	var values map[string]any
	if err := unified.Decode(&values); err != nil {
		return nil, FormatError(err, filename)
	}
	return values, nil
}

// Check validates values already decoded from another format, such as TOML
// or YAML, against the schema.
func (s *Schema) Check(values map[string]any, filename string) error {
	v := s.ctx.Encode(values)
	if v.Err() != nil {
		return FormatError(v.Err(), filename)
	}
	if err := s.def.Unify(v).Validate(cue.Concrete(false)); err != nil {
		return FormatError(err, filename)
	}
	return nil
}
