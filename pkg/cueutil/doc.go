// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates configuration documents against an embedded CUE
// schema and formats CUE errors with JSON-style field paths.
//
//	schema, err := cueutil.Compile(schemaSource, "#Config")
//	if err != nil {
//	    return err
//	}
//	values, err := schema.DecodeFile(data, "minipack.config.cue")
package cueutil
