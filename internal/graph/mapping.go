// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"errors"
	"fmt"

	"github.com/coderlyu/mini-webpack/internal/rewrite"
)

// ErrDuplicateModule is returned when a path is added to a Mapping twice.
var ErrDuplicateModule = errors.New("module already in mapping")

type (
	// Module is one finalized module of the graph.
	Module struct {
		// Path is the normalized module path and the key in the bundle.
		Path string
		// File is the absolute path of the source file.
		File string
		// Source is the raw file content.
		Source string
		// Code is the module body after rewriting and loaders.
		Code string
		// Dependencies are the normalized paths the module requires, in
		// source order, duplicates included.
		Dependencies []string
		// Dialect is the module system the source was written in.
		Dialect rewrite.Dialect
	}

	// Mapping holds the finalized modules of one run. Each path is written
	// once and iteration follows insertion order.
	Mapping struct {
		order   []string
		modules map[string]*Module
		edges   *Edges
	}
)

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{
		modules: make(map[string]*Module),
		edges:   NewEdges(),
	}
}

// Add inserts a finalized module.
func (m *Mapping) Add(mod *Module) error {
	if _, ok := m.modules[mod.Path]; ok {
		return fmt.Errorf("%s: %w", mod.Path, ErrDuplicateModule)
	}
	m.modules[mod.Path] = mod
	m.order = append(m.order, mod.Path)
	m.edges.AddNode(mod.Path)
	for _, dep := range mod.Dependencies {
		m.edges.AddEdge(mod.Path, dep)
	}
	return nil
}

// Get returns the module at path p.
func (m *Mapping) Get(p string) (*Module, bool) {
	mod, ok := m.modules[p]
	return mod, ok
}

// Len returns the number of modules.
func (m *Mapping) Len() int {
	return len(m.order)
}

// Paths returns module paths in insertion order.
func (m *Mapping) Paths() []string {
	return append([]string(nil), m.order...)
}

// Modules returns the modules in insertion order.
func (m *Mapping) Modules() []*Module {
	mods := make([]*Module, 0, len(m.order))
	for _, p := range m.order {
		mods = append(mods, m.modules[p])
	}
	return mods
}

// Code returns path → final code.
func (m *Mapping) Code() map[string]string {
	code := make(map[string]string, len(m.modules))
	for p, mod := range m.modules {
		code[p] = mod.Code
	}
	return code
}

// Edges returns the import relation between the modules.
func (m *Mapping) Edges() *Edges {
	return m.edges
}

// Missing returns every dependency that has no module, in first-seen order.
// It is empty once a walk has succeeded.
func (m *Mapping) Missing() []string {
	var missing []string
	seen := make(map[string]bool)
	for _, p := range m.order {
		for _, dep := range m.modules[p].Dependencies {
			if _, ok := m.modules[dep]; !ok && !seen[dep] {
				seen[dep] = true
				missing = append(missing, dep)
			}
		}
	}
	return missing
}
