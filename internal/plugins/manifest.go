// SPDX-License-Identifier: MPL-2.0

package plugins

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/coderlyu/mini-webpack/internal/compiler"
	"github.com/coderlyu/mini-webpack/internal/graph"
)

const (
	// ManifestName is the configured name of the manifest plugin.
	ManifestName = "manifest"

	manifestJSON = "json"
	manifestYAML = "yaml"
)

type (
	// Manifest writes a description of the bundled modules next to the
	// bundle once it has been emitted.
	Manifest struct {
		format   string
		filename string
	}

	manifestOptions struct {
		Format   string `mapstructure:"format"`
		Filename string `mapstructure:"filename"`
	}

	// ManifestData is the document the manifest plugin writes.
	ManifestData struct {
		Entry   string           `json:"entry" yaml:"entry"`
		Output  string           `json:"output" yaml:"output"`
		Modules []ManifestModule `json:"modules" yaml:"modules"`
	}

	// ManifestModule describes one bundled module.
	ManifestModule struct {
		Path         string   `json:"path" yaml:"path"`
		File         string   `json:"file" yaml:"file"`
		Dialect      string   `json:"dialect" yaml:"dialect"`
		Bytes        int      `json:"bytes" yaml:"bytes"`
		Dependencies []string `json:"dependencies" yaml:"dependencies"`
		Importers    []string `json:"importers" yaml:"importers"`
	}
)

func newManifest(options map[string]any) (compiler.Plugin, error) {
	opts := manifestOptions{Format: manifestJSON}
	if err := decodeOptions(options, &opts); err != nil {
		return nil, err
	}
	if opts.Format != manifestJSON && opts.Format != manifestYAML {
		return nil, fmt.Errorf("format %q (expected json or yaml)", opts.Format)
	}
	if opts.Filename != "" && filepath.Base(opts.Filename) != opts.Filename {
		return nil, fmt.Errorf("filename %q must be a plain file name", opts.Filename)
	}
	return &Manifest{format: opts.Format, filename: opts.Filename}, nil
}

// Apply taps the done hook of c.
func (m *Manifest) Apply(c *compiler.Compiler) {
	c.Hooks.Done.Tap(ManifestName, func() {
		path, err := m.write(c)
		if err != nil {
			c.ReportError(fmt.Errorf("write manifest: %w", err))
			return
		}
		c.Logger().Info("manifest written", "path", path)
	})
}

// Path returns where the manifest of a bundle at output is written.
func (m *Manifest) Path(output string) string {
	if m.filename != "" {
		return filepath.Join(filepath.Dir(output), m.filename)
	}
	base := strings.TrimSuffix(output, filepath.Ext(output))
	return base + ".manifest." + m.format
}

func (m *Manifest) write(c *compiler.Compiler) (string, error) {
	output := c.OutputPath()
	data := BuildManifest(c.Mapping(), c.Entry(), filepath.Base(output))

	var (
		content []byte
		err     error
	)
	if m.format == manifestYAML {
		content, err = yaml.Marshal(data)
	} else {
		content, err = json.MarshalIndent(data, "", "  ")
		content = append(content, '\n')
	}
	if err != nil {
		return "", err
	}

	path := m.Path(output)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// BuildManifest describes the modules of mapping in mapping order.
func BuildManifest(mapping *graph.Mapping, entry, output string) ManifestData {
	data := ManifestData{Entry: entry, Output: output}
	edges := mapping.Edges()
	for _, mod := range mapping.Modules() {
		data.Modules = append(data.Modules, ManifestModule{
			Path:         mod.Path,
			File:         mod.File,
			Dialect:      mod.Dialect.String(),
			Bytes:        len(mod.Code),
			Dependencies: nonNil(edges.Imports(mod.Path)),
			Importers:    nonNil(edges.Importers(mod.Path)),
		})
	}
	return data
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
