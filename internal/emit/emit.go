// SPDX-License-Identifier: MPL-2.0

package emit

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/coderlyu/mini-webpack/internal/graph"
)

const (
	// DefaultFilename is the bundle name used when none is configured.
	DefaultFilename = "bundle.js"

	filePerm = 0o644
)

var (
	//go:embed runtime.js.tmpl
	runtimeTemplate string

	// ErrOutputDirMissing is returned when the output directory does not exist.
	ErrOutputDirMissing = errors.New("output directory does not exist")
	// ErrTemplate is returned when the bundle template cannot be read, parsed
	// or executed.
	ErrTemplate = errors.New("bundle template error")
)

type (
	// Options configures an Emitter.
	Options struct {
		// Dir is the output directory. It must exist.
		Dir string
		// Filename is the bundle file name inside Dir.
		Filename string
		// Template is the path of a custom text/template file. Empty means
		// the embedded runtime template.
		Template string
	}

	// Data is what the bundle template is executed with.
	Data struct {
		// Modules lists the bundled modules in mapping order.
		Modules []Entry
		// Order lists the module paths in mapping order.
		Order []string
		// EntryPath is the normalized path of the entry module.
		EntryPath string
	}

	// Entry is one module in the template data.
	Entry struct {
		Path string
		Code string
	}

	// Emitter renders and writes bundles.
	Emitter struct {
		tmpl *template.Template
		dir  string
		file string
	}
)

// New parses the bundle template.
func New(opts Options) (*Emitter, error) {
	name, text := "runtime", runtimeTemplate
	if opts.Template != "" {
		data, err := os.ReadFile(opts.Template)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
		}
		name, text = filepath.Base(opts.Template), string(data)
	}

	tmpl, err := template.New(name).Funcs(template.FuncMap{"quote": quote}).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}

	file := opts.Filename
	if file == "" {
		file = DefaultFilename
	}
	return &Emitter{tmpl: tmpl, dir: opts.Dir, file: file}, nil
}

// OutputPath returns the path the bundle is written to.
func (e *Emitter) OutputPath() string {
	return filepath.Join(e.dir, e.file)
}

// Render executes the template for m.
func (e *Emitter) Render(m *graph.Mapping, entry string) (string, error) {
	data := Data{EntryPath: entry, Order: m.Paths()}
	for _, mod := range m.Modules() {
		data.Modules = append(data.Modules, Entry{Path: mod.Path, Code: mod.Code})
	}

	var b strings.Builder
	if err := e.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return b.String(), nil
}

// Write stores content at OutputPath. The file is written next to its
// destination and renamed into place.
func (e *Emitter) Write(content string) (string, error) {
	info, err := os.Stat(e.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", e.dir, ErrOutputDirMissing)
		}
		return "", fmt.Errorf("checking output directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory: %w", e.dir, ErrOutputDirMissing)
	}

	tmp, err := os.CreateTemp(e.dir, ".minipack-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("writing bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing bundle: %w", err)
	}
	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return "", fmt.Errorf("setting bundle permissions: %w", err)
	}

	out := e.OutputPath()
	if err := os.Rename(tmp.Name(), out); err != nil {
		return "", fmt.Errorf("replacing bundle: %w", err)
	}
	renamed = true
	return out, nil
}

// Emit renders m and writes the bundle, returning the output path.
func (e *Emitter) Emit(m *graph.Mapping, entry string) (string, error) {
	content, err := e.Render(m, entry)
	if err != nil {
		return "", err
	}
	return e.Write(content)
}

// quote renders s as a double-quoted JavaScript string literal.
func quote(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
