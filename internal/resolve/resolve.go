// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

const (
	// Prefix starts every normalized path.
	Prefix = "./"

	indexFile = "index.js"
)

var (
	// ErrOutsideRoot is returned when a specifier points above the project root.
	ErrOutsideRoot = errors.New("path escapes project root")
	// ErrNotFound is returned when no file matches a normalized path.
	ErrNotFound = errors.New("module file not found")

	// moduleExts are the extensions that count as already explicit for
	// ES module specifiers.
	moduleExts = []string{".js", ".mjs", ".cjs", ".json"}
	// probeExts are tried, in order, when a path has no matching file.
	probeExts = []string{".js", ".json"}
)

type (
	// Resolver maps specifiers to normalized paths and finds files for them.
	Resolver struct {
		root string
		fsys fs.FS
	}

	// File is a located module file.
	File struct {
		// Path is the normalized module path the file was located for.
		Path string
		// Name is the slash-separated name of the file within the root filesystem.
		Name string
		// Abs is the absolute OS path of the file.
		Abs string
		// Source is the raw file content.
		Source string
	}
)

// New returns a Resolver reading files from the root directory on disk.
func New(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root %q: %w", root, err)
	}
	return &Resolver{root: abs, fsys: os.DirFS(abs)}, nil
}

// NewFS returns a Resolver over fsys, reporting absolute paths below root.
func NewFS(root string, fsys fs.FS) *Resolver {
	return &Resolver{root: root, fsys: fsys}
}

// Root returns the absolute project root.
func (r *Resolver) Root() string {
	return r.root
}

// Entry normalizes an entry path given relative to the project root.
func (r *Resolver) Entry(entry string) (string, error) {
	if filepath.IsAbs(entry) {
		rel, err := filepath.Rel(r.root, entry)
		if err != nil {
			return "", fmt.Errorf("%s: %w", entry, ErrOutsideRoot)
		}
		entry = rel
	}
	return normalize(filepath.ToSlash(entry))
}

// Specifier normalizes spec as written in the module at importer, itself a
// normalized path. When esm is set a ".js" extension is appended unless the
// specifier already names a module extension.
func (r *Resolver) Specifier(importer, spec string, esm bool) (string, error) {
	var joined string
	if filepath.IsAbs(spec) {
		rel, err := filepath.Rel(r.root, spec)
		if err != nil {
			return "", fmt.Errorf("%s: %w", spec, ErrOutsideRoot)
		}
		joined = filepath.ToSlash(rel)
	} else {
		dir := path.Dir(strings.TrimPrefix(importer, Prefix))
		joined = path.Join(dir, strings.ReplaceAll(spec, `\`, "/"))
	}
	p, err := normalize(joined)
	if err != nil {
		return "", fmt.Errorf("%s from %s: %w", spec, importer, err)
	}
	if esm && !hasModuleExt(p) {
		p += ".js"
	}
	return p, nil
}

// Locate finds the file for a normalized path. It tries the path itself,
// then the path with each probe extension, then an index.js inside it.
func (r *Resolver) Locate(p string) (string, error) {
	name := strings.TrimPrefix(p, Prefix)
	candidates := []string{name}
	for _, ext := range probeExts {
		candidates = append(candidates, name+ext)
	}
	candidates = append(candidates, path.Join(name, indexFile))

	for _, c := range candidates {
		if !fs.ValidPath(c) {
			continue
		}
		info, err := fs.Stat(r.fsys, c)
		if err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%s: %w", p, ErrNotFound)
}

// Load locates and reads the file for a normalized path.
func (r *Resolver) Load(p string) (*File, error) {
	name, err := r.Locate(p)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return &File{
		Path:   p,
		Name:   name,
		Abs:    filepath.Join(r.root, filepath.FromSlash(name)),
		Source: string(data),
	}, nil
}

func normalize(p string) (string, error) {
	p = path.Clean(p)
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", ErrOutsideRoot
	}
	return Prefix + strings.TrimPrefix(p, "/"), nil
}

func hasModuleExt(p string) bool {
	return slices.Contains(moduleExts, path.Ext(p))
}
