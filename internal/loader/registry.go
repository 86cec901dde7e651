// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type (
	// Opener resolves a loader reference.
	Opener interface {
		Open(ref string) (Loader, error)
	}

	// Registry resolves loader references. Plain names are builtin
	// loaders; references ending in .js, .cjs or .sh are files below the
	// project root.
	Registry struct {
		fsys  fs.FS
		named map[string]Loader
	}
)

// NewRegistry returns a registry with the builtin loaders that reads loader
// files from root.
func NewRegistry(root string) *Registry {
	return NewRegistryFS(os.DirFS(root))
}

// NewRegistryFS is NewRegistry over an arbitrary filesystem.
func NewRegistryFS(fsys fs.FS) *Registry {
	return &Registry{fsys: fsys, named: builtins()}
}

// Register adds or replaces a named loader.
func (r *Registry) Register(name string, l Loader) {
	r.named[name] = l
}

// Names returns the registered loader names, sorted.
func (r *Registry) Names() []string {
	names := maps.Keys(r.named)
	slices.Sort(names)
	return names
}

// Open resolves ref to a loader.
func (r *Registry) Open(ref string) (Loader, error) {
	if l, ok := r.named[ref]; ok {
		return l, nil
	}

	switch path.Ext(ref) {
	case ".js", ".cjs":
		src, name, err := r.read(ref)
		if err != nil {
			return nil, err
		}
		l, err := compileScript(name, src)
		if err != nil {
			return nil, &UnknownLoaderError{Ref: ref, Reason: err}
		}
		return l, nil
	case ".sh":
		src, name, err := r.read(ref)
		if err != nil {
			return nil, err
		}
		l, err := parseShell(name, src)
		if err != nil {
			return nil, &UnknownLoaderError{Ref: ref, Reason: err}
		}
		return l, nil
	default:
		return nil, &UnknownLoaderError{Ref: ref}
	}
}

func (r *Registry) read(ref string) (src, name string, err error) {
	name = path.Clean(strings.TrimPrefix(filepath.ToSlash(ref), "./"))
	if !fs.ValidPath(name) {
		return "", "", &UnknownLoaderError{Ref: ref, Reason: fmt.Errorf("%q is not inside the project root", ref)}
	}
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return "", "", &UnknownLoaderError{Ref: ref, Reason: err}
	}
	return string(data), name, nil
}
