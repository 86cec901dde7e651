// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/coderlyu/mini-webpack/internal/loader"
	"github.com/coderlyu/mini-webpack/internal/logging"
	"github.com/coderlyu/mini-webpack/internal/resolve"
	"github.com/coderlyu/mini-webpack/internal/rewrite"
)

const (
	// DepthFirst finalizes dependencies before the module importing them.
	DepthFirst Strategy = "depth-first"
	// BreadthFirst finalizes modules in the order a work queue reaches them.
	BreadthFirst Strategy = "breadth-first"
)

var (
	// ErrModuleNotFound is wrapped by ModuleNotFoundError.
	ErrModuleNotFound = errors.New("module not found")
	// ErrInvalidStrategy is returned for an unknown traversal name.
	ErrInvalidStrategy = errors.New("invalid traversal strategy")
)

type (
	// Strategy is the traversal order of a walk.
	Strategy string

	// Source locates and reads module files.
	Source interface {
		Root() string
		Load(p string) (*resolve.File, error)
	}

	// Rewriter turns one module's source into runtime code.
	Rewriter interface {
		Rewrite(path, source string) (*rewrite.Result, error)
	}

	// Transformer applies loaders to module code.
	Transformer interface {
		Apply(ctx context.Context, stage loader.Stage, res loader.Resource, code string) (string, error)
	}

	// ModuleNotFoundError reports a dependency with no file behind it.
	ModuleNotFoundError struct {
		// Path is the normalized path that could not be located.
		Path string
		// Importer is the module that required Path. It is empty for the entry.
		Importer string
		Err      error
	}

	// Option configures a Walker.
	Option func(*Walker)

	// Walker visits every module reachable from an entry exactly once.
	Walker struct {
		source    Source
		rewriter  Rewriter
		transform Transformer
		strategy  Strategy
		onModule  func(*Module)
	}

	walk struct {
		*Walker
		mapping *Mapping
		seen    map[string]bool
	}

	queued struct {
		path     string
		importer string
	}
)

func (e *ModuleNotFoundError) Error() string {
	if e.Importer == "" {
		return fmt.Sprintf("entry module %s not found", e.Path)
	}
	return fmt.Sprintf("module %s not found (imported by %s)", e.Path, e.Importer)
}

func (e *ModuleNotFoundError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrModuleNotFound, e.Err}
	}
	return []error{ErrModuleNotFound}
}

// ParseStrategy validates a traversal name. An empty name means DepthFirst.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", DepthFirst:
		return DepthFirst, nil
	case BreadthFirst:
		return BreadthFirst, nil
	default:
		return "", fmt.Errorf("%w: %q (expected %s or %s)", ErrInvalidStrategy, s, DepthFirst, BreadthFirst)
	}
}

// WithStrategy sets the traversal order.
func WithStrategy(s Strategy) Option {
	return func(w *Walker) {
		w.strategy = s
	}
}

// WithTransformer applies loaders around the rewrite of each module.
func WithTransformer(t Transformer) Option {
	return func(w *Walker) {
		w.transform = t
	}
}

// OnModule registers a callback run after each module is finalized.
func OnModule(fn func(*Module)) Option {
	return func(w *Walker) {
		w.onModule = fn
	}
}

// NewWalker returns a depth-first Walker.
func NewWalker(src Source, rw Rewriter, opts ...Option) *Walker {
	w := &Walker{source: src, rewriter: rw, strategy: DepthFirst}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk visits entry, a normalized path, and everything it depends on.
func (w *Walker) Walk(ctx context.Context, entry string) (*Mapping, error) {
	s := &walk{Walker: w, mapping: NewMapping(), seen: make(map[string]bool)}

	var err error
	switch w.strategy {
	case DepthFirst:
		err = s.depthFirst(ctx, entry, "")
	case BreadthFirst:
		err = s.breadthFirst(ctx, entry)
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidStrategy, w.strategy)
	}
	if err != nil {
		return nil, err
	}
	return s.mapping, nil
}

func (s *walk) depthFirst(ctx context.Context, p, importer string) error {
	s.seen[p] = true
	mod, err := s.visit(ctx, p, importer)
	if err != nil {
		return err
	}
	for _, dep := range mod.Dependencies {
		if s.seen[dep] {
			continue
		}
		if err := s.depthFirst(ctx, dep, p); err != nil {
			return err
		}
	}
	return s.finalize(mod)
}

func (s *walk) breadthFirst(ctx context.Context, entry string) error {
	queue := []queued{{path: entry}}
	s.seen[entry] = true
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		mod, err := s.visit(ctx, next.path, next.importer)
		if err != nil {
			return err
		}
		if err := s.finalize(mod); err != nil {
			return err
		}
		for _, dep := range mod.Dependencies {
			if s.seen[dep] {
				continue
			}
			s.seen[dep] = true
			queue = append(queue, queued{path: dep, importer: next.path})
		}
	}
	return nil
}

// visit produces the module record for p: read, pre loaders, rewrite, post
// loaders.
func (s *walk) visit(ctx context.Context, p, importer string) (*Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := s.source.Load(p)
	if err != nil {
		if errors.Is(err, resolve.ErrNotFound) {
			return nil, &ModuleNotFoundError{Path: p, Importer: importer, Err: err}
		}
		return nil, err
	}

	res := loader.Resource{Path: p, Name: file.Name, Abs: file.Abs, Root: s.source.Root()}
	code := file.Source
	if s.transform != nil {
		if code, err = s.transform.Apply(ctx, loader.StagePre, res, code); err != nil {
			return nil, err
		}
	}

	// Specifiers resolve against the file found, which is lib/index.js for
	// a request of ./lib.
	result, err := s.rewriter.Rewrite(resolve.Prefix+file.Name, code)
	if err != nil {
		return nil, err
	}

	code = result.Code
	if s.transform != nil {
		if code, err = s.transform.Apply(ctx, loader.StagePost, res, code); err != nil {
			return nil, err
		}
	}

	logging.FromContext(ctx).Debug("visited module",
		"module", p, "dialect", result.Dialect.String(), "dependencies", len(result.Dependencies))

	return &Module{
		Path:         p,
		File:         file.Abs,
		Source:       file.Source,
		Code:         code,
		Dependencies: result.Dependencies,
		Dialect:      result.Dialect,
	}, nil
}

func (s *walk) finalize(mod *Module) error {
	if err := s.mapping.Add(mod); err != nil {
		return err
	}
	if s.onModule != nil {
		s.onModule(mod)
	}
	return nil
}
