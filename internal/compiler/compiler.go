// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/coderlyu/mini-webpack/internal/config"
	"github.com/coderlyu/mini-webpack/internal/emit"
	"github.com/coderlyu/mini-webpack/internal/graph"
	"github.com/coderlyu/mini-webpack/internal/hooks"
	"github.com/coderlyu/mini-webpack/internal/loader"
	"github.com/coderlyu/mini-webpack/internal/logging"
	"github.com/coderlyu/mini-webpack/internal/resolve"
	"github.com/coderlyu/mini-webpack/internal/rewrite"
)

// ErrPlugin is wrapped by errors reported from plugin listeners.
var ErrPlugin = errors.New("plugin failed")

type (
	// Plugin extends a compiler. Apply is called once, before the
	// entryOption hook fires, and usually taps hooks.
	Plugin interface {
		Apply(c *Compiler)
	}

	// PluginFunc adapts a function to Plugin.
	PluginFunc func(c *Compiler)

	// Options configures a Compiler.
	Options struct {
		// Root is the project root. Module paths are relative to it.
		Root string
		// Entry is the entry module, relative to Root unless absolute.
		Entry string
		// Strategy is the traversal order. Empty means depth-first.
		Strategy graph.Strategy
		// Rules select the loaders applied to each module.
		Rules []loader.Rule
		// Output configures the bundle file.
		Output emit.Options
		// Logger receives build logs. Nil discards them.
		Logger *log.Logger
		// Registry resolves loader references. Nil means the builtin
		// loaders plus loader files below Root.
		Registry *loader.Registry
	}

	// Result describes a finished build.
	Result struct {
		Mapping  *graph.Mapping
		Output   string
		Size     int
		Duration time.Duration
	}

	// Compiler is one bundling session.
	Compiler struct {
		// Hooks are the lifecycle hooks plugins tap.
		Hooks *hooks.Set

		resolver *resolve.Resolver
		registry *loader.Registry
		cache    *loader.Cache
		pipeline *loader.Pipeline
		emitter  *emit.Emitter
		logger   *log.Logger
		strategy graph.Strategy
		entry    string

		mapping *graph.Mapping
		errs    []error
	}
)

// Apply calls f(c).
func (f PluginFunc) Apply(c *Compiler) { f(c) }

// New prepares a session, applies plugins and fires entryOption.
func New(opts Options, plugins ...Plugin) (*Compiler, error) {
	resolver, err := resolve.New(opts.Root)
	if err != nil {
		return nil, err
	}
	entry, err := resolver.Entry(opts.Entry)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", opts.Entry, err)
	}
	strategy, err := graph.ParseStrategy(string(opts.Strategy))
	if err != nil {
		return nil, err
	}
	emitter, err := emit.New(opts.Output)
	if err != nil {
		return nil, err
	}

	registry := opts.Registry
	if registry == nil {
		registry = loader.NewRegistry(resolver.Root())
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	cache := loader.NewCache(registry)
	c := &Compiler{
		Hooks:    hooks.NewSet(),
		resolver: resolver,
		registry: registry,
		cache:    cache,
		pipeline: loader.NewPipeline(opts.Rules, cache),
		emitter:  emitter,
		logger:   logger,
		strategy: strategy,
		entry:    entry,
	}
	for _, p := range plugins {
		p.Apply(c)
	}
	c.Hooks.EntryOption.Call()
	return c, nil
}

// OptionsFromConfig maps a loaded configuration to compiler options.
func OptionsFromConfig(cfg *config.Config, logger *log.Logger) (Options, error) {
	rules, err := cfg.LoaderRules()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Root:     cfg.Root,
		Entry:    cfg.Entry,
		Strategy: graph.Strategy(cfg.Traversal),
		Rules:    rules,
		Output: emit.Options{
			Dir:      cfg.OutputDir(),
			Filename: cfg.Output.Filename,
			Template: cfg.TemplatePath(),
		},
		Logger: logger,
	}, nil
}

// Root returns the absolute project root.
func (c *Compiler) Root() string { return c.resolver.Root() }

// Entry returns the normalized entry path.
func (c *Compiler) Entry() string { return c.entry }

// Logger returns the session logger.
func (c *Compiler) Logger() *log.Logger { return c.logger }

// Registry returns the loader registry. Plugins may register loaders on it
// before the run starts.
func (c *Compiler) Registry() *loader.Registry { return c.registry }

// Cache returns the session's loader cache.
func (c *Compiler) Cache() *loader.Cache { return c.cache }

// OutputPath returns the path the bundle is written to.
func (c *Compiler) OutputPath() string { return c.emitter.OutputPath() }

// Mapping returns the mapping of the last walk, or nil before one finished.
func (c *Compiler) Mapping() *graph.Mapping { return c.mapping }

// ReportError records a plugin failure. Run returns it after the done hook.
func (c *Compiler) ReportError(err error) {
	if err != nil {
		c.errs = append(c.errs, fmt.Errorf("%w: %w", ErrPlugin, err))
	}
}

// Run builds the bundle. Nothing is written unless every module was found,
// parsed and transformed.
func (c *Compiler) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	c.Hooks.Run.Call()
	c.Hooks.Compile.Call()
	c.Hooks.Make.Call()

	mapping, err := c.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	content, err := c.emitter.Render(mapping, c.entry)
	if err != nil {
		return nil, err
	}

	c.Hooks.Emit.Call()
	out, err := c.emitter.Write(content)
	if err != nil {
		return nil, err
	}
	res := &Result{Mapping: mapping, Output: out, Size: len(content), Duration: time.Since(start)}
	c.logger.Info("bundle written", "output", out, "modules", mapping.Len(), "bytes", res.Size)

	c.Hooks.Done.Call()
	if len(c.errs) > 0 {
		return res, errors.Join(c.errs...)
	}
	return res, nil
}

// Analyze walks the dependency graph without emitting.
func (c *Compiler) Analyze(ctx context.Context) (*graph.Mapping, error) {
	ctx = logging.WithLogger(ctx, c.logger)
	w := graph.NewWalker(c.resolver, rewrite.New(c.resolver),
		graph.WithStrategy(c.strategy),
		graph.WithTransformer(c.pipeline),
		graph.OnModule(func(m *graph.Module) {
			c.logger.Debug("module", "path", m.Path, "dialect", m.Dialect, "deps", len(m.Dependencies))
		}),
	)
	mapping, err := w.Walk(ctx, c.entry)
	if err != nil {
		return nil, err
	}
	c.mapping = mapping
	return mapping, nil
}
