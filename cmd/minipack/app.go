// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/coderlyu/mini-webpack/internal/compiler"
	"github.com/coderlyu/mini-webpack/internal/config"
	"github.com/coderlyu/mini-webpack/internal/logging"
	"github.com/coderlyu/mini-webpack/internal/plugins"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires the CLI services. Every command handler receives it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewApp creates the CLI composition root.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{Config: deps.Config, stdout: deps.Stdout, stderr: deps.Stderr}
}

// loadConfig loads the configuration with the persistent flags and extra
// Viper key overrides applied.
func (a *App) loadConfig(ctx context.Context, flags *rootFlags, overrides map[string]any) (*config.Config, error) {
	opts := config.LoadOptions{
		ConfigFilePath: flags.configPath,
		Dir:            flags.dir,
		Overrides:      map[string]any{},
	}
	for k, v := range overrides {
		opts.Overrides[k] = v
	}
	if flags.logLevel != "" {
		opts.Overrides["log.level"] = flags.logLevel
	}
	if flags.logFormat != "" {
		opts.Overrides["log.format"] = flags.logFormat
	}
	return a.Config.Load(ctx, opts)
}

// newLogger builds the logger configured in cfg. Logs go to stderr.
func (a *App) newLogger(cfg *config.Config) (*log.Logger, error) {
	return logging.New(a.stderr, cfg.Log.Level, cfg.Log.Format)
}

// newCompiler prepares a compiler session with the configured plugins.
func (a *App) newCompiler(cfg *config.Config) (*compiler.Compiler, error) {
	logger, err := a.newLogger(cfg)
	if err != nil {
		return nil, err
	}
	opts, err := compiler.OptionsFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	plugs, err := plugins.FromConfig(cfg.Plugins)
	if err != nil {
		return nil, err
	}
	return compiler.New(opts, plugs...)
}
