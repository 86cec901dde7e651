// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/coderlyu/mini-webpack/internal/graph"
	"github.com/coderlyu/mini-webpack/internal/loader"
	"github.com/coderlyu/mini-webpack/internal/logging"
)

const (
	// DefaultEntry is the entry module, relative to the root.
	DefaultEntry = "./src/index.js"
	// DefaultOutputPath is the output directory, relative to the root.
	DefaultOutputPath = "dist"
	// DefaultOutputFilename is the bundle file name.
	DefaultOutputFilename = "bundle.js"
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidRule is returned for a rule that cannot be built.
	ErrInvalidRule = errors.New("invalid rule")
	// ErrInvalidOutput is returned for unusable output settings.
	ErrInvalidOutput = errors.New("invalid output")
	// ErrInvalidPlugin is returned for a plugin entry without a name.
	ErrInvalidPlugin = errors.New("invalid plugin")
)

type (
	// Config is the bundler configuration.
	Config struct {
		// Entry is the entry module, relative to Root unless absolute.
		Entry string `json:"entry" toml:"entry" yaml:"entry" mapstructure:"entry"`
		// Root is the project root every module path is relative to.
		Root string `json:"root" toml:"root" yaml:"root" mapstructure:"root"`
		// Traversal is "depth-first" or "breadth-first".
		Traversal string `json:"traversal" toml:"traversal" yaml:"traversal" mapstructure:"traversal"`
		// Module holds the loader rules.
		Module ModuleConfig `json:"module" toml:"module" yaml:"module" mapstructure:"module"`
		// Output configures the bundle file.
		Output OutputConfig `json:"output" toml:"output" yaml:"output" mapstructure:"output"`
		// Plugins are applied to the compiler in order.
		Plugins []PluginConfig `json:"plugins,omitempty" toml:"plugins,omitempty" yaml:"plugins,omitempty" mapstructure:"plugins"`
		// Log configures the logger.
		Log LogConfig `json:"log" toml:"log" yaml:"log" mapstructure:"log"`

		// File is the configuration file that was loaded, if any.
		File string `json:"-" toml:"-" yaml:"-" mapstructure:"-"`
	}

	// ModuleConfig holds the loader rules.
	ModuleConfig struct {
		Rules []RuleConfig `json:"rules,omitempty" toml:"rules,omitempty" yaml:"rules,omitempty" mapstructure:"rules"`
	}

	// RuleConfig is one configured rule.
	RuleConfig struct {
		// Test is a regular expression matched against the absolute file path.
		Test string `json:"test,omitempty" toml:"test,omitempty" yaml:"test,omitempty" mapstructure:"test"`
		// Include lists doublestar globs over root-relative paths.
		Include []string `json:"include,omitempty" toml:"include,omitempty" yaml:"include,omitempty" mapstructure:"include"`
		// Exclude lists doublestar globs over root-relative paths.
		Exclude []string `json:"exclude,omitempty" toml:"exclude,omitempty" yaml:"exclude,omitempty" mapstructure:"exclude"`
		// Use is a loader name, a {loader, options} object, or a list of both.
		Use any `json:"use" toml:"use" yaml:"use" mapstructure:"use"`
		// Stage is "pre" or "post" (default).
		Stage string `json:"stage,omitempty" toml:"stage,omitempty" yaml:"stage,omitempty" mapstructure:"stage"`
	}

	// OutputConfig configures the bundle file.
	OutputConfig struct {
		Filename string `json:"filename" toml:"filename" yaml:"filename" mapstructure:"filename"`
		Path     string `json:"path" toml:"path" yaml:"path" mapstructure:"path"`
		// Template is a text/template file replacing the builtin runtime.
		Template string `json:"template,omitempty" toml:"template,omitempty" yaml:"template,omitempty" mapstructure:"template"`
	}

	// PluginConfig selects a builtin plugin.
	PluginConfig struct {
		Name    string         `json:"name" toml:"name" yaml:"name" mapstructure:"name"`
		Options map[string]any `json:"options,omitempty" toml:"options,omitempty" yaml:"options,omitempty" mapstructure:"options"`
	}

	// LogConfig configures the logger.
	LogConfig struct {
		Level  string `json:"level" toml:"level" yaml:"level" mapstructure:"level"`
		Format string `json:"format" toml:"format" yaml:"format" mapstructure:"format"`
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Entry:     DefaultEntry,
		Root:      ".",
		Traversal: string(graph.DepthFirst),
		Output: OutputConfig{
			Filename: DefaultOutputFilename,
			Path:     DefaultOutputPath,
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
	}
}

// Build turns the configured rule into a loader rule.
func (r RuleConfig) Build() (loader.Rule, error) {
	var rule loader.Rule
	if r.Test != "" {
		re, err := regexp.Compile(r.Test)
		if err != nil {
			return rule, fmt.Errorf("%w: test %q: %w", ErrInvalidRule, r.Test, err)
		}
		rule.Test = re
	}

	uses, err := loader.NormalizeUse(r.Use)
	if err != nil {
		return rule, fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}
	if len(uses) == 0 {
		return rule, fmt.Errorf("%w: use is empty", ErrInvalidRule)
	}
	rule.Use = uses

	rule.Stage = loader.Stage(r.Stage)
	if rule.Stage != "" && !rule.Stage.Valid() {
		return rule, fmt.Errorf("%w: stage %q (expected pre or post)", ErrInvalidRule, r.Stage)
	}

	rule.Include, rule.Exclude = r.Include, r.Exclude
	if err := rule.ValidatePatterns(); err != nil {
		return rule, fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}
	return rule, nil
}

// LoaderRules builds every configured rule.
func (c *Config) LoaderRules() ([]loader.Rule, error) {
	rules := make([]loader.Rule, 0, len(c.Module.Rules))
	for i, rc := range c.Module.Rules {
		rule, err := rc.Build()
		if err != nil {
			return nil, fmt.Errorf("module.rules[%d]: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// OutputDir returns the output directory, resolved against Root.
func (c *Config) OutputDir() string {
	return resolveAgainst(c.Root, c.Output.Path)
}

// TemplatePath returns the custom template path resolved against Root, or
// an empty string.
func (c *Config) TemplatePath() string {
	if c.Output.Template == "" {
		return ""
	}
	return resolveAgainst(c.Root, c.Output.Template)
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Entry) == "" {
		errs = append(errs, errors.New("entry must not be empty"))
	}
	if _, err := graph.ParseStrategy(c.Traversal); err != nil {
		errs = append(errs, fmt.Errorf("traversal: %w", err))
	}
	if _, err := c.LoaderRules(); err != nil {
		errs = append(errs, err)
	}
	if f := c.Output.Filename; f == "" || filepath.Base(f) != f {
		errs = append(errs, fmt.Errorf("%w: filename %q must be a plain file name", ErrInvalidOutput, f))
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		errs = append(errs, fmt.Errorf("%w: path must not be empty", ErrInvalidOutput))
	}
	for i, p := range c.Plugins {
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("plugins[%d]: %w: name must not be empty", i, ErrInvalidPlugin))
		}
	}
	if _, err := logging.New(io.Discard, c.Log.Level, c.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

func resolveAgainst(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
