// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/coderlyu/mini-webpack/internal/issue"
	"github.com/coderlyu/mini-webpack/pkg/cueutil"
)

const (
	// ConfigFileName is the base name of a discovered configuration file.
	ConfigFileName = "minipack.config"
	// EnvPrefix prefixes environment overrides, e.g. MINIPACK_ENTRY.
	EnvPrefix = "MINIPACK"

	// FormatTOML, FormatJSON and FormatYAML are the Marshal formats.
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	//go:embed config_schema.cue
	configSchema string

	// ConfigFileExts lists the discovered extensions in lookup order.
	ConfigFileExts = []string{".cue", ".toml", ".yaml", ".yml", ".json"}

	// ErrConfigNotFound is returned when --config names a missing file.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrUnsupportedFormat is returned for an unknown file extension or
	// Marshal format.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	schemaOnce sync.Once
	schema     *cueutil.Schema
	schemaErr  error
)

// Load reads the configuration with default options.
func Load(ctx context.Context) (*Config, error) {
	return NewProvider().Load(ctx, LoadOptions{})
}

func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path, err := findConfigFile(dir, opts.ConfigFilePath)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(opts.ConfigFilePath).
			WithSuggestion("Verify the file path passed to --config").
			WithSuggestion("Run 'minipack config show' without --config to see the defaults").
			Wrap(err).
			BuildError()
	}

	var raw map[string]any
	if path != "" {
		raw, err = readDocument(path)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check the file syntax for its format").
				WithSuggestion("Verify the values match the configuration schema").
				Wrap(err).
				BuildError()
		}
		if err := v.MergeConfigMap(scalarSettings(raw)); err != nil {
			return nil, fmt.Errorf("failed to merge config: %w", err)
		}
	}

	for key, val := range opts.Overrides {
		v.Set(key, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := decodeStructured(raw, &cfg); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Check the module.rules and plugins sections").
			Wrap(err).
			BuildError()
	}

	base := dir
	if path != "" {
		base = filepath.Dir(path)
	}
	root, err := filepath.Abs(resolveAgainst(base, cfg.Root))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	cfg.Root = root
	cfg.File = path

	if ok, errs := cfg.IsValid(); !ok {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Fix the fields listed above").
			Wrap(errors.Join(errs...)).
			BuildError()
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("entry", defaults.Entry)
	v.SetDefault("root", defaults.Root)
	v.SetDefault("traversal", defaults.Traversal)
	v.SetDefault("output.filename", defaults.Output.Filename)
	v.SetDefault("output.path", defaults.Output.Path)
	v.SetDefault("output.template", defaults.Output.Template)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
}

// findConfigFile returns the explicit path, or the first discovered file in
// dir, or an empty string when there is none.
func findConfigFile(dir, explicit string) (string, error) {
	if explicit != "" {
		if !filepath.IsAbs(explicit) {
			explicit = filepath.Join(dir, explicit)
		}
		if !fileExists(explicit) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
		}
		return explicit, nil
	}
	for _, ext := range ConfigFileExts {
		p := filepath.Join(dir, ConfigFileName+ext)
		if fileExists(p) {
			return p, nil
		}
	}
	return "", nil
}

// readDocument decodes a configuration file and checks it against the
// #Config schema.
func readDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	s, err := configSchemaValue()
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".cue" {
		return s.DecodeFile(data, path)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, err
	}
	var values map[string]any
	switch ext {
	case ".toml":
		err = toml.Unmarshal(data, &values)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &values)
	case ".json":
		err = json.Unmarshal(data, &values)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if values == nil {
		values = map[string]any{}
	}
	if err := s.Check(values, path); err != nil {
		return nil, err
	}
	return values, nil
}

func configSchemaValue() (*cueutil.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = cueutil.Compile(configSchema, "#Config")
	})
	return schema, schemaErr
}

// scalarSettings drops the sections Viper would corrupt: it lowercases
// every nested map key, including loader option names.
func scalarSettings(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, val := range raw {
		if k == "module" || k == "plugins" {
			continue
		}
		out[k] = val
	}
	return out
}

// decodeStructured decodes module.rules and plugins from the raw document.
func decodeStructured(raw map[string]any, cfg *Config) error {
	if mod, ok := raw["module"]; ok {
		if err := decode(mod, &cfg.Module); err != nil {
			return fmt.Errorf("module: %w", err)
		}
	}
	if plugins, ok := raw["plugins"]; ok {
		if err := decode(plugins, &cfg.Plugins); err != nil {
			return fmt.Errorf("plugins: %w", err)
		}
	}
	return nil
}

func decode(input, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// Marshal encodes cfg in the given format ("toml", "json" or "yaml").
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch format {
	case FormatTOML, "":
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("%w: %q (expected toml, json or yaml)", ErrUnsupportedFormat, format)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
