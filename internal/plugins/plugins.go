// SPDX-License-Identifier: MPL-2.0

package plugins

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/coderlyu/mini-webpack/internal/compiler"
	"github.com/coderlyu/mini-webpack/internal/config"
)

// ErrUnknownPlugin is returned for a plugin name with no builtin behind it.
var ErrUnknownPlugin = errors.New("unknown plugin")

// factory builds a plugin from its configured options.
type factory func(options map[string]any) (compiler.Plugin, error)

var builtins = map[string]factory{
	ManifestName: newManifest,
	ProgressName: newProgress,
}

// Names returns the builtin plugin names, sorted.
func Names() []string {
	names := maps.Keys(builtins)
	slices.Sort(names)
	return names
}

// New builds the named plugin.
func New(name string, options map[string]any) (compiler.Plugin, error) {
	f, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPlugin, name, Names())
	}
	p, err := f(options)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", name, err)
	}
	return p, nil
}

// FromConfig builds the configured plugins in order.
func FromConfig(cfgs []config.PluginConfig) ([]compiler.Plugin, error) {
	out := make([]compiler.Plugin, 0, len(cfgs))
	for _, pc := range cfgs {
		p, err := New(pc.Name, pc.Options)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// decodeOptions decodes plugin options into out, rejecting unknown keys.
func decodeOptions(options map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(options)
}
