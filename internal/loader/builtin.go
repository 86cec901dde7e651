// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Builtin loader names.
const (
	BannerLoader  = "banner"
	ReplaceLoader = "replace"
	JSONLoader    = "json"
	RawLoader     = "raw"
)

var (
	errMissingOption = errors.New("missing option")
	errInvalidJSON   = errors.New("source is not valid JSON")
)

type (
	bannerOptions struct {
		Text string `mapstructure:"text"`
	}

	replaceOptions struct {
		Values map[string]any `mapstructure:"values"`
	}
)

func builtins() map[string]Loader {
	return map[string]Loader{
		BannerLoader:  Func(banner),
		ReplaceLoader: Func(replace),
		JSONLoader:    Func(jsonModule),
		RawLoader:     Func(rawModule),
	}
}

// banner prepends a comment holding the "text" option.
func banner(_ context.Context, lc *Context, source string) (string, error) {
	var opts bannerOptions
	if err := lc.Decode(&opts); err != nil {
		return "", err
	}
	text := opts.Text
	if text == "" {
		return "", fmt.Errorf("%w: text", errMissingOption)
	}
	text = strings.ReplaceAll(text, "*/", "* /")
	return "/*! " + text + " */\n" + source, nil
}

// replace substitutes every key of the "values" option with its value.
// Keys are applied in sorted order.
func replace(_ context.Context, lc *Context, source string) (string, error) {
	var opts replaceOptions
	if err := lc.Decode(&opts); err != nil {
		return "", err
	}
	values := opts.Values
	if values == nil {
		return "", fmt.Errorf("%w: values", errMissingOption)
	}
	keys := maps.Keys(values)
	slices.Sort(keys)
	for _, k := range keys {
		source = strings.ReplaceAll(source, k, fmt.Sprint(values[k]))
	}
	return source, nil
}

// jsonModule turns a JSON document into a CommonJS module exporting it.
func jsonModule(_ context.Context, _ *Context, source string) (string, error) {
	trimmed := strings.TrimSpace(source)
	if !json.Valid([]byte(trimmed)) {
		return "", errInvalidJSON
	}
	return "module.exports = " + trimmed + ";\n", nil
}

// rawModule exports the file content as a string.
func rawModule(_ context.Context, _ *Context, source string) (string, error) {
	quoted, err := json.Marshal(source)
	if err != nil {
		return "", err
	}
	return "module.exports = " + string(quoted) + ";\n", nil
}
