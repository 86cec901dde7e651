// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

const (
	// StagePre rules run on the raw file before it is parsed.
	StagePre Stage = "pre"
	// StagePost rules run on the rewritten module code.
	StagePost Stage = "post"
)

// ErrUnknownLoader is returned when a loader reference cannot be resolved.
var ErrUnknownLoader = errors.New("unknown loader")

type (
	// Stage selects when a rule is applied.
	Stage string

	// Loader transforms the code of one module.
	Loader interface {
		Load(ctx context.Context, lc *Context, source string) (string, error)
	}

	// Func adapts a function to the Loader interface.
	Func func(ctx context.Context, lc *Context, source string) (string, error)

	// Context is what a loader knows about the module it transforms.
	Context struct {
		// Query holds the options configured for this loader in the rule.
		Query map[string]any
		// ResourcePath is the absolute path of the module file.
		ResourcePath string
		// RootDir is the absolute project root.
		RootDir string
	}

	// Use is one entry of a rule's use list.
	Use struct {
		Loader  string         `json:"loader" mapstructure:"loader"`
		Options map[string]any `json:"options,omitempty" mapstructure:"options"`
	}

	// Resource identifies the module a pipeline runs for.
	Resource struct {
		// Path is the normalized module path.
		Path string
		// Name is the slash-separated file name relative to the root.
		Name string
		// Abs is the absolute file path.
		Abs string
		// Root is the absolute project root.
		Root string
	}

	// UnknownLoaderError reports a loader reference nothing could resolve.
	UnknownLoaderError struct {
		Ref    string
		Reason error
	}

	// TransformError reports a loader that failed on a module.
	TransformError struct {
		Loader string
		Path   string
		Err    error
	}
)

// Load calls f.
func (f Func) Load(ctx context.Context, lc *Context, source string) (string, error) {
	return f(ctx, lc, source)
}

// Valid reports whether s names a known stage.
func (s Stage) Valid() bool {
	return s == StagePre || s == StagePost
}

// Option returns the option key, if set.
func (c *Context) Option(key string) (any, bool) {
	if c == nil || c.Query == nil {
		return nil, false
	}
	v, ok := c.Query[key]
	return v, ok
}

// Decode copies the options into out, a pointer to a struct tagged with
// mapstructure keys. Scalars are converted where the types differ.
func (c *Context) Decode(out any) error {
	var query map[string]any
	if c != nil {
		query = c.Query
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(query); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	return nil
}

// StringOption returns the option key as a string, or def when it is unset
// or not a string.
func (c *Context) StringOption(key, def string) string {
	v, ok := c.Option(key)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

func (e *UnknownLoaderError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("unknown loader %q: %v", e.Ref, e.Reason)
	}
	return fmt.Sprintf("unknown loader %q", e.Ref)
}

func (e *UnknownLoaderError) Unwrap() []error {
	if e.Reason != nil {
		return []error{ErrUnknownLoader, e.Reason}
	}
	return []error{ErrUnknownLoader}
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("loader %q failed on %s: %v", e.Loader, e.Path, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}
