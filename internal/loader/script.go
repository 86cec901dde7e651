// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

var errNotAFunction = errors.New("module.exports is not a function")

// scriptLoader runs a JavaScript loader file:
//
//	module.exports = function (source) { return source + this.query.suffix; };
//
// The function is called with this bound to {query, resourcePath, rootContext}.
type scriptLoader struct {
	ref string
	vm  *goja.Runtime
	fn  goja.Callable
}

func compileScript(ref, src string) (*scriptLoader, error) {
	vm := goja.New()
	module := vm.NewObject()
	exports := vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, err
	}
	if err := vm.Set("module", module); err != nil {
		return nil, err
	}
	if err := vm.Set("exports", exports); err != nil {
		return nil, err
	}

	if _, err := vm.RunScript(ref, src); err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", ref, err)
	}

	fn, ok := goja.AssertFunction(module.Get("exports"))
	if !ok {
		return nil, errNotAFunction
	}
	return &scriptLoader{ref: ref, vm: vm, fn: fn}, nil
}

func (l *scriptLoader) Load(ctx context.Context, lc *Context, source string) (string, error) {
	this := l.vm.NewObject()
	if lc.Query != nil {
		if err := this.Set("query", lc.Query); err != nil {
			return "", err
		}
	}
	if err := this.Set("resourcePath", lc.ResourcePath); err != nil {
		return "", err
	}
	if err := this.Set("rootContext", lc.RootDir); err != nil {
		return "", err
	}

	stop := context.AfterFunc(ctx, func() {
		l.vm.Interrupt(ctx.Err())
	})
	defer func() {
		stop()
		l.vm.ClearInterrupt()
	}()

	out, err := l.fn(this, l.vm.ToValue(source))
	if err != nil {
		return "", err
	}
	if out == nil || goja.IsUndefined(out) || goja.IsNull(out) {
		return "", fmt.Errorf("%s returned no code", l.ref)
	}
	return out.String(), nil
}
