// SPDX-License-Identifier: MPL-2.0

package plugins

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/coderlyu/mini-webpack/internal/compiler"
)

// ProgressName is the configured name of the progress plugin.
const ProgressName = "progress"

type (
	// Progress logs every lifecycle hook with the time elapsed since the
	// compiler was created.
	Progress struct {
		level log.Level
		clock Clock
	}

	progressOptions struct {
		Level string `mapstructure:"level"`
	}
)

// NewProgress returns a Progress plugin logging at level. A nil clock
// reads the system time.
func NewProgress(level log.Level, clock Clock) *Progress {
	if clock == nil {
		clock = time.Now
	}
	return &Progress{level: level, clock: clock}
}

func newProgress(options map[string]any) (compiler.Plugin, error) {
	opts := progressOptions{Level: "info"}
	if err := decodeOptions(options, &opts); err != nil {
		return nil, err
	}
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	return NewProgress(level, nil), nil
}

// Apply taps every hook of c.
func (p *Progress) Apply(c *compiler.Compiler) {
	start := p.clock()
	for _, h := range c.Hooks.All() {
		name := h.Name()
		h.Tap(ProgressName, func() {
			c.Logger().Log(p.level, "hook", "name", name, "elapsed", p.clock().Sub(start).Round(time.Millisecond))
		})
	}
}
