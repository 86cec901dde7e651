// SPDX-License-Identifier: MPL-2.0

package hooks

// Lifecycle hook names, in the order a build fires them.
const (
	EntryOption = "entryOption"
	Run         = "run"
	Compile     = "compile"
	Make        = "make"
	Emit        = "emit"
	Done        = "done"
)

type (
	// Hook is an ordered list of listeners.
	Hook struct {
		name string
		taps []tap
	}

	tap struct {
		name string
		fn   func()
	}

	// Set holds the lifecycle hooks of one compiler.
	Set struct {
		EntryOption *Hook
		Run         *Hook
		Compile     *Hook
		Make        *Hook
		Emit        *Hook
		Done        *Hook
	}
)

// New returns an empty hook.
func New(name string) *Hook {
	return &Hook{name: name}
}

// Name returns the hook name.
func (h *Hook) Name() string {
	return h.name
}

// Tap registers fn under the listener name.
func (h *Hook) Tap(name string, fn func()) {
	h.taps = append(h.taps, tap{name: name, fn: fn})
}

// Call runs every listener in registration order.
func (h *Hook) Call() {
	for _, t := range h.taps {
		t.fn()
	}
}

// Taps returns the listener names in registration order.
func (h *Hook) Taps() []string {
	names := make([]string, 0, len(h.taps))
	for _, t := range h.taps {
		names = append(names, t.name)
	}
	return names
}

// NewSet returns the lifecycle hooks.
func NewSet() *Set {
	return &Set{
		EntryOption: New(EntryOption),
		Run:         New(Run),
		Compile:     New(Compile),
		Make:        New(Make),
		Emit:        New(Emit),
		Done:        New(Done),
	}
}

// All returns every hook in firing order.
func (s *Set) All() []*Hook {
	return []*Hook{s.EntryOption, s.Run, s.Compile, s.Make, s.Emit, s.Done}
}
