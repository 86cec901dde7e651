// SPDX-License-Identifier: MPL-2.0

package hooks

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHookCallOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	h := New(Emit)
	h.Tap("first", func() { calls = append(calls, "first") })
	h.Tap("second", func() { calls = append(calls, "second") })
	h.Tap("first", func() { calls = append(calls, "first again") })

	h.Call()
	h.Call()

	want := []string{"first", "second", "first again", "first", "second", "first again"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"first", "second", "first"}, h.Taps()); diff != "" {
		t.Errorf("Taps() mismatch (-want +got):\n%s", diff)
	}
}

func TestSetOrder(t *testing.T) {
	t.Parallel()

	s := NewSet()
	var names []string
	for _, h := range s.All() {
		names = append(names, h.Name())
	}
	want := []string{EntryOption, Run, Compile, Make, Emit, Done}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyHook(t *testing.T) {
	t.Parallel()

	New(Done).Call()
}
