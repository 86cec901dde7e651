// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"sync"
	"time"
)

// FakeClock is a time source that only moves when advanced. Its Now method
// satisfies any `func() time.Time` clock.
type FakeClock struct {
	mu sync.Mutex
	at time.Time
}

// NewFakeClock starts a FakeClock at start. A zero start is replaced by
// 2020-01-01 UTC so elapsed times never depend on the wall clock.
func NewFakeClock(start time.Time) *FakeClock {
	if start.IsZero() {
		start = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return &FakeClock{at: start}
}

// Now returns the current fake time.
func (f *FakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.at
}

// Advance moves the clock forward by d.
func (f *FakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.at = f.at.Add(d)
	f.mu.Unlock()
}
