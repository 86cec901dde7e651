// SPDX-License-Identifier: MPL-2.0

// Package compiler runs one bundling session.
//
// A Compiler owns the state of a single run: the module mapping, the loader
// cache and the lifecycle hooks. Plugins are applied when it is created and
// observe the run through the hooks, which fire in the order entryOption,
// run, compile, make, emit, done.
package compiler
