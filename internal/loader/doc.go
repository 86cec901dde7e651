// SPDX-License-Identifier: MPL-2.0

// Package loader implements the source transform pipeline. Rules select
// loaders by module path; the loaders of a matching rule run right to left.
// Loaders are builtin transforms, JavaScript files evaluated with goja, or
// shell scripts interpreted with mvdan.cc/sh.
package loader
