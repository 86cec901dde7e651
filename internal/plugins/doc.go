// SPDX-License-Identifier: MPL-2.0

// Package plugins provides the builtin compiler plugins selected by the
// plugins section of the configuration.
package plugins
