// SPDX-License-Identifier: MPL-2.0

// Package resolve turns import specifiers into normalized module paths and
// locates the corresponding files under the project root.
//
// A normalized path is relative to the project root, uses forward slashes and
// always starts with "./". It is the identity of a module for the whole build:
// the key of the module mapping and the argument passed to __webpack_require__
// at runtime.
package resolve
