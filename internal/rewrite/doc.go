// SPDX-License-Identifier: MPL-2.0

// Package rewrite converts a single module's import and export statements
// and its require calls into the __webpack_require__ calling convention
// understood by the bundle runtime, and reports the module's dependencies.
//
// A module is treated as an ES module when it contains an import or export
// statement at the top level, and as CommonJS otherwise. require calls are
// rewritten in both cases.
package rewrite
