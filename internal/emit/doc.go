// SPDX-License-Identifier: MPL-2.0

// Package emit renders a module mapping into a single bundle file. The
// default template embeds a small runtime that provides
// __webpack_require__ and its .d, .o and .r helpers.
package emit
