// SPDX-License-Identifier: MPL-2.0

// Package issue turns build failures into user-facing messages: an error type
// carrying the failed operation and fix suggestions, and a catalog of
// Markdown explanations rendered with glamour.
package issue
