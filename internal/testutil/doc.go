// SPDX-License-Identifier: MPL-2.0

// Package testutil holds helpers shared by the package tests, such as a
// manually driven clock for code that reports elapsed time.
package testutil
