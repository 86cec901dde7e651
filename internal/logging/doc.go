// SPDX-License-Identifier: MPL-2.0

// Package logging builds the charmbracelet/log logger used by the bundler
// and carries it through context.Context.
package logging
