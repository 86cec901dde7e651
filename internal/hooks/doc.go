// SPDX-License-Identifier: MPL-2.0

// Package hooks provides named, synchronous lifecycle notification points.
package hooks
