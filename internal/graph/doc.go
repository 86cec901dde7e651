// SPDX-License-Identifier: MPL-2.0

// Package graph walks the dependency graph of an entry module and collects
// the final code of every reachable module into a Mapping.
package graph
