// SPDX-License-Identifier: MPL-2.0

// Package syntax wraps the tdewolff JavaScript parser with the pieces the
// bundler needs: parsing a module into a program, a slot-aware traversal that
// lets visitors replace expressions and splice statements in place, a few node
// constructors, and printing the program back to source text.
package syntax
