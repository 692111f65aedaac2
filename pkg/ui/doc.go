// Package ui renders human-facing output for igexport: colored status lines,
// a pagination progress bar and optional desktop notifications. Everything
// here writes to stderr by default; stdout is reserved for the JSON export.
package ui
