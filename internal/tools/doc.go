// Package tools provides process helpers shared by the pipeline commands.
//
// Ownership boundary:
// - external command execution
//
// - exit code mapping for delegated work
package tools
