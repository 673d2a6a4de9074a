// Package format runs rendered C and C++ sources through clang-format.
//
// Formatting never blocks writing: when the formatter fails the artifact
// keeps its unformatted content and the failure is reported as a warning.
package format
