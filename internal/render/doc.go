// Package render turns compiled IR into source text.
//
// The set of templates is fixed; each is embedded into the binary and parsed
// once by New. Rendering only iterates ordered slices of the IR, so the same
// IR always yields the same text.
package render
