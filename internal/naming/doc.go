// Package naming contains the naming helpers shared by the compiler and the
// template renderer.
//
// Header guards, file stubs and generated class names are all derived from
// definition names through these functions so that every template agrees on
// the spelling.
package naming
