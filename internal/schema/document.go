package schema

import (
	"time"

	"cuelang.org/go/cue"
)

// Document is a validated definition with schema defaults applied.
//
// Value iterates object fields in the order they appear in the source
// file; fields filled from schema defaults follow the declared ones.
type Document struct {
	Path     string
	Category string
	Value    cue.Value
	JSON     []byte    // compact JSON of the source document, before defaults
	ModTime  time.Time // zero when the document was not read from disk
}

// Lookup returns the value at a single field label.
func (d *Document) Lookup(label string) cue.Value {
	return d.Value.LookupPath(cue.MakePath(cue.Str(label)))
}
