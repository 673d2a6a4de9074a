package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// ChunkSize bounds the length of one string literal in an embedded JSON
// source; some compilers reject longer literals.
const ChunkSize = 4096

const rawDelimiter = "EVJSON"

// InlineJSON is a JSON document prepared for embedding as C++ raw string
// literals. Concatenating Chunks yields the compact document.
type InlineJSON struct {
	Name      string
	Namespace string
	Delimiter string
	Chunks    []string
	Size      int
}

// NewInlineJSON compacts data and splits it into chunks of at most
// ChunkSize bytes without splitting a UTF-8 sequence.
func NewInlineJSON(name, namespace string, data []byte) (InlineJSON, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return InlineJSON{}, fmt.Errorf("embed %s: %w", name, err)
	}
	if bytes.Contains(compact.Bytes(), []byte(")"+rawDelimiter)) {
		return InlineJSON{}, fmt.Errorf("embed %s: document contains the raw string delimiter %q", name, rawDelimiter)
	}

	doc := compact.Bytes()
	inline := InlineJSON{
		Name:      name,
		Namespace: namespace,
		Delimiter: rawDelimiter,
		Size:      len(doc),
	}
	for len(doc) > 0 {
		n := min(ChunkSize, len(doc))
		for n < len(doc) && n > 0 && !utf8.RuneStart(doc[n]) {
			n--
		}
		inline.Chunks = append(inline.Chunks, string(doc[:n]))
		doc = doc[n:]
	}
	return inline, nil
}
