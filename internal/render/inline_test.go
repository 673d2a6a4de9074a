package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInlineJSONCompacts(t *testing.T) {
	inline, err := NewInlineJSON("manifest_json", "module", []byte("{\n  \"a\": [1, 2]\n}\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{`{"a":[1,2]}`}, inline.Chunks)
	assert.Equal(t, 11, inline.Size)
	assert.Equal(t, "EVJSON", inline.Delimiter)
}

func TestNewInlineJSONChunks(t *testing.T) {
	doc := `{"d":"` + strings.Repeat("x", 2*ChunkSize) + `"}`

	inline, err := NewInlineJSON("j", "ns", []byte(doc))
	require.NoError(t, err)

	require.Len(t, inline.Chunks, 3)
	for _, c := range inline.Chunks {
		assert.LessOrEqual(t, len(c), ChunkSize)
	}
	assert.Equal(t, doc, strings.Join(inline.Chunks, ""))
}

func TestNewInlineJSONKeepsRunesWhole(t *testing.T) {
	// Pad so that a two-byte rune straddles the chunk boundary.
	doc := `{"d":"` + strings.Repeat("x", ChunkSize-7) + "é" + `"}`

	inline, err := NewInlineJSON("j", "ns", []byte(doc))
	require.NoError(t, err)

	require.Len(t, inline.Chunks, 2)
	for _, c := range inline.Chunks {
		assert.True(t, utf8.ValidString(c))
	}
	assert.Equal(t, doc, strings.Join(inline.Chunks, ""))
}

func TestNewInlineJSONRejectsDelimiter(t *testing.T) {
	_, err := NewInlineJSON("j", "ns", []byte(`{"d":")EVJSON"}`))
	assert.ErrorContains(t, err, "delimiter")
}

func TestNewInlineJSONRejectsInvalidJSON(t *testing.T) {
	_, err := NewInlineJSON("j", "ns", []byte(`{"d":`))
	assert.Error(t, err)
}
