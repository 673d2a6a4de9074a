package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLToJSONPreservesKeyOrder(t *testing.T) {
	in := []byte(`
description: Power meter
vars:
  zeta:
    type: number
  alpha:
    type: string
  mid:
    type: boolean
`)
	out, err := YAMLToJSON(in)
	require.NoError(t, err)
	assert.Equal(t,
		`{"description":"Power meter","vars":{"zeta":{"type":"number"},"alpha":{"type":"string"},"mid":{"type":"boolean"}}}`,
		string(out))
}

func TestYAMLToJSONScalars(t *testing.T) {
	in := []byte(`
i: 3
f: 1.5
b: true
n: null
s: "007"
list: [1, two, false]
`)
	out, err := YAMLToJSON(in)
	require.NoError(t, err)
	assert.Equal(t, `{"i":3,"f":1.5,"b":true,"n":null,"s":"007","list":[1,"two",false]}`, string(out))
}

func TestYAMLToJSONAliases(t *testing.T) {
	in := []byte(`
base: &b
  type: string
copy: *b
`)
	out, err := YAMLToJSON(in)
	require.NoError(t, err)
	assert.Equal(t, `{"base":{"type":"string"},"copy":{"type":"string"}}`, string(out))
}

func TestYAMLToJSONEmptyDocument(t *testing.T) {
	out, err := YAMLToJSON([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestYAMLToJSONInvalid(t *testing.T) {
	_, err := YAMLToJSON([]byte("a: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing yaml")
}

func TestIsYAML(t *testing.T) {
	assert.True(t, IsYAML("manifest.yaml"))
	assert.True(t, IsYAML("x/MANIFEST.YML"))
	assert.False(t, IsYAML("manifest.json"))
}
