package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/require"

	"github.com/roach88/evgen/internal/ir"
	"github.com/roach88/evgen/internal/schema"
	"github.com/roach88/evgen/internal/testutil"
)

// value compiles a JSON literal into a CUE value.
func value(t *testing.T, src string) cue.Value {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	require.NoError(t, v.Err())
	return v
}

func workspace(t *testing.T, tr *testutil.Tree) *Workspace {
	t.Helper()
	reg, err := schema.LoadRegistry(tr.SchemaDir)
	require.NoError(t, err)
	return NewWorkspace(tr.EverestDir, reg, nil)
}

func sampleWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return workspace(t, testutil.SampleTree(t))
}

// mapResolver resolves interfaces from a fixed set.
type mapResolver map[string]*ir.InterfaceIR

func (m mapResolver) ResolveInterface(name string) (*ir.InterfaceIR, error) {
	iface, ok := m[name]
	if !ok {
		return nil, &DefinitionNotFoundError{Kind: schema.CategoryInterface, Name: name, Path: name + ".json"}
	}
	return iface, nil
}
