package compiler

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/evgen/internal/schema"
	"github.com/roach88/evgen/internal/testutil"
)

func TestInterfaceNames(t *testing.T) {
	tr := testutil.SampleTree(t)
	tr.WriteFile(t, filepath.Join("everest", "interfaces", "auth.yaml"), "description: Auth\n")
	tr.WriteFile(t, filepath.Join("everest", "interfaces", "README.md"), "not a definition")
	w := workspace(t, tr)

	names, err := w.InterfaceNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"auth", "evse_manager", "power_meter", "store"}, names)
}

func TestBuildInterfaceFromYAML(t *testing.T) {
	tr := testutil.NewTree(t)
	tr.WriteFile(t, filepath.Join("everest", "interfaces", "display.yaml"), `description: Display
vars:
  text:
    type: string
  brightness:
    type: integer
cmds:
  clear: {}
`)
	w := workspace(t, tr)

	iface, doc, err := w.BuildInterface("display")
	require.NoError(t, err)
	assert.Equal(t, schema.CategoryInterface, doc.Category)
	require.Len(t, iface.Vars, 2)
	assert.Equal(t, "text", iface.Vars[0].Name)
	assert.Equal(t, "brightness", iface.Vars[1].Name)
	require.Len(t, iface.Cmds, 1)
	assert.Equal(t, "clear", iface.Cmds[0].Name)
}

func TestBuildInterfaceNotFound(t *testing.T) {
	w := sampleWorkspace(t)

	_, _, err := w.BuildInterface("nope")

	var nf *DefinitionNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, schema.CategoryInterface, nf.Kind)
	assert.Equal(t, "nope", nf.Name)
}

func TestBuildInterfaceSchemaViolation(t *testing.T) {
	tr := testutil.NewTree(t)
	tr.WriteInterface(t, "nodesc", `{"vars": {}}`)
	w := workspace(t, tr)

	_, _, err := w.BuildInterface("nodesc")

	var ve *schema.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Path, "nodesc.json")
}

func TestBuildInterfaceTypeMappingErrorNamesFile(t *testing.T) {
	tr := testutil.NewTree(t)
	path := tr.WriteInterface(t, "broken", `{"description": "x", "vars": {"v": {"type": "float"}}}`)
	w := workspace(t, tr)

	_, _, err := w.BuildInterface("broken")

	var de *DefinitionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, path, de.Path)
	var tme *TypeMappingError
	require.ErrorAs(t, err, &tme)
	assert.Equal(t, "vars.v", tme.Field)
}

func TestBuildInterfaceRejectsReservedName(t *testing.T) {
	tr := testutil.NewTree(t)
	tr.WriteInterface(t, "reserved", `{"description": "x", "cmds": {"init": {}}}`)
	w := workspace(t, tr)

	_, _, err := w.BuildInterface("reserved")

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrReservedName, errs[0].Code)
}

func TestBuildModuleMissingManifest(t *testing.T) {
	w := sampleWorkspace(t)

	_, _, err := w.BuildModule("Ghost")

	var nf *DefinitionNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, schema.CategoryModule, nf.Kind)
}

func TestBuildModuleBrokenInterfacePropagates(t *testing.T) {
	tr := testutil.SampleTree(t)
	tr.WriteInterface(t, "store", `{"description": "x", "vars": {"v": {"type": "float"}}}`)
	w := workspace(t, tr)

	_, _, err := w.BuildModule("Sample")
	require.Error(t, err)

	var tme *TypeMappingError
	require.ErrorAs(t, err, &tme)
	assert.Contains(t, err.Error(), "manifest.json")
	assert.Contains(t, err.Error(), "store.json")
}

func TestBuildModuleIsDeterministic(t *testing.T) {
	w := sampleWorkspace(t)

	first, _, err := w.BuildModule("Sample")
	require.NoError(t, err)
	second, _, err := w.BuildModule("Sample")
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
	assert.Equal(t, string(a), string(b))
}

func brokenBatchTree(t *testing.T) *testutil.Tree {
	t.Helper()
	tr := testutil.SampleTree(t)
	tr.WriteInterface(t, "auth", `{"description": "Auth", "cmds": {"validate": {"result": {"type": "boolean"}}}}`)
	tr.WriteInterface(t, "broken", `{"description": "Broken", "vars": {"v": {"type": "float"}}}`)
	return tr
}

func TestBuildInterfacesCollectSkipsFailures(t *testing.T) {
	tr := brokenBatchTree(t)
	var logs bytes.Buffer
	reg, err := schema.LoadRegistry(tr.SchemaDir)
	require.NoError(t, err)
	w := NewWorkspace(tr.EverestDir, reg, log.New(&logs))

	names, err := w.InterfaceNames()
	require.NoError(t, err)
	require.Len(t, names, 5)

	outcomes, err := BuildInterfaces(w, names, ModeCollect)
	require.NoError(t, err)
	require.Len(t, outcomes, 5)

	ok := Succeeded(outcomes)
	failed := Failed(outcomes)
	assert.Len(t, ok, 4)
	require.Len(t, failed, 1)
	assert.Equal(t, "broken", failed[0].Name)
	assert.Nil(t, failed[0].Value)

	for i, o := range outcomes {
		assert.Equal(t, names[i], o.Name, "outcomes keep input order")
	}
	assert.Contains(t, logs.String(), "ignoring interface")
	assert.Contains(t, logs.String(), "broken")
}

func TestBuildInterfacesFailFastAborts(t *testing.T) {
	w := workspace(t, brokenBatchTree(t))

	names, err := w.InterfaceNames()
	require.NoError(t, err)

	outcomes, err := BuildInterfaces(w, names, ModeFailFast)
	require.Error(t, err)
	assert.Nil(t, outcomes)

	var tme *TypeMappingError
	assert.ErrorAs(t, err, &tme)
}

func TestBuildInterfacesSingleNameFailure(t *testing.T) {
	w := workspace(t, brokenBatchTree(t))

	_, err := BuildInterfaces(w, []string{"broken"}, ModeFailFast)
	assert.Error(t, err)
}
