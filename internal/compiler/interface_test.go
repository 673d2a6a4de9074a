package compiler

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/evgen/internal/ir"
	"github.com/roach88/evgen/internal/testutil"
)

func TestCompileInterfaceKeepsDeclarationOrder(t *testing.T) {
	iface, err := CompileInterface("power_meter", value(t, testutil.PowerMeterInterface))
	require.NoError(t, err)

	var vars []string
	for _, v := range iface.Vars {
		vars = append(vars, v.Name)
	}
	assert.Equal(t, []string{"energy_wh", "status", "samples"}, vars)

	require.Len(t, iface.Cmds, 2)
	assert.Equal(t, "start_transaction", iface.Cmds[0].Name)
	assert.Equal(t, "reset", iface.Cmds[1].Name)

	args := iface.Cmds[0].Args
	require.Len(t, args, 2)
	assert.Equal(t, "id", args[0].Name)
	assert.Equal(t, "limit", args[1].Name)
	assert.Equal(t, ir.VariantOf(ir.KindNull, ir.KindNumber), args[1].Type)
}

func TestCompileInterfaceFields(t *testing.T) {
	iface, err := CompileInterface("power_meter", value(t, testutil.PowerMeterInterface))
	require.NoError(t, err)

	assert.Equal(t, "power_meter", iface.Name)
	assert.Equal(t, "Power meter readings", iface.Description)
	assert.Equal(t, "generated/interface/power_meter_impl.hpp", iface.BaseClassHeader)

	assert.Equal(t, "Imported energy", iface.Vars[0].Description)
	assert.Equal(t, ir.Primitive(ir.KindNumber), iface.Vars[0].Type)
	assert.Equal(t, ir.EnumOf("OK", "FAULT"), iface.Vars[1].Type)
	assert.Equal(t, ir.ArrayOf(ir.Primitive(ir.KindInteger)), iface.Vars[2].Type)

	start := iface.Cmds[0]
	require.True(t, start.HasResult())
	assert.Equal(t, ir.Primitive(ir.KindBoolean), *start.Result)
	assert.Equal(t, "Accepted", start.ResultDescription)

	reset := iface.Cmds[1]
	assert.False(t, reset.HasResult())
	assert.Empty(t, reset.Args)
	assert.NotNil(t, reset.Args)
}

func TestCompileInterfaceWithoutVarsOrCmds(t *testing.T) {
	iface, err := CompileInterface("empty", value(t, `{"description": "Nothing"}`))
	require.NoError(t, err)

	assert.NotNil(t, iface.Vars)
	assert.NotNil(t, iface.Cmds)
	assert.Empty(t, iface.Vars)
	assert.Empty(t, iface.Cmds)
}

func TestCompileInterfaceNormalizesDescriptions(t *testing.T) {
	iface, err := CompileInterface("x", value(t, `{"description": "Cafe\u0301"}`))
	require.NoError(t, err)

	assert.Equal(t, "Caf\u00e9", iface.Description)
}

func TestCompileInterfaceTypeMappingError(t *testing.T) {
	src := `{
		"description": "Broken",
		"cmds": {"set": {"arguments": {"limit": {"type": "float"}}}}
	}`
	_, err := CompileInterface("broken", value(t, src))

	var tme *TypeMappingError
	require.ErrorAs(t, err, &tme)
	assert.Equal(t, "cmds.set.arguments.limit", tme.Field)
}

func TestCompileInterfaceIsDeterministic(t *testing.T) {
	first, err := CompileInterface("power_meter", value(t, testutil.PowerMeterInterface))
	require.NoError(t, err)
	second, err := CompileInterface("power_meter", value(t, testutil.PowerMeterInterface))
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCompileInterfaceGolden(t *testing.T) {
	iface, err := CompileInterface("store", value(t, testutil.StoreInterface))
	require.NoError(t, err)

	data, err := json.MarshalIndent(iface, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "store_interface", append(data, '\n'))
}
