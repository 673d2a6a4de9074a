package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/evgen/internal/ir"
)

func TestCppType(t *testing.T) {
	tests := []struct {
		ti   ir.TypeInfo
		want string
	}{
		{ir.Primitive(ir.KindBoolean), "bool"},
		{ir.Primitive(ir.KindString), "std::string"},
		{ir.Primitive(ir.KindNumber), "double"},
		{ir.Primitive(ir.KindInteger), "int"},
		{ir.Primitive(ir.KindObject), "json"},
		{ir.RefObject("/evse_manager#/Limits"), "json"},
		{ir.EnumOf("A"), "std::string"},
		{ir.ArrayOf(ir.Primitive(ir.KindInteger)), "std::vector<int>"},
		{ir.ArrayOf(ir.ArrayOf(ir.Primitive(ir.KindObject))), "std::vector<std::vector<json>>"},
		{ir.VariantOf(ir.KindNull, ir.KindString, ir.KindArray), "boost::variant<boost::blank, std::string, std::vector<json>>"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, CppType(tt.ti))
		})
	}
}

func TestDummyResult(t *testing.T) {
	enum := ir.EnumOf("Accepted", "Rejected")
	integer := ir.Primitive(ir.KindInteger)

	assert.Equal(t, "", dummyResult(ir.CommandDef{Name: "reset"}))
	assert.Equal(t, `"Accepted"`, dummyResult(ir.CommandDef{Result: &enum}))
	assert.Equal(t, "42", dummyResult(ir.CommandDef{Result: &integer}))
}

func TestComment(t *testing.T) {
	assert.Equal(t, "", comment("    ", "  "))
	assert.Equal(t, "// one\n", comment("", "one"))
	assert.Equal(t, "  // one\n  //\n  // two\n", comment("  ", "one\n\ntwo\n"))
}

func TestInterfacesDeduplicates(t *testing.T) {
	mod := &ir.ModuleIR{
		Provides: []ir.ProvidedImplementation{{InterfaceName: "b"}, {InterfaceName: "a"}},
		Requires: []ir.RequirementBinding{{InterfaceName: "a"}, {InterfaceName: "c"}},
	}
	assert.Equal(t, []string{"b", "a", "c"}, interfaces(mod))
}
