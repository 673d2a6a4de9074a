package render

import (
	"path"
	"strings"
	"text/template"

	"github.com/roach88/evgen/internal/ir"
	"github.com/roach88/evgen/internal/naming"
)

var funcs = template.FuncMap{
	"cppType":     CppType,
	"resultType":  resultType,
	"param":       param,
	"params":      params,
	"argNames":    argNames,
	"dummyResult": dummyResult,
	"comment":     comment,
	"snake":       naming.SnakeCase,
	"camel":       naming.CamelCase,
	"upper":       strings.ToUpper,
	"base":        path.Base,
	"implBase":    implBase,
	"intf":        intf,
	"reqType":     reqType,
	"interfaces":  interfaces,
}

// CppType returns the C++ type a TypeInfo is declared as in generated code.
func CppType(t ir.TypeInfo) string {
	switch t.BaseKind {
	case ir.KindBoolean:
		return "bool"
	case ir.KindString, ir.KindEnum:
		return "std::string"
	case ir.KindNumber:
		return "double"
	case ir.KindInteger:
		return "int"
	case ir.KindArray:
		return "std::vector<" + CppType(*t.ElementType) + ">"
	case ir.KindVariant:
		members := make([]string, len(t.Variants))
		for i, k := range t.Variants {
			members[i] = variantMember(k)
		}
		return "boost::variant<" + strings.Join(members, ", ") + ">"
	default:
		return "json"
	}
}

func variantMember(k ir.BaseKind) string {
	switch k {
	case ir.KindNull:
		return "boost::blank"
	case ir.KindArray:
		return "std::vector<json>"
	default:
		return CppType(ir.Primitive(k))
	}
}

func resultType(c ir.CommandDef) string {
	if c.Result == nil {
		return "void"
	}
	return CppType(*c.Result)
}

// param renders one parameter declaration. Scalars are passed by value.
func param(v ir.VariableDef) string {
	typ := CppType(v.Type)
	switch v.Type.BaseKind {
	case ir.KindBoolean, ir.KindNumber, ir.KindInteger:
		return typ + " " + v.Name
	default:
		return "const " + typ + "& " + v.Name
	}
}

func params(args []ir.VariableDef) string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = param(a)
	}
	return strings.Join(out, ", ")
}

func argNames(args []ir.VariableDef) string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.Name
	}
	return strings.Join(out, ", ")
}

// dummyResult returns a placeholder return value for a generated command stub.
func dummyResult(c ir.CommandDef) string {
	if c.Result == nil {
		return ""
	}
	switch c.Result.BaseKind {
	case ir.KindBoolean:
		return "true"
	case ir.KindString:
		return `"everest"`
	case ir.KindEnum:
		return `"` + c.Result.EnumValues[0] + `"`
	case ir.KindNumber:
		return "999.0"
	case ir.KindInteger:
		return "42"
	default:
		return "{}"
	}
}

// comment renders text as // lines, each prefixed by indent and ended by a
// newline. Empty text renders nothing.
func comment(indent, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(indent)
		b.WriteString(strings.TrimRight("// "+strings.TrimSpace(line), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func implBase(interfaceName string) string {
	return "everest::interface::" + interfaceName + "::" + naming.CamelCase(interfaceName) + "ImplBase"
}

func intf(interfaceName string) string {
	return "everest::interface::" + interfaceName + "::" + naming.CamelCase(interfaceName) + "Intf"
}

func reqType(r ir.RequirementBinding) string {
	if r.IsVector {
		return "std::vector<std::unique_ptr<" + intf(r.InterfaceName) + ">>"
	}
	return "std::unique_ptr<" + intf(r.InterfaceName) + ">"
}

// interfaces lists every interface a module provides or requires, once,
// in first-use order.
func interfaces(m *ir.ModuleIR) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, p := range m.Provides {
		add(p.InterfaceName)
	}
	for _, r := range m.Requires {
		add(r.InterfaceName)
	}
	return out
}
