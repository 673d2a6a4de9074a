package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/evgen/internal/ir"
)

// BuildTypeInfo maps a raw type declaration to a TypeInfo.
// field names the owning field and is only used for errors.
//
// Recognised shapes:
//
//	{"type": "string"}                           primitive
//	{"type": "array", "items": {...}}            array, items resolved recursively
//	{"type": "array"}                            array of object
//	{"type": ["null", "string"]}                 variant
//	{"type": "string", "enum": ["A", "B"]}       enum ("type" may be omitted)
//	{"$ref": "/evse_manager#/Limits"}            referenced object
func BuildTypeInfo(field string, decl cue.Value) (ir.TypeInfo, error) {
	if err := decl.Err(); err != nil {
		return ir.TypeInfo{}, newTypeMappingError(field, decl, err.Error())
	}
	if decl.Kind() != cue.StructKind {
		return ir.TypeInfo{}, newTypeMappingError(field, decl, "declaration must be an object")
	}

	typeVal := lookup(decl, "type")
	enumVal := lookup(decl, "enum")

	if enumVal.Exists() {
		return buildEnum(field, decl, typeVal, enumVal)
	}

	if !typeVal.Exists() {
		refVal := lookup(decl, "$ref")
		if refVal.Exists() {
			ref, err := refVal.String()
			if err != nil {
				return ir.TypeInfo{}, newTypeMappingError(field, decl, "$ref must be a string")
			}
			return ir.RefObject(ref), nil
		}
		return ir.TypeInfo{}, newTypeMappingError(field, decl, "missing type")
	}

	switch typeVal.Kind() {
	case cue.StringKind:
		name, _ := typeVal.String()
		if name == "array" {
			return buildArray(field, decl)
		}
		kind, ok := ir.PrimitiveKinds[name]
		if !ok {
			return ir.TypeInfo{}, newTypeMappingError(field, decl, fmt.Sprintf("unknown type %q", name))
		}
		ti := ir.Primitive(kind)
		if kind == ir.KindObject {
			if ref, err := lookup(decl, "$ref").String(); err == nil {
				ti.Ref = ref
			}
		}
		return ti, nil
	case cue.ListKind:
		return buildVariant(field, decl, typeVal)
	default:
		return ir.TypeInfo{}, newTypeMappingError(field, decl, "type must be a string or a list of strings")
	}
}

func buildArray(field string, decl cue.Value) (ir.TypeInfo, error) {
	items := lookup(decl, "items")
	if !items.Exists() {
		return ir.ArrayOf(ir.Primitive(ir.KindObject)), nil
	}
	elem, err := BuildTypeInfo(field+"[]", items)
	if err != nil {
		return ir.TypeInfo{}, err
	}
	return ir.ArrayOf(elem), nil
}

func buildVariant(field string, decl, typeVal cue.Value) (ir.TypeInfo, error) {
	iter, err := typeVal.List()
	if err != nil {
		return ir.TypeInfo{}, newTypeMappingError(field, decl, err.Error())
	}

	var members []ir.BaseKind
	seen := make(map[ir.BaseKind]bool)
	for iter.Next() {
		name, err := iter.Value().String()
		if err != nil {
			return ir.TypeInfo{}, newTypeMappingError(field, decl, "variant members must be type names")
		}
		kind, ok := ir.VariantMemberKinds[name]
		if !ok {
			return ir.TypeInfo{}, newTypeMappingError(field, decl, fmt.Sprintf("unknown variant member %q", name))
		}
		if seen[kind] {
			return ir.TypeInfo{}, newTypeMappingError(field, decl, fmt.Sprintf("duplicate variant member %q", name))
		}
		seen[kind] = true
		members = append(members, kind)
	}

	if len(members) == 0 {
		return ir.TypeInfo{}, newTypeMappingError(field, decl, "variant must list at least one type")
	}
	return ir.VariantOf(members...), nil
}

func buildEnum(field string, decl, typeVal, enumVal cue.Value) (ir.TypeInfo, error) {
	if typeVal.Exists() {
		name, err := typeVal.String()
		if err != nil || name != "string" {
			return ir.TypeInfo{}, newTypeMappingError(field, decl, "enum values must be strings")
		}
	}

	iter, err := enumVal.List()
	if err != nil {
		return ir.TypeInfo{}, newTypeMappingError(field, decl, "enum must be a list")
	}

	var values []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return ir.TypeInfo{}, newTypeMappingError(field, decl, "enum values must be strings")
		}
		values = append(values, s)
	}
	if len(values) == 0 {
		return ir.TypeInfo{}, newTypeMappingError(field, decl, "enum must list at least one value")
	}
	return ir.EnumOf(values...), nil
}

// lookup returns the field with the given label. Labels such as "$ref"
// are not valid CUE identifiers, so paths are built from string selectors.
func lookup(v cue.Value, label string) cue.Value {
	return v.LookupPath(cue.MakePath(cue.Str(label)))
}
