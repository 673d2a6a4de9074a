package ir

import "fmt"

// BaseKind is the canonical kind of a declared type.
type BaseKind string

// Recognised base kinds. KindNull only appears as a variant member.
const (
	KindBoolean BaseKind = "boolean"
	KindString  BaseKind = "string"
	KindNumber  BaseKind = "number"
	KindInteger BaseKind = "integer"
	KindObject  BaseKind = "object"
	KindArray   BaseKind = "array"
	KindVariant BaseKind = "variant"
	KindEnum    BaseKind = "enum"
	KindNull    BaseKind = "null"
)

// PrimitiveKinds maps declared JSON type names to base kinds.
// "array" is handled separately because it carries an element type.
var PrimitiveKinds = map[string]BaseKind{
	"boolean": KindBoolean,
	"string":  KindString,
	"number":  KindNumber,
	"integer": KindInteger,
	"object":  KindObject,
}

// VariantMemberKinds lists the names allowed inside a variant type list.
var VariantMemberKinds = map[string]BaseKind{
	"boolean": KindBoolean,
	"string":  KindString,
	"number":  KindNumber,
	"integer": KindInteger,
	"object":  KindObject,
	"array":   KindArray,
	"null":    KindNull,
}

// TypeInfo is the canonical descriptor of a declared type.
type TypeInfo struct {
	BaseKind    BaseKind   `json:"base_kind"`
	IsArray     bool       `json:"is_array"`
	ElementType *TypeInfo  `json:"element_type,omitempty"` // set iff BaseKind == KindArray
	EnumValues  []string   `json:"enum_values,omitempty"`  // declaration order
	Variants    []BaseKind `json:"variants,omitempty"`     // declaration order
	Ref         string     `json:"ref,omitempty"`          // $ref target for referenced objects
}

// Primitive returns a TypeInfo for a non-array, non-enum, non-variant kind.
func Primitive(kind BaseKind) TypeInfo {
	return TypeInfo{BaseKind: kind}
}

// ArrayOf returns an array TypeInfo with the given element type.
func ArrayOf(elem TypeInfo) TypeInfo {
	return TypeInfo{BaseKind: KindArray, IsArray: true, ElementType: &elem}
}

// EnumOf returns an enum TypeInfo over the given values.
func EnumOf(values ...string) TypeInfo {
	return TypeInfo{BaseKind: KindEnum, EnumValues: values}
}

// VariantOf returns a variant TypeInfo over the given member kinds.
func VariantOf(members ...BaseKind) TypeInfo {
	return TypeInfo{BaseKind: KindVariant, Variants: members}
}

// RefObject returns an object TypeInfo referring to a named schema.
func RefObject(ref string) TypeInfo {
	return TypeInfo{BaseKind: KindObject, Ref: ref}
}

// Check verifies the structural invariants of a TypeInfo.
func (t TypeInfo) Check() error {
	isArray := t.BaseKind == KindArray
	if isArray != (t.ElementType != nil) {
		return fmt.Errorf("element type must be set iff base kind is array (kind %s)", t.BaseKind)
	}
	if isArray != t.IsArray {
		return fmt.Errorf("is_array must match base kind (kind %s)", t.BaseKind)
	}
	if (t.BaseKind == KindEnum) != (len(t.EnumValues) > 0) {
		return fmt.Errorf("enum values must be set iff base kind is enum (kind %s)", t.BaseKind)
	}
	if (t.BaseKind == KindVariant) != (len(t.Variants) > 0) {
		return fmt.Errorf("variants must be set iff base kind is variant (kind %s)", t.BaseKind)
	}
	if t.ElementType != nil {
		return t.ElementType.Check()
	}
	return nil
}

// VariableDef is a named, typed value: an interface variable, a command
// argument or a configuration entry.
type VariableDef struct {
	Name        string   `json:"name"`
	Type        TypeInfo `json:"type"`
	Description string   `json:"description,omitempty"`
}

// CommandDef represents an interface command with ordered arguments.
type CommandDef struct {
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	Args              []VariableDef `json:"args"`
	Result            *TypeInfo     `json:"result,omitempty"`
	ResultDescription string        `json:"result_description,omitempty"`
}

// HasResult reports whether the command returns a value.
func (c CommandDef) HasResult() bool {
	return c.Result != nil
}

// InterfaceIR is the compiled form of one interface definition.
type InterfaceIR struct {
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Vars            []VariableDef `json:"vars"`
	Cmds            []CommandDef  `json:"cmds"`
	BaseClassHeader string        `json:"base_class_header"`
}

// ProvidedImplementation is a module's implementation of one interface.
type ProvidedImplementation struct {
	ID            string        `json:"id"`
	InterfaceName string        `json:"interface"`
	Description   string        `json:"description"`
	Config        []VariableDef `json:"config"`
	Interface     *InterfaceIR  `json:"interface_ir"`
	IsPublishing  bool          `json:"is_publishing"` // at least one variable
	IsCallable    bool          `json:"is_callable"`   // at least one command
	ClassHeader   string        `json:"class_header"`  // {id}/{Interface}Impl.hpp
	SourceFile    string        `json:"source_file"`   // {id}/{Interface}Impl.cpp
}

// RequirementBinding is a module's dependency on another module's interface.
type RequirementBinding struct {
	ID            string `json:"id"`
	InterfaceName string `json:"interface"`
	IsVector      bool   `json:"is_vector"`
}

// ConfigSection aggregates module-level and per-implementation config.
// Implementations only lists entries with a non-empty config.
type ConfigSection struct {
	Module          []VariableDef             `json:"module"`
	Implementations []*ProvidedImplementation `json:"implementations"`
}

// ModuleIR is the compiled form of one module manifest.
type ModuleIR struct {
	Name              string                   `json:"name"`
	Description       string                   `json:"description"`
	ExternalMessaging bool                     `json:"enable_external_mqtt"`
	Provides          []ProvidedImplementation `json:"provides"`
	Requires          []RequirementBinding     `json:"requires"`
	Config            []VariableDef            `json:"config"`
	Configs           *ConfigSection           `json:"configs"` // nil when no config exists
	HeaderGuard       string                   `json:"header_guard"`
}

// PublishingProvides returns the implementations that publish variables.
func (m *ModuleIR) PublishingProvides() []*ProvidedImplementation {
	var out []*ProvidedImplementation
	for i := range m.Provides {
		if m.Provides[i].IsPublishing {
			out = append(out, &m.Provides[i])
		}
	}
	return out
}

// CallableProvides returns the implementations that expose commands.
func (m *ModuleIR) CallableProvides() []*ProvidedImplementation {
	var out []*ProvidedImplementation
	for i := range m.Provides {
		if m.Provides[i].IsCallable {
			out = append(out, &m.Provides[i])
		}
	}
	return out
}

// HasConfig reports whether the combined configuration section is present.
func (m *ModuleIR) HasConfig() bool {
	return m.Configs != nil
}
