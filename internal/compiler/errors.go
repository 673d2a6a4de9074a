package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
)

// TypeMappingError reports a type declaration that is none of the
// recognised shapes. It always indicates a malformed definition.
type TypeMappingError struct {
	Field  string // owning field, e.g. "vars.energy" or "cmds.enable.arguments.value"
	Raw    string // the offending declaration as JSON
	Reason string
}

func (e *TypeMappingError) Error() string {
	return fmt.Sprintf("field %q: cannot map type declaration %s: %s", e.Field, e.Raw, e.Reason)
}

// DefinitionNotFoundError reports a referenced definition file that does not exist.
type DefinitionNotFoundError struct {
	Kind string // "interface" or "module"
	Name string
	Path string // the primary path that was looked up
}

func (e *DefinitionNotFoundError) Error() string {
	return fmt.Sprintf("%s definition %q not found: %s", e.Kind, e.Name, e.Path)
}

// DefinitionError attaches the definition file to an error raised while compiling it.
type DefinitionError struct {
	Path string
	Err  error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

func newTypeMappingError(field string, v cue.Value, reason string) *TypeMappingError {
	return &TypeMappingError{Field: field, Raw: rawDeclaration(v), Reason: reason}
}

// rawDeclaration renders a declaration for error messages.
func rawDeclaration(v cue.Value) string {
	if b, err := v.MarshalJSON(); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}
