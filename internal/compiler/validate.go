package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/evgen/internal/ir"
	"github.com/roach88/evgen/internal/naming"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// Definition errors (E101-E109)
	ErrInvalidIdentifier = "E104" // name is not a valid C++ identifier
	ErrInvalidTypeInfo   = "E106" // TypeInfo invariant violated
	ErrReservedName      = "E107" // name collides with a generated member
)

// reservedNames are members every generated class declares.
var reservedNames = map[string]bool{
	"init":  true,
	"ready": true,
	"mod":   true,
}

// ValidationError represents an IR validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is the complete list of problems found in one IR.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks compiled IR for names that cannot be emitted.
// Returns all errors found (does not fail-fast).
// Supports InterfaceIR and ModuleIR.
func Validate(v any) ValidationErrors {
	switch node := v.(type) {
	case *ir.InterfaceIR:
		return validateInterface(node)
	case ir.InterfaceIR:
		return validateInterface(&node)
	case *ir.ModuleIR:
		return validateModule(node)
	case ir.ModuleIR:
		return validateModule(&node)
	default:
		return ValidationErrors{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validateInterface(iface *ir.InterfaceIR) ValidationErrors {
	var errs ValidationErrors

	for _, v := range iface.Vars {
		errs = append(errs, validateVariable("vars."+v.Name, v)...)
	}

	for _, cmd := range iface.Cmds {
		field := "cmds." + cmd.Name
		errs = append(errs, validateName(field, cmd.Name)...)
		for _, arg := range cmd.Args {
			errs = append(errs, validateVariable(field+".arguments."+arg.Name, arg)...)
		}
		if cmd.Result != nil {
			errs = append(errs, validateTypeInfo(field+".result", *cmd.Result)...)
		}
	}

	return errs
}

func validateModule(mod *ir.ModuleIR) ValidationErrors {
	var errs ValidationErrors

	for _, impl := range mod.Provides {
		field := "provides." + impl.ID
		errs = append(errs, validateName(field, impl.ID)...)
		for _, c := range impl.Config {
			errs = append(errs, validateVariable(field+".config."+c.Name, c)...)
		}
	}

	for _, req := range mod.Requires {
		errs = append(errs, validateName("requires."+req.ID, req.ID)...)
	}

	for _, c := range mod.Config {
		errs = append(errs, validateVariable("config."+c.Name, c)...)
	}

	return errs
}

func validateVariable(field string, v ir.VariableDef) ValidationErrors {
	errs := validateName(field, v.Name)
	return append(errs, validateTypeInfo(field, v.Type)...)
}

func validateName(field, name string) ValidationErrors {
	if !naming.IsIdentifier(name) {
		return ValidationErrors{{
			Field:   field,
			Message: fmt.Sprintf("%q is not a valid identifier", name),
			Code:    ErrInvalidIdentifier,
		}}
	}
	if reservedNames[name] {
		return ValidationErrors{{
			Field:   field,
			Message: fmt.Sprintf("%q is reserved by the generated code", name),
			Code:    ErrReservedName,
		}}
	}
	return nil
}

func validateTypeInfo(field string, ti ir.TypeInfo) ValidationErrors {
	if err := ti.Check(); err != nil {
		return ValidationErrors{{
			Field:   field,
			Message: err.Error(),
			Code:    ErrInvalidTypeInfo,
		}}
	}
	return nil
}
