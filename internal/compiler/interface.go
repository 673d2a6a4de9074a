package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/evgen/internal/ir"
)

// CompileInterface builds the IR of one validated interface definition.
// Missing "vars" and "cmds" are treated as empty. Variables, commands and
// arguments keep their declaration order.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`{description: "Power meter", vars: energy: type: "number"}`)
//	iface, err := CompileInterface("power_meter", v)
func CompileInterface(name string, v cue.Value) (*ir.InterfaceIR, error) {
	if err := v.Err(); err != nil {
		return nil, err
	}

	desc, err := optionalString(v, "description")
	if err != nil {
		return nil, err
	}

	iface := &ir.InterfaceIR{
		Name:            name,
		Description:     desc,
		Vars:            []ir.VariableDef{},
		Cmds:            []ir.CommandDef{},
		BaseClassHeader: fmt.Sprintf("generated/interface/%s_impl.hpp", name),
	}

	iface.Vars, err = parseVariables(lookup(v, "vars"), "vars")
	if err != nil {
		return nil, err
	}

	iface.Cmds, err = parseCommands(lookup(v, "cmds"))
	if err != nil {
		return nil, err
	}

	return iface, nil
}

// parseVariables turns a mapping of name -> declaration into an ordered
// list. It serves interface variables, command arguments and config
// entries; prefix qualifies field names in errors.
func parseVariables(v cue.Value, prefix string) ([]ir.VariableDef, error) {
	vars := []ir.VariableDef{}
	if !v.Exists() {
		return vars, nil
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", prefix, err)
	}

	for iter.Next() {
		name := iter.Label()
		field := prefix + "." + name

		ti, err := BuildTypeInfo(field, iter.Value())
		if err != nil {
			return nil, err
		}
		desc, err := optionalString(iter.Value(), "description")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}

		vars = append(vars, ir.VariableDef{
			Name:        name,
			Type:        ti,
			Description: desc,
		})
	}

	return vars, nil
}

// parseCommands extracts command definitions in declaration order.
func parseCommands(v cue.Value) ([]ir.CommandDef, error) {
	cmds := []ir.CommandDef{}
	if !v.Exists() {
		return cmds, nil
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, fmt.Errorf("cmds: %w", err)
	}

	for iter.Next() {
		name := iter.Label()
		cmdVal := iter.Value()
		prefix := "cmds." + name

		desc, err := optionalString(cmdVal, "description")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", prefix, err)
		}

		cmd := ir.CommandDef{
			Name:        name,
			Description: desc,
		}

		cmd.Args, err = parseVariables(lookup(cmdVal, "arguments"), prefix+".arguments")
		if err != nil {
			return nil, err
		}

		resultVal := lookup(cmdVal, "result")
		if resultVal.Exists() {
			ti, err := BuildTypeInfo(prefix+".result", resultVal)
			if err != nil {
				return nil, err
			}
			cmd.Result = &ti

			cmd.ResultDescription, err = optionalString(resultVal, "description")
			if err != nil {
				return nil, fmt.Errorf("%s.result: %w", prefix, err)
			}
		}

		cmds = append(cmds, cmd)
	}

	return cmds, nil
}

// optionalString returns the NFC-normalised string at label, or "" when absent.
func optionalString(v cue.Value, label string) (string, error) {
	f := lookup(v, label)
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", fmt.Errorf("%s must be a string", label)
	}
	return norm.NFC.String(s), nil
}

// optionalInt returns the integer at label, or nil when absent.
func optionalInt(v cue.Value, label string) (*int64, error) {
	f := lookup(v, label)
	if !f.Exists() {
		return nil, nil
	}
	n, err := f.Int64()
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", label)
	}
	return &n, nil
}

// optionalBool returns the boolean at label, or false when absent.
func optionalBool(v cue.Value, label string) (bool, error) {
	f := lookup(v, label)
	if !f.Exists() {
		return false, nil
	}
	b, err := f.Bool()
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", label)
	}
	return b, nil
}
