package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/evgen/internal/ir"
	"github.com/roach88/evgen/internal/naming"
)

// InterfaceResolver builds the IR of a referenced interface by name.
// *Workspace implements it; tests may substitute a map-backed resolver.
type InterfaceResolver interface {
	ResolveInterface(name string) (*ir.InterfaceIR, error)
}

// CompileModule builds the IR of one validated module manifest. Every
// interface referenced under "provides" is resolved through r; any
// resolution failure aborts the build.
func CompileModule(r InterfaceResolver, name string, v cue.Value) (*ir.ModuleIR, error) {
	if err := v.Err(); err != nil {
		return nil, err
	}

	desc, err := optionalString(v, "description")
	if err != nil {
		return nil, err
	}
	external, err := optionalBool(v, "enable_external_mqtt")
	if err != nil {
		return nil, err
	}

	mod := &ir.ModuleIR{
		Name:              name,
		Description:       desc,
		ExternalMessaging: external,
		HeaderGuard:       naming.HeaderGuard("GENERATED", "MODULE", name, "HPP"),
	}

	mod.Provides, err = parseProvides(r, lookup(v, "provides"))
	if err != nil {
		return nil, err
	}

	mod.Requires, err = parseRequires(lookup(v, "requires"))
	if err != nil {
		return nil, err
	}

	mod.Config, err = parseVariables(lookup(v, "config"), "config")
	if err != nil {
		return nil, err
	}

	// Provides is complete, so pointers into it stay valid.
	var implConfigs []*ir.ProvidedImplementation
	for i := range mod.Provides {
		if len(mod.Provides[i].Config) > 0 {
			implConfigs = append(implConfigs, &mod.Provides[i])
		}
	}
	if len(mod.Config) > 0 || len(implConfigs) > 0 {
		mod.Configs = &ir.ConfigSection{
			Module:          mod.Config,
			Implementations: implConfigs,
		}
	}

	return mod, nil
}

func parseProvides(r InterfaceResolver, v cue.Value) ([]ir.ProvidedImplementation, error) {
	provides := []ir.ProvidedImplementation{}
	if !v.Exists() {
		return provides, nil
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, fmt.Errorf("provides: %w", err)
	}

	resolved := make(map[string]*ir.InterfaceIR)
	for iter.Next() {
		id := iter.Label()
		implVal := iter.Value()
		prefix := "provides." + id

		ifName, err := lookup(implVal, "interface").String()
		if err != nil {
			return nil, fmt.Errorf("%s.interface: must be a string", prefix)
		}
		desc, err := optionalString(implVal, "description")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", prefix, err)
		}
		config, err := parseVariables(lookup(implVal, "config"), prefix+".config")
		if err != nil {
			return nil, err
		}

		iface, ok := resolved[ifName]
		if !ok {
			iface, err = r.ResolveInterface(ifName)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", prefix, err)
			}
			resolved[ifName] = iface
		}

		header, source := ImplFilePaths(id, ifName)
		provides = append(provides, ir.ProvidedImplementation{
			ID:            id,
			InterfaceName: ifName,
			Description:   desc,
			Config:        config,
			Interface:     iface,
			IsPublishing:  len(iface.Vars) > 0,
			IsCallable:    len(iface.Cmds) > 0,
			ClassHeader:   header,
			SourceFile:    source,
		})
	}

	return provides, nil
}

func parseRequires(v cue.Value) ([]ir.RequirementBinding, error) {
	requires := []ir.RequirementBinding{}
	if !v.Exists() {
		return requires, nil
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, fmt.Errorf("requires: %w", err)
	}

	for iter.Next() {
		id := iter.Label()
		reqVal := iter.Value()
		prefix := "requires." + id

		ifName, err := lookup(reqVal, "interface").String()
		if err != nil {
			return nil, fmt.Errorf("%s.interface: must be a string", prefix)
		}
		minConn, err := optionalInt(reqVal, "min_connections")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", prefix, err)
		}
		maxConn, err := optionalInt(reqVal, "max_connections")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", prefix, err)
		}

		requires = append(requires, ir.RequirementBinding{
			ID:            id,
			InterfaceName: ifName,
			IsVector:      IsVector(minConn, maxConn),
		})
	}

	return requires, nil
}

// IsVector reports whether a requirement accepts other than exactly one
// connection. Absent bounds default to 1.
func IsVector(minConn, maxConn *int64) bool {
	single := func(n *int64) bool { return n == nil || *n == 1 }
	return !(single(minConn) && single(maxConn))
}

// ImplFilePaths returns the header and source stubs of an implementation,
// relative to the module directory.
func ImplFilePaths(id, interfaceName string) (header, source string) {
	common := id + "/" + interfaceName
	return common + "Impl.hpp", common + "Impl.cpp"
}
