package compiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/roach88/evgen/internal/ir"
	"github.com/roach88/evgen/internal/schema"
)

// Definition directories below the workspace root.
const (
	InterfacesDir = "interfaces"
	ModulesDir    = "modules"
	ManifestName  = "manifest"
)

// Workspace is the per-invocation context every IR build runs in: the
// definitions root, the validator registry and the logger. It is built once
// at startup and passed to each build explicitly.
type Workspace struct {
	Root     string
	Registry *schema.Registry
	Logger   *log.Logger
}

// NewWorkspace creates a workspace. A nil logger discards output.
func NewWorkspace(root string, reg *schema.Registry, logger *log.Logger) *Workspace {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Workspace{Root: root, Registry: reg, Logger: logger}
}

// InterfacePath locates the definition file of an interface.
func (w *Workspace) InterfacePath(name string) (string, error) {
	dir := filepath.Join(w.Root, InterfacesDir)
	if p, ok := schema.FindDocument(dir, name); ok {
		return p, nil
	}
	return "", &DefinitionNotFoundError{Kind: schema.CategoryInterface, Name: name, Path: filepath.Join(dir, name+".json")}
}

// ModuleDir returns the directory of a module.
func (w *Workspace) ModuleDir(name string) string {
	return filepath.Join(w.Root, ModulesDir, name)
}

// ManifestPath locates the manifest of a module.
func (w *Workspace) ManifestPath(name string) (string, error) {
	dir := w.ModuleDir(name)
	if p, ok := schema.FindDocument(dir, ManifestName); ok {
		return p, nil
	}
	return "", &DefinitionNotFoundError{Kind: schema.CategoryModule, Name: name, Path: filepath.Join(dir, ManifestName+".json")}
}

// LoadInterface reads and validates an interface definition.
func (w *Workspace) LoadInterface(name string) (*schema.Document, error) {
	path, err := w.InterfacePath(name)
	if err != nil {
		return nil, err
	}
	return w.load(schema.CategoryInterface, path)
}

// LoadModule reads and validates a module manifest.
func (w *Workspace) LoadModule(name string) (*schema.Document, error) {
	path, err := w.ManifestPath(name)
	if err != nil {
		return nil, err
	}
	return w.load(schema.CategoryModule, path)
}

func (w *Workspace) load(category, path string) (*schema.Document, error) {
	v, err := w.Registry.Validator(category)
	if err != nil {
		return nil, err
	}
	return v.LoadFile(path)
}

// BuildInterface loads, validates and compiles one interface.
func (w *Workspace) BuildInterface(name string) (*ir.InterfaceIR, *schema.Document, error) {
	doc, err := w.LoadInterface(name)
	if err != nil {
		return nil, nil, err
	}

	w.Logger.Debug("compiling interface", "interface", name, "path", doc.Path)
	iface, err := CompileInterface(name, doc.Value)
	if err != nil {
		return nil, nil, &DefinitionError{Path: doc.Path, Err: err}
	}
	if errs := Validate(iface); len(errs) > 0 {
		return nil, nil, &DefinitionError{Path: doc.Path, Err: errs}
	}
	return iface, doc, nil
}

// ResolveInterface implements InterfaceResolver.
func (w *Workspace) ResolveInterface(name string) (*ir.InterfaceIR, error) {
	iface, _, err := w.BuildInterface(name)
	return iface, err
}

// BuildModule loads, validates and compiles one module together with every
// interface it provides.
func (w *Workspace) BuildModule(name string) (*ir.ModuleIR, *schema.Document, error) {
	doc, err := w.LoadModule(name)
	if err != nil {
		return nil, nil, err
	}

	w.Logger.Debug("compiling module", "module", name, "path", doc.Path)
	mod, err := CompileModule(w, name, doc.Value)
	if err != nil {
		var defErr *DefinitionError
		if errors.As(err, &defErr) {
			// Interface failures already name their own file.
			return nil, nil, fmt.Errorf("%s: %w", doc.Path, err)
		}
		return nil, nil, &DefinitionError{Path: doc.Path, Err: err}
	}
	if errs := Validate(mod); len(errs) > 0 {
		return nil, nil, &DefinitionError{Path: doc.Path, Err: errs}
	}
	return mod, doc, nil
}

// InterfaceNames lists every interface definition in the workspace, sorted.
func (w *Workspace) InterfaceNames() ([]string, error) {
	dir := filepath.Join(w.Root, InterfacesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing interfaces: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !isDefinitionExt(ext) {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), ext)
		if !seen[stem] {
			seen[stem] = true
			names = append(names, stem)
		}
	}
	sort.Strings(names)
	return names, nil
}

func isDefinitionExt(ext string) bool {
	for _, e := range schema.DocumentExtensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
