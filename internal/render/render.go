package render

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/roach88/evgen/internal/ir"
	"github.com/roach88/evgen/internal/naming"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template names one of the fixed templates.
type Template string

const (
	InterfaceReqHeader  Template = "interface_req.hpp"
	InterfaceReqSource  Template = "interface_req.cpp"
	InterfaceImplHeader Template = "interface_impl.hpp"
	InterfaceImplSource Template = "interface_impl.cpp"
	ModuleHeader        Template = "module.hpp"
	ModuleSource        Template = "module.cpp"
	JSONSource          Template = "json_file.cpp"
	LoaderSource        Template = "ld-ev.cpp"
	BuildFile           Template = "CMakeLists.txt"
	BuildDeps           Template = "mod_deps.cmake"
)

// Templates returns every template name in a fixed order.
func Templates() []Template {
	return []Template{
		InterfaceReqHeader, InterfaceReqSource,
		InterfaceImplHeader, InterfaceImplSource,
		ModuleHeader, ModuleSource,
		JSONSource, LoaderSource,
		BuildFile, BuildDeps,
	}
}

// InterfaceData feeds the interface templates. Impl and Module are set when
// the implementation templates render a module's stub for one provided
// implementation; otherwise they render the interface base class.
type InterfaceData struct {
	Interface   *ir.InterfaceIR
	HeaderGuard string
	Impl        *ir.ProvidedImplementation
	Module      *ir.ModuleIR
}

// ModuleData feeds the module and build templates. Generated selects the
// declarations placed in the generated include tree instead of the module's
// own header.
type ModuleData struct {
	Module    *ir.ModuleIR
	Generated bool
}

// Renderer renders the fixed templates. It is safe for concurrent use.
type Renderer struct {
	templates map[Template]*template.Template
}

// New parses every embedded template.
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[Template]*template.Template)}
	for _, name := range Templates() {
		src, err := templateFS.ReadFile("templates/" + string(name) + ".tmpl")
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
		tmpl, err := template.New(string(name)).Funcs(funcs).Option("missingkey=error").Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("compile template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// Render executes the named template against data.
func (r *Renderer) Render(name Template, data any) ([]byte, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// InterfaceGuard returns the include guard of a generated interface header;
// part is "REQ" or "IMPL".
func InterfaceGuard(name, part string) string {
	return naming.HeaderGuard("GENERATED", "INTERFACE", name, part, "HPP")
}

// ImplGuard returns the include guard of a module's implementation stub header.
func ImplGuard(id, interfaceName string) string {
	return naming.HeaderGuard(id, interfaceName, "IMPL", "HPP")
}
