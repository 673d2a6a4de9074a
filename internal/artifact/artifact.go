package artifact

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/roach88/evgen/internal/ir"
	"github.com/roach88/evgen/internal/render"
	"github.com/roach88/evgen/internal/schema"
)

// Destination roots below the generated output directory.
const (
	GeneratedPrefix = "build/generated"
	IncludePrefix   = "include/generated"
	SourcePrefix    = "src"
)

// Module file categories. Implementation stubs use "<id>.hpp" and "<id>.cpp".
const (
	CategoryCMakeLists   = "cmakelists"
	CategoryModuleHeader = "module.hpp"
	CategoryModuleSource = "module.cpp"
)

// Which is the --only value that lists categories instead of filtering.
const Which = "which"

// Artifact is one rendered output file. It is not modified after planning.
type Artifact struct {
	Category      string
	Path          string // absolute destination
	Display       string // destination relative to the output root
	Content       []byte
	SourceModTime time.Time // modification time of the definition it was rendered from

	// Editable marks files the user is expected to fill in; updates never
	// overwrite them.
	Editable bool

	// Formatted is set once Content went through the source formatter.
	Formatted bool
}

// Planner renders artifacts from IR.
type Planner struct {
	Renderer *render.Renderer
}

// NewPlanner creates a planner around a renderer.
func NewPlanner(r *render.Renderer) *Planner {
	return &Planner{Renderer: r}
}

// ModuleFiles plans the files of a module's own source tree in dir: the
// build file, the module header and source, and one header/source pair per
// provided implementation.
func (p *Planner) ModuleFiles(mod *ir.ModuleIR, doc *schema.Document, dir string) ([]Artifact, error) {
	data := render.ModuleData{Module: mod}
	b := builder{planner: p, root: dir, mtime: doc.ModTime}

	b.add(CategoryCMakeLists, "CMakeLists.txt", false, render.BuildFile, data)
	b.add(CategoryModuleHeader, mod.Name+".hpp", false, render.ModuleHeader, data)
	b.add(CategoryModuleSource, mod.Name+".cpp", true, render.ModuleSource, data)

	for i := range mod.Provides {
		impl := &mod.Provides[i]
		implData := render.InterfaceData{
			Interface:   impl.Interface,
			HeaderGuard: render.ImplGuard(impl.ID, impl.InterfaceName),
			Impl:        impl,
			Module:      mod,
		}
		b.add(impl.ID+".hpp", impl.ClassHeader, false, render.InterfaceImplHeader, implData)
		b.add(impl.ID+".cpp", impl.SourceFile, true, render.InterfaceImplSource, implData)
	}
	return b.done()
}

// ModuleSources plans the generated loader files of a module below outDir.
func (p *Planner) ModuleSources(mod *ir.ModuleIR, doc *schema.Document, outDir string) ([]Artifact, error) {
	manifest, err := render.NewInlineJSON("manifest_json", "module", doc.JSON)
	if err != nil {
		return nil, err
	}

	data := render.ModuleData{Module: mod, Generated: true}
	src := filepath.Join(SourcePrefix, "module", mod.Name)
	b := builder{planner: p, root: outDir, mtime: doc.ModTime}

	b.add("module.hpp", filepath.Join(IncludePrefix, "module", mod.Name+".hpp"), false, render.ModuleHeader, data)
	b.add("ld-ev.cpp", filepath.Join(src, "ld-ev.cpp"), false, render.LoaderSource, data)
	b.add("mod_deps.cmake", filepath.Join(src, "mod_deps.cmake"), false, render.BuildDeps, data)
	b.add("manifest.cpp", filepath.Join(src, "manifest.cpp"), false, render.JSONSource, manifest)
	return b.done()
}

// InterfaceSources plans the generated files of one interface below outDir.
func (p *Planner) InterfaceSources(iface *ir.InterfaceIR, doc *schema.Document, outDir string) ([]Artifact, error) {
	embedded, err := render.NewInlineJSON("interface_json", "everest::interface::"+iface.Name, doc.JSON)
	if err != nil {
		return nil, err
	}

	inc := filepath.Join(IncludePrefix, "interface")
	src := filepath.Join(SourcePrefix, "interface")
	req := render.InterfaceData{Interface: iface, HeaderGuard: render.InterfaceGuard(iface.Name, "REQ")}
	impl := render.InterfaceData{Interface: iface, HeaderGuard: render.InterfaceGuard(iface.Name, "IMPL")}
	b := builder{planner: p, root: outDir, mtime: doc.ModTime}

	b.add("req.hpp", filepath.Join(inc, iface.Name+"_req.hpp"), false, render.InterfaceReqHeader, req)
	b.add("req.cpp", filepath.Join(src, iface.Name+"_req.cpp"), false, render.InterfaceReqSource, req)
	b.add("impl.hpp", filepath.Join(inc, iface.Name+"_impl.hpp"), false, render.InterfaceImplHeader, impl)
	b.add("impl.cpp", filepath.Join(src, iface.Name+"_impl.cpp"), false, render.InterfaceImplSource, impl)
	b.add("json.cpp", filepath.Join(src, iface.Name+"_json.cpp"), false, render.JSONSource, embedded)
	return b.done()
}

// builder accumulates artifacts and keeps the first render error.
type builder struct {
	planner *Planner
	root    string
	mtime   time.Time
	out     []Artifact
	err     error
}

func (b *builder) add(category, rel string, editable bool, tmpl render.Template, data any) {
	if b.err != nil {
		return
	}
	content, err := b.planner.Renderer.Render(tmpl, data)
	if err != nil {
		b.err = fmt.Errorf("%s: %w", rel, err)
		return
	}
	b.out = append(b.out, Artifact{
		Category:      category,
		Path:          filepath.Join(b.root, filepath.FromSlash(rel)),
		Display:       filepath.ToSlash(rel),
		Content:       content,
		SourceModTime: b.mtime,
		Editable:      editable,
	})
}

func (b *builder) done() ([]Artifact, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.out, nil
}

// Categories returns the category names of a plan in plan order.
func Categories(arts []Artifact) []string {
	out := make([]string, len(arts))
	for i, a := range arts {
		out[i] = a.Category
	}
	return out
}

// UnknownCategoryError reports --only names that match no artifact.
type UnknownCategoryError struct {
	Unknown   []string
	Available []string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown file category %s (available: %s)",
		strings.Join(quoteAll(e.Unknown), ", "), strings.Join(e.Available, ", "))
}

// Filter keeps the artifacts whose category is listed in only, a comma
// separated list. An empty list keeps everything. Every listed name must
// match a category of the plan.
func Filter(arts []Artifact, only string) ([]Artifact, error) {
	if strings.TrimSpace(only) == "" {
		return arts, nil
	}

	available := make(map[string]bool, len(arts))
	for _, a := range arts {
		available[a.Category] = true
	}

	wanted := make(map[string]bool)
	var unknown []string
	for _, name := range strings.Split(only, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !available[name] {
			unknown = append(unknown, name)
			continue
		}
		wanted[name] = true
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnknownCategoryError{Unknown: unknown, Available: Categories(arts)}
	}

	var out []Artifact
	for _, a := range arts {
		if wanted[a.Category] {
			out = append(out, a)
		}
	}
	return out, nil
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%q", n)
	}
	return out
}

// GeneratedDir returns the default output root of generated sources.
func GeneratedDir(everestDir string) string {
	return filepath.Join(everestDir, filepath.FromSlash(GeneratedPrefix))
}
