package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Definition categories with a validator in the registry.
const (
	CategoryModule    = "module"
	CategoryInterface = "interface"
)

// schemaFiles maps a category to the schema document name (without extension).
var schemaFiles = map[string]string{
	CategoryModule:    "manifest",
	CategoryInterface: "interface",
}

// DocumentExtensions lists accepted definition extensions in lookup order.
var DocumentExtensions = []string{".json", ".yaml", ".yml"}

// ValidationError reports a definition that does not satisfy its schema.
type ValidationError struct {
	Path     string // definition file
	Location string // JSON pointer into the document, empty for document-level errors
	Detail   string
}

func (e *ValidationError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s: at %s: %s", e.Path, e.Location, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Detail)
}

// Registry holds the named validators loaded from a schema directory.
// It is built once per invocation and never mutated afterwards.
type Registry struct {
	dir        string
	ctx        *cue.Context
	validators map[string]*Validator
}

// Validator validates documents of one category.
type Validator struct {
	category string
	registry *Registry
	schema   *jsonschema.Schema
	raw      map[string]any // schema document, walked for defaults
}

// LoadRegistry compiles the module and interface validators from dir.
// Every JSON or YAML file in dir is registered as a resource so that
// schemas may $ref each other by file name.
func LoadRegistry(dir string) (*Registry, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving schema directory: %w", err)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("reading schema directory: %w", err)
	}

	c := jsonschema.NewCompiler()
	docs := make(map[string]any)
	for _, e := range entries {
		if e.IsDir() || !isDocumentFile(e.Name()) {
			continue
		}
		path := filepath.Join(abs, e.Name())
		doc, err := loadSchemaDocument(path)
		if err != nil {
			return nil, err
		}
		url := fileURL(path)
		if err := c.AddResource(url, doc); err != nil {
			return nil, fmt.Errorf("adding schema %s: %w", path, err)
		}
		docs[path] = doc
	}

	r := &Registry{
		dir:        abs,
		ctx:        cuecontext.New(),
		validators: make(map[string]*Validator, len(schemaFiles)),
	}

	for _, category := range Categories() {
		path, ok := findDocument(abs, schemaFiles[category])
		if !ok {
			return nil, fmt.Errorf("schema for %q not found in %s (expected %s.json or %s.yaml)",
				category, abs, schemaFiles[category], schemaFiles[category])
		}
		sch, err := c.Compile(fileURL(path))
		if err != nil {
			return nil, fmt.Errorf("compiling %s schema: %w", category, err)
		}
		raw, _ := docs[path].(map[string]any)
		r.validators[category] = &Validator{
			category: category,
			registry: r,
			schema:   sch,
			raw:      raw,
		}
	}

	return r, nil
}

// Categories returns the validator categories in a stable order.
func Categories() []string {
	out := make([]string, 0, len(schemaFiles))
	for k := range schemaFiles {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Dir returns the absolute schema directory.
func (r *Registry) Dir() string {
	return r.dir
}

// Context returns the CUE context documents are built in.
func (r *Registry) Context() *cue.Context {
	return r.ctx
}

// Validator returns the validator for a category.
func (r *Registry) Validator(category string) (*Validator, error) {
	v, ok := r.validators[category]
	if !ok {
		return nil, fmt.Errorf("no validator for category %q", category)
	}
	return v, nil
}

// Category returns the category this validator checks.
func (v *Validator) Category() string {
	return v.category
}

// Validate checks data against the category schema and returns the
// validated document with schema defaults applied. path is only used
// for error messages and the returned Document.
func (v *Validator) Validate(path string, data []byte) (*Document, error) {
	if IsYAML(path) {
		converted, err := YAMLToJSON(data)
		if err != nil {
			return nil, &ValidationError{Path: path, Detail: err.Error()}
		}
		data = converted
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &ValidationError{Path: path, Detail: fmt.Sprintf("invalid JSON: %v", err)}
	}

	if err := v.schema.Validate(inst); err != nil {
		return nil, newValidationError(path, err)
	}

	expr, err := cuejson.Extract(path, data)
	if err != nil {
		return nil, &ValidationError{Path: path, Detail: fmt.Sprintf("invalid JSON: %v", err)}
	}
	val := v.registry.ctx.BuildExpr(expr)
	if err := val.Err(); err != nil {
		return nil, &ValidationError{Path: path, Detail: err.Error()}
	}

	val, err = applyDefaults(v.registry.ctx, val, v.raw, v.raw)
	if err != nil {
		return nil, &ValidationError{Path: path, Detail: fmt.Sprintf("applying defaults: %v", err)}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return nil, &ValidationError{Path: path, Detail: fmt.Sprintf("invalid JSON: %v", err)}
	}

	return &Document{
		Path:     path,
		Category: v.category,
		Value:    val,
		JSON:     compact.Bytes(),
	}, nil
}

// LoadFile reads, validates and defaults the definition at path.
func (v *Validator) LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	doc, err := v.Validate(path, data)
	if err != nil {
		return nil, err
	}
	doc.ModTime = info.ModTime()
	return doc, nil
}

func newValidationError(path string, err error) *ValidationError {
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		leaf := deepestCause(ve)
		loc := "/" + strings.Join(leaf.InstanceLocation, "/")
		return &ValidationError{Path: path, Location: loc, Detail: leaf.Error()}
	}
	return &ValidationError{Path: path, Detail: err.Error()}
}

// deepestCause follows the first cause chain to the most specific error.
func deepestCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

func loadSchemaDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema %s: %w", path, err)
	}
	if IsYAML(path) {
		data, err = YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", path, err)
		}
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return doc, nil
}

// findDocument looks up base with each accepted extension in turn.
func findDocument(dir, base string) (string, bool) {
	for _, ext := range DocumentExtensions {
		p := filepath.Join(dir, base+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// FindDocument is findDocument for callers outside the package.
func FindDocument(dir, base string) (string, bool) {
	return findDocument(dir, base)
}

func isDocumentFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range DocumentExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func fileURL(path string) string {
	return "file://" + filepath.ToSlash(path)
}
