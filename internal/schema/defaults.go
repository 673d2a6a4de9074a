package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	cuejson "cuelang.org/go/encoding/json"
)

// applyDefaults fills absent properties that declare a default and recurses
// into present object values. Only local "#/..." references are followed.
func applyDefaults(ctx *cue.Context, val cue.Value, sch, root map[string]any) (cue.Value, error) {
	sch = resolveLocalRef(sch, root)
	if sch == nil || val.IncompleteKind() != cue.StructKind {
		return val, nil
	}

	props, _ := sch["properties"].(map[string]any)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ps, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		ps = resolveLocalRef(ps, root)
		p := cue.MakePath(cue.Str(name))
		field := val.LookupPath(p)

		if !field.Exists() {
			d, ok := ps["default"]
			if !ok {
				continue
			}
			dv, err := defaultValue(ctx, d)
			if err != nil {
				return val, fmt.Errorf("default for %q: %w", name, err)
			}
			val = val.FillPath(p, dv)
			continue
		}

		filled, err := applyDefaults(ctx, field, ps, root)
		if err != nil {
			return val, err
		}
		val = val.FillPath(p, filled)
	}

	patterns, err := compilePatterns(sch)
	if err != nil {
		return val, err
	}
	additional, _ := sch["additionalProperties"].(map[string]any)
	if len(patterns) == 0 && additional == nil {
		return val, nil
	}

	iter, err := val.Fields()
	if err != nil {
		return val, err
	}
	type pending struct {
		label string
		sch   map[string]any
	}
	var todo []pending
	for iter.Next() {
		label := iter.Label()
		if _, declared := props[label]; declared {
			continue
		}
		matched := false
		for _, pp := range patterns {
			if pp.re.MatchString(label) {
				todo = append(todo, pending{label, pp.sch})
				matched = true
			}
		}
		if !matched && additional != nil {
			todo = append(todo, pending{label, additional})
		}
	}

	for _, item := range todo {
		p := cue.MakePath(cue.Str(item.label))
		filled, err := applyDefaults(ctx, val.LookupPath(p), item.sch, root)
		if err != nil {
			return val, err
		}
		val = val.FillPath(p, filled)
	}
	return val, val.Err()
}

type patternSchema struct {
	re  *regexp.Regexp
	sch map[string]any
}

func compilePatterns(sch map[string]any) ([]patternSchema, error) {
	pp, _ := sch["patternProperties"].(map[string]any)
	keys := make([]string, 0, len(pp))
	for k := range pp {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []patternSchema
	for _, k := range keys {
		s, ok := pp[k].(map[string]any)
		if !ok {
			continue
		}
		re, err := regexp.Compile(k)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", k, err)
		}
		out = append(out, patternSchema{re: re, sch: s})
	}
	return out, nil
}

// resolveLocalRef follows "$ref": "#/a/b" chains within root.
func resolveLocalRef(sch, root map[string]any) map[string]any {
	for depth := 0; sch != nil && depth < 32; depth++ {
		ref, ok := sch["$ref"].(string)
		if !ok || !strings.HasPrefix(ref, "#") {
			return sch
		}
		target := lookupPointer(root, strings.TrimPrefix(ref, "#"))
		next, ok := target.(map[string]any)
		if !ok {
			return sch
		}
		sch = next
	}
	return sch
}

func lookupPointer(root map[string]any, ptr string) any {
	var cur any = root
	for _, tok := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		if tok == "" {
			continue
		}
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[tok]
	}
	return cur
}

// defaultValue converts a decoded schema default into a CUE value.
func defaultValue(ctx *cue.Context, d any) (cue.Value, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return cue.Value{}, err
	}
	expr, err := cuejson.Extract("default", data)
	if err != nil {
		return cue.Value{}, err
	}
	v := ctx.BuildExpr(expr)
	return v, v.Err()
}
