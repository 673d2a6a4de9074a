package compiler

import (
	"github.com/roach88/evgen/internal/ir"
	"github.com/roach88/evgen/internal/schema"
)

// Mode controls how failures are handled when building several interfaces.
type Mode int

const (
	// ModeFailFast stops on the first failure and returns it.
	ModeFailFast Mode = iota
	// ModeCollect records each failure in its Outcome, logs it and continues.
	ModeCollect
)

// Outcome is the tagged result of building one named definition: either
// Value and Doc are set, or Err is.
type Outcome[T any] struct {
	Name  string
	Value T
	Doc   *schema.Document
	Err   error
}

// OK reports whether the build succeeded.
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// BuildInterfaces builds the named interfaces in order. In ModeFailFast the
// first failure is returned and no outcomes are. In ModeCollect every
// failure is logged with the interface name and the reason, and the
// returned error is always nil.
func BuildInterfaces(w *Workspace, names []string, mode Mode) ([]Outcome[*ir.InterfaceIR], error) {
	outcomes := make([]Outcome[*ir.InterfaceIR], 0, len(names))
	for _, name := range names {
		iface, doc, err := w.BuildInterface(name)
		if err != nil {
			if mode == ModeFailFast {
				return nil, err
			}
			w.Logger.Warn("ignoring interface", "interface", name, "reason", err)
			outcomes = append(outcomes, Outcome[*ir.InterfaceIR]{Name: name, Err: err})
			continue
		}
		outcomes = append(outcomes, Outcome[*ir.InterfaceIR]{Name: name, Value: iface, Doc: doc})
	}
	return outcomes, nil
}

// Succeeded filters outcomes down to successful builds.
func Succeeded[T any](outcomes []Outcome[T]) []Outcome[T] {
	var out []Outcome[T]
	for _, o := range outcomes {
		if o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Failed filters outcomes down to failed builds.
func Failed[T any](outcomes []Outcome[T]) []Outcome[T] {
	var out []Outcome[T]
	for _, o := range outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}
