package reconcile

import (
	"errors"
	"fmt"
)

// State is the terminal state of one artifact.
type State string

const (
	Written         State = "written"
	SkippedConflict State = "conflict"
	SkippedExists   State = "exists"
	DiffPrinted     State = "diff"
	Failed          State = "failed"
)

// Result reports what happened to one artifact.
type Result struct {
	Category  string   `json:"category"`
	Path      string   `json:"path"`
	Display   string   `json:"file"`
	Strategy  Strategy `json:"strategy"`
	State     State    `json:"state"`
	Reason    string   `json:"reason,omitempty"`
	Formatted bool     `json:"formatted"`
	Err       error    `json:"-"`
}

// Report collects the results of one Sync call in plan order.
type Report struct {
	Results []Result `json:"results"`
}

// Count returns how many artifacts ended in state.
func (r *Report) Count(state State) int {
	n := 0
	for _, res := range r.Results {
		if res.State == state {
			n++
		}
	}
	return n
}

// Conflicts returns the artifacts skipped because of a conflict.
func (r *Report) Conflicts() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.State == SkippedConflict {
			out = append(out, res)
		}
	}
	return out
}

// Err joins the errors of every artifact that failed, or returns nil.
// Conflicts are not errors.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Display, res.Err))
		}
	}
	return errors.Join(errs...)
}

// Merge appends the results of other.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Results = append(r.Results, other.Results...)
}
