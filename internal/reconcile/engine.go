package reconcile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/roach88/evgen/internal/artifact"
	"github.com/roach88/evgen/internal/ir"
	"github.com/roach88/evgen/internal/store"
)

// Ledger remembers what was last written to each destination.
// *store.Store implements it.
type Ledger interface {
	Lookup(ctx context.Context, path string) (store.Entry, bool, error)
	Put(ctx context.Context, e store.Entry) error
	Entries(ctx context.Context, dir string) ([]store.Entry, error)
	Forget(ctx context.Context, path string) error
}

// Clock supplies ledger timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Engine applies items to the filesystem.
type Engine struct {
	ledger Ledger
	clock  Clock
	logger *log.Logger
	diff   io.Writer
	color  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLedger enables fingerprint based hand-modification detection.
// Without a ledger, updates fall back to modification times.
func WithLedger(l Ledger) Option {
	return func(e *Engine) { e.ledger = l }
}

// WithClock sets the clock used to timestamp ledger entries.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the logger for conflicts and failures.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithDiff switches the engine to diff mode, printing to w.
func WithDiff(w io.Writer, color bool) Option {
	return func(e *Engine) {
		e.diff = w
		e.color = color
	}
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{clock: systemClock{}}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// DiffMode reports whether the engine only prints diffs.
func (e *Engine) DiffMode() bool {
	return e.diff != nil
}

// Sync processes items in order and reports the outcome of each.
func (e *Engine) Sync(ctx context.Context, items []Item) *Report {
	report := &Report{Results: make([]Result, 0, len(items))}
	for _, it := range items {
		res := e.apply(ctx, it)
		switch {
		case res.Err != nil:
			e.logger.Error("sync failed", "file", res.Display, "err", res.Err)
		case res.State == SkippedConflict:
			e.logger.Warn("skipping file", "file", res.Display, "reason", res.Reason)
		default:
			e.logger.Debug("synced", "file", res.Display, "state", res.State, "strategy", res.Strategy)
		}
		report.Results = append(report.Results, res)
	}
	return report
}

// Prune forgets the ledger records under dir whose paths are not among
// items, so the ledger only tracks files the current definition produces.
// Files on disk are left alone. It returns the forgotten paths.
func (e *Engine) Prune(ctx context.Context, dir string, items []Item) ([]string, error) {
	if e.ledger == nil || e.DiffMode() {
		return nil, nil
	}
	planned := make(map[string]bool, len(items))
	for _, it := range items {
		planned[filepath.Clean(it.Artifact.Path)] = true
	}

	entries, err := e.ledger.Entries(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("prune ledger: %w", err)
	}
	var forgotten []string
	for _, en := range entries {
		if planned[en.Path] {
			continue
		}
		if err := e.ledger.Forget(ctx, en.Path); err != nil {
			return forgotten, fmt.Errorf("prune ledger: %w", err)
		}
		e.logger.Debug("forgot ledger record", "file", en.Path)
		forgotten = append(forgotten, en.Path)
	}
	return forgotten, nil
}

func (e *Engine) apply(ctx context.Context, it Item) Result {
	a := it.Artifact
	res := Result{
		Category:  a.Category,
		Path:      a.Path,
		Display:   a.Display,
		Strategy:  it.Strategy,
		Formatted: a.Formatted,
	}

	if err := ctx.Err(); err != nil {
		res.State, res.Err = Failed, err
		return res
	}

	existing, info, err := readExisting(a.Path)
	if err != nil {
		res.State, res.Err = Failed, err
		return res
	}

	// Forced strategies write exactly the rendered content.
	if info != nil && it.Strategy == Update {
		a.Content = MergeRegions(existing, a.Content)
	}

	if e.DiffMode() {
		if err := e.printDiff(a, existing, info != nil); err != nil {
			res.State, res.Err = Failed, err
			return res
		}
		res.State = DiffPrinted
		if bytes.Equal(existing, a.Content) && info != nil {
			res.Reason = "no changes"
		}
		return res
	}

	if info == nil {
		return e.write(ctx, a, res)
	}

	switch it.Strategy {
	case Create:
		res.State, res.Reason = SkippedConflict, "file already exists"
		return res
	case UpdateIfNonExistent:
		res.State, res.Reason = SkippedExists, "file exists and is never updated"
		return res
	case ForceCreate, ForceUpdate:
		return e.write(ctx, a, res)
	case Update:
		return e.update(ctx, a, existing, info, res)
	default:
		res.State, res.Err = Failed, fmt.Errorf("unknown update strategy %s", it.Strategy)
		return res
	}
}

// update overwrites a only when the destination shows no sign of having
// been edited outside its marked regions since ev-cli last wrote it.
// a.Content already carries the destination's region bodies.
func (e *Engine) update(ctx context.Context, a artifact.Artifact, existing []byte, info fs.FileInfo, res Result) Result {
	if bytes.Equal(existing, a.Content) {
		res.State, res.Reason = SkippedExists, "up to date"
		if err := e.record(ctx, a); err != nil {
			res.Err = err
		}
		return res
	}

	if e.ledger != nil {
		entry, ok, err := e.ledger.Lookup(ctx, a.Path)
		if err != nil {
			res.State, res.Err = Failed, err
			return res
		}
		if ok {
			if fingerprint(existing) != entry.Fingerprint {
				res.State, res.Reason = SkippedConflict, "modified since last generation"
				return res
			}
			return e.write(ctx, a, res)
		}
	}

	if info.ModTime().After(a.SourceModTime) {
		res.State, res.Reason = SkippedConflict, "file is newer than its definition"
		return res
	}
	return e.write(ctx, a, res)
}

func (e *Engine) write(ctx context.Context, a artifact.Artifact, res Result) Result {
	if err := os.MkdirAll(filepath.Dir(a.Path), 0o755); err != nil {
		res.State, res.Err = Failed, fmt.Errorf("create directory: %w", err)
		return res
	}
	if err := os.WriteFile(a.Path, a.Content, 0o644); err != nil {
		res.State, res.Err = Failed, fmt.Errorf("write file: %w", err)
		return res
	}
	res.State = Written
	if err := e.record(ctx, a); err != nil {
		res.Err = err
	}
	return res
}

func (e *Engine) record(ctx context.Context, a artifact.Artifact) error {
	if e.ledger == nil {
		return nil
	}
	err := e.ledger.Put(ctx, store.Entry{
		Path:        a.Path,
		Fingerprint: fingerprint(a.Content),
		Category:    a.Category,
		ToolVersion: ir.ToolVersion,
		IRVersion:   ir.IRVersion,
		GeneratedAt: e.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("record generation: %w", err)
	}
	return nil
}

// fingerprint identifies generated content. Marked region bodies are
// excluded, so editing inside them is not a hand modification.
func fingerprint(content []byte) string {
	return ir.Fingerprint(StripRegions(content))
}

// readExisting returns the content and file info of path, or nil info when
// nothing exists there.
func readExisting(path string) ([]byte, fs.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("%s is a directory", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return content, info, nil
}
