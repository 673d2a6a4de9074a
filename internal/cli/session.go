package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/roach88/evgen/internal/artifact"
	"github.com/roach88/evgen/internal/compiler"
	"github.com/roach88/evgen/internal/format"
	"github.com/roach88/evgen/internal/reconcile"
	"github.com/roach88/evgen/internal/render"
	"github.com/roach88/evgen/internal/schema"
	"github.com/roach88/evgen/internal/store"
)

// SchemasDir is the required subdirectory of the framework directory.
const SchemasDir = "schemas"

// session is everything a generating command needs, built once per
// invocation after the root directories were checked.
type session struct {
	cfg       *Config
	logger    *log.Logger
	out       *OutputFormatter
	ws        *compiler.Workspace
	planner   *artifact.Planner
	formatter format.Formatter
	clock     reconcile.Clock
}

func newFormatter(cmd *cobra.Command, cfg *Config) *OutputFormatter {
	return &OutputFormatter{
		Format:    cfg.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   cfg.Verbose,
		Color:     colorEnabled(cfg.Color, cmd.OutOrStdout()),
	}
}

// checkRoots verifies the everest and framework directories before any
// definition is read.
func checkRoots(cfg *Config) error {
	checks := []InvalidRootError{
		{Flag: "--everest-dir", Dir: cfg.EverestDir, Missing: compiler.InterfacesDir},
		{Flag: "--framework-dir", Dir: cfg.FrameworkDir, Missing: SchemasDir},
	}
	for _, c := range checks {
		info, err := os.Stat(filepath.Join(c.Dir, c.Missing))
		if err != nil || !info.IsDir() {
			return &c
		}
	}
	return nil
}

// openSession checks the roots and loads the schema registry and templates.
func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	cfg := opts.Config
	out := newFormatter(cmd, cfg)

	if err := checkRoots(cfg); err != nil {
		return nil, fail(out, "invalid root directory", err)
	}

	reg, err := schema.LoadRegistry(filepath.Join(cfg.FrameworkDir, SchemasDir))
	if err != nil {
		return nil, fail(out, "loading schemas", err)
	}
	r, err := render.New()
	if err != nil {
		return nil, fail(out, "loading templates", err)
	}

	s := &session{
		cfg:     cfg,
		logger:  opts.Logger,
		out:     out,
		ws:      compiler.NewWorkspace(cfg.EverestDir, reg, opts.Logger),
		planner: artifact.NewPlanner(r),
		clock:   opts.Clock,
	}
	if !cfg.DisableClangFormat {
		s.formatter = format.NewClangFormat(cfg.ClangFormatBinary, cfg.ClangFormatFile)
	}
	opts.Logger.Debug("session ready", "everest_dir", cfg.EverestDir, "framework_dir", cfg.FrameworkDir)
	return s, nil
}

// outputDir resolves an --output-dir value, defaulting to the generated
// directory of the everest tree.
func (s *session) outputDir(flag string) (string, error) {
	if flag == "" {
		return artifact.GeneratedDir(s.cfg.EverestDir), nil
	}
	return filepath.Abs(flag)
}

// sync formats arts and applies them under primary. Diff mode prints to
// the command output (stderr under --format json) and never opens the ledger.
// A non-empty scope is a directory whose complete plan arts is; ledger
// records under it for files outside the plan are forgotten.
func (s *session) sync(ctx context.Context, arts []artifact.Artifact, primary reconcile.Strategy, diff bool, scope string) (*reconcile.Report, error) {
	opts := []reconcile.Option{reconcile.WithLogger(s.logger)}
	if s.clock != nil {
		opts = append(opts, reconcile.WithClock(s.clock))
	}

	switch {
	case diff:
		w := s.out.Writer
		if s.out.Format == "json" {
			w = s.out.GetErrWriter()
		}
		opts = append(opts, reconcile.WithDiff(w, s.out.Color))
	case !s.cfg.DisableLedger:
		ledger, err := store.Open(s.cfg.Ledger)
		if err != nil {
			return nil, fmt.Errorf("opening ledger: %w", err)
		}
		defer ledger.Close()
		opts = append(opts, reconcile.WithLedger(ledger))
	}

	formatted, _ := format.Apply(ctx, s.formatter, arts, s.logger)
	engine := reconcile.New(opts...)
	items := reconcile.Assign(formatted, primary)
	report := engine.Sync(ctx, items)
	if scope != "" {
		if _, err := engine.Prune(ctx, scope, items); err != nil {
			s.logger.Warn("ledger not pruned", "dir", scope, "err", err)
		}
	}
	return report, nil
}

// finish prints the report and turns failed writes into an exit error.
// Conflicts do not change the exit code.
func (s *session) finish(report *reconcile.Report, skipped []SkippedInterface) error {
	if err := s.out.Report(report, skipped); err != nil {
		return err
	}
	if err := report.Err(); err != nil {
		if outErr := s.out.Error(ErrCodeWriteFailed, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "writing files failed", err)
	}
	return nil
}
