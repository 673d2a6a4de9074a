package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/roach88/evgen/internal/helpers"
	"github.com/roach88/evgen/internal/ir"
	"github.com/roach88/evgen/internal/reconcile"
)

// RootOptions holds global state shared by all commands.
type RootOptions struct {
	ConfigFile string

	// Resolved in PersistentPreRunE.
	Config *Config
	Logger *log.Logger

	// Overridable for tests.
	UUIDs helpers.Generator
	Clock reconcile.Clock
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for ev-cli.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{UUIDs: helpers.RandomGenerator{}})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ev-cli",
		Short:   "EVerest module and interface generator",
		Long:    "Generates EVerest module skeletons and interface sources from manifest and interface definitions.",
		Version: ir.ToolVersion,

		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts.ConfigFile)
			if err != nil {
				f := &OutputFormatter{Format: "text", Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr()}
				return fail(f, "configuration error", err)
			}
			opts.Config = cfg
			opts.Logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.File != "" {
				opts.Logger.Debug("loaded config", "file", cfg.File)
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ConfigFile, "config", "", "config file (default: ./ev-cli.{yaml,toml,json})")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.String("format", "text", "output format (json|text)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("everest-dir", ".", "everest directory containing the interface definitions")
	pf.String("framework-dir", "../everest-framework", "everest framework directory containing the schema definitions")
	pf.String("clang-format-file", ".", "directory containing the .clang-format file")
	pf.Bool("disable-clang-format", false, "disable clang-format")
	pf.String("clang-format-binary", "clang-format", "clang-format executable")
	pf.String("ledger", "", "generation ledger database (default: <everest-dir>/"+LedgerFile+")")
	pf.Bool("disable-ledger", false, "detect hand edits by modification time only")

	cmd.AddCommand(NewModuleCommand(opts))
	cmd.AddCommand(NewInterfaceCommand(opts))
	cmd.AddCommand(NewHelpersCommand(opts))

	return cmd
}

// newLogger creates the stderr logger; verbose enables debug output.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "ev-cli"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// colorEnabled resolves --color against the output writer.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
