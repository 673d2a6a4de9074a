package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/evgen/internal/artifact"
	"github.com/roach88/evgen/internal/compiler"
	"github.com/roach88/evgen/internal/reconcile"
)

// InterfaceOptions holds flags for the interface commands.
type InterfaceOptions struct {
	*RootOptions
	Force     bool
	Diff      bool
	OutputDir string
}

// NewInterfaceCommand creates the interface command group.
func NewInterfaceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "interface",
		Aliases: []string{"if"},
		Short:   "Interface related actions",
	}

	cmd.AddCommand(newInterfaceGenerateSourcesCommand(rootOpts))

	return cmd
}

func newInterfaceGenerateSourcesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InterfaceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "generate-sources [interface...]",
		Aliases: []string{"gs"},
		Short:   "Generate interface headers and sources",
		Long: `Generate the requirement class, the implementation base class and the
embedded definition of each named interface.

Without names every interface definition is processed and definitions
that cannot be processed are skipped. A named interface that cannot be
processed aborts the command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterfaceSources(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "force overwriting")
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "output directory for generated files (default: <everest-dir>/"+artifact.GeneratedPrefix+")")
	addDiffFlag(cmd, &opts.Diff, "show resulting diff")

	return cmd
}

func runInterfaceSources(cmd *cobra.Command, opts *InterfaceOptions, names []string) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}

	outDir, err := s.outputDir(opts.OutputDir)
	if err != nil {
		return fail(s.out, "invalid --output-dir", err)
	}

	mode := compiler.ModeFailFast
	if len(names) == 0 {
		mode = compiler.ModeCollect
		if names, err = s.ws.InterfaceNames(); err != nil {
			return fail(s.out, "listing interfaces", err)
		}
	}

	outcomes, err := compiler.BuildInterfaces(s.ws, names, mode)
	if err != nil {
		return fail(s.out, "building interfaces", err)
	}

	var skipped []SkippedInterface
	for _, o := range compiler.Failed(outcomes) {
		skipped = append(skipped, SkippedInterface{Name: o.Name, Reason: o.Err.Error()})
	}

	var arts []artifact.Artifact
	for _, o := range compiler.Succeeded(outcomes) {
		parts, err := s.planner.InterfaceSources(o.Value, o.Doc, outDir)
		if err != nil {
			return fail(s.out, "rendering interface "+o.Name, err)
		}
		arts = append(arts, parts...)
	}
	s.out.VerboseLog("Generating %d file(s) for %d interface(s) in %s", len(arts), len(outcomes)-len(skipped), outDir)

	primary := reconcile.Update
	if opts.Force {
		primary = reconcile.ForceUpdate
	}
	report, err := s.sync(cmd.Context(), arts, primary, opts.Diff, "")
	if err != nil {
		return fail(s.out, "interfaces", err)
	}
	return s.finish(report, skipped)
}
