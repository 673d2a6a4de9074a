package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/evgen/internal/artifact"
	"github.com/roach88/evgen/internal/reconcile"
)

// ModuleOptions holds flags for the module commands.
type ModuleOptions struct {
	*RootOptions
	Force     bool
	Diff      bool
	Only      string
	OutputDir string
}

// NewModuleCommand creates the module command group.
func NewModuleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "module",
		Aliases: []string{"mod"},
		Short:   "Module related actions",
	}

	cmd.AddCommand(newModuleCreateCommand(rootOpts))
	cmd.AddCommand(newModuleUpdateCommand(rootOpts))
	cmd.AddCommand(newModuleGenerateSourcesCommand(rootOpts))

	return cmd
}

func newModuleCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModuleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "create <module>",
		Aliases: []string{"c"},
		Short:   "Create the source tree of a module",
		Long: `Create CMakeLists.txt, the module class and one implementation stub pair
per provided interface in modules/<module>/.

Existing files are reported as conflicts and kept unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			primary := reconcile.Create
			if opts.Force {
				primary = reconcile.ForceCreate
			}
			return runModuleFiles(cmd, opts, args[0], primary)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "force overwriting - use with care!")
	addDiffFlag(cmd, &opts.Diff, "show resulting diff on create or overwrite")
	cmd.Flags().StringVar(&opts.Only, "only", "", `comma separated list of module files to create; "--only which" lists them`)

	return cmd
}

func newModuleUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModuleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "update <module>",
		Aliases: []string{"u"},
		Short:   "Update the source tree of a module",
		Long: `Regenerate the generated parts of a module's source tree.

CMakeLists.txt, the module header and the implementation headers are
overwritten unless they were edited by hand since the last generation.
Edits inside marked regions do not count and are carried over.
The module source and the implementation sources are only created when
missing. --force rewrites the headers from scratch, marked regions included.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			primary := reconcile.Update
			if opts.Force {
				primary = reconcile.ForceUpdate
			}
			return runModuleFiles(cmd, opts, args[0], primary)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "force overwriting")
	addDiffFlag(cmd, &opts.Diff, "show resulting diff")
	cmd.Flags().StringVar(&opts.Only, "only", "", `comma separated list of module files to update; "--only which" lists them`)

	return cmd
}

func newModuleGenerateSourcesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModuleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "generate-sources <module>",
		Aliases: []string{"gs"},
		Short:   "Generate the loader sources of a module",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModuleSources(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "force overwriting")
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "output directory for generated files (default: <everest-dir>/"+artifact.GeneratedPrefix+")")

	return cmd
}

// addDiffFlag registers -d/--diff with --dry-run as an alias.
func addDiffFlag(cmd *cobra.Command, target *bool, usage string) {
	cmd.Flags().BoolVarP(target, "diff", "d", false, usage)
	cmd.Flags().BoolVar(target, "dry-run", false, "alias for --diff")
}

func runModuleFiles(cmd *cobra.Command, opts *ModuleOptions, name string, primary reconcile.Strategy) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}

	mod, doc, err := s.ws.BuildModule(name)
	if err != nil {
		return fail(s.out, "building module "+name, err)
	}
	arts, err := s.planner.ModuleFiles(mod, doc, s.ws.ModuleDir(name))
	if err != nil {
		return fail(s.out, "rendering module "+name, err)
	}

	if opts.Only == artifact.Which {
		return s.out.Lines(artifact.Categories(arts))
	}
	// Only the full plan tells which tracked files the module no longer has.
	scope := s.ws.ModuleDir(name)
	if opts.Only != "" {
		scope = ""
	}
	arts, err = artifact.Filter(arts, opts.Only)
	if err != nil {
		return fail(s.out, "invalid --only", err)
	}

	report, err := s.sync(cmd.Context(), arts, primary, opts.Diff, scope)
	if err != nil {
		return fail(s.out, "module "+name, err)
	}
	return s.finish(report, nil)
}

func runModuleSources(cmd *cobra.Command, opts *ModuleOptions, name string) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}

	outDir, err := s.outputDir(opts.OutputDir)
	if err != nil {
		return fail(s.out, "invalid --output-dir", err)
	}

	mod, doc, err := s.ws.BuildModule(name)
	if err != nil {
		return fail(s.out, "building module "+name, err)
	}
	arts, err := s.planner.ModuleSources(mod, doc, outDir)
	if err != nil {
		return fail(s.out, "rendering module "+name, err)
	}

	primary := reconcile.Update
	if opts.Force {
		primary = reconcile.ForceUpdate
	}
	report, err := s.sync(cmd.Context(), arts, primary, false, "")
	if err != nil {
		return fail(s.out, "module "+name, err)
	}
	return s.finish(report, nil)
}
