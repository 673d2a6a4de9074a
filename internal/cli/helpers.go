package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/evgen/internal/helpers"
)

// NewHelpersCommand creates the helpers command group.
func NewHelpersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "helpers",
		Aliases: []string{"hlp"},
		Short:   "Helper actions",
	}

	cmd.AddCommand(newGenerateUUIDsCommand(rootOpts))

	return cmd
}

func newGenerateUUIDsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-uuids <count>",
		Short: "Generate UUIDs",
		Long:  "Print <count> random UUIDs, one per line. Needs no everest directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, opts.Config)

			count, err := parseCount(args[0])
			if err != nil {
				return fail(out, "generate-uuids", err)
			}
			ids, err := helpers.GenerateUUIDs(opts.UUIDs, count)
			if err != nil {
				return fail(out, "generate-uuids", &InvalidArgumentError{Arg: "count", Value: args[0], Reason: "must be positive", Err: err})
			}
			return out.Lines(ids)
		},
	}

	// pflag reads "-5" as a shorthand flag. A negative count is still a
	// count, so it fails like zero does instead of as a usage error.
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		raw, ok := negativeCount(err)
		if !ok {
			return err
		}
		out := &OutputFormatter{Format: "text", Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr()}
		return fail(out, "generate-uuids", &InvalidArgumentError{
			Arg:    "count",
			Value:  raw,
			Reason: "must be positive",
			Err:    fmt.Errorf("invalid number (%s) of uuids to generate: %w", raw, helpers.ErrInvalidCount),
		})
	})

	return cmd
}

func parseCount(raw string) (int, error) {
	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InvalidArgumentError{Arg: "count", Value: raw, Reason: "not a number", Err: err}
	}
	return count, nil
}

// negativeCount recovers the argument from pflag's "unknown shorthand flag:
// '5' in -5" error when it is a negative integer.
func negativeCount(err error) (string, bool) {
	msg := err.Error()
	if !strings.HasPrefix(msg, "unknown shorthand flag") {
		return "", false
	}
	i := strings.LastIndex(msg, " in -")
	if i < 0 {
		return "", false
	}
	raw := "-" + msg[i+len(" in -"):]
	if _, convErr := strconv.Atoi(raw); convErr != nil {
		return "", false
	}
	return raw, true
}
