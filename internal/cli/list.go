package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/fmtconform/internal/fixture"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Fixture string
	Filter  string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the cases of a fixture",
		Long: `List the cases of a fixture in run order, with their format,
arguments and expected text. Without --fixture the built-in table is listed.

Examples:
  fmtconform list
  fmtconform list --fixture cases.cue --filter "int_*"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "fixture file (.yaml, .yml or .cue); default is the built-in table")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "list only cases whose name matches this glob")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	fx, err := loadFixture(opts.Fixture, opts.Filter)
	if err != nil {
		return reportError(formatter, err)
	}

	if formatter.JSON() {
		return formatter.Success(fx.Table)
	}

	rows := make([][]string, len(fx.Table.Cases))
	for i, c := range fx.Table.Cases {
		rows[i] = []string{c.Name, strconv.Quote(c.Format), formatArgs(c.Args), strconv.Quote(c.Expect)}
	}
	if err := writeTable(cmd.OutOrStdout(), []string{"NAME", "FORMAT", "ARGS", "EXPECT"}, rows); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d cases (%s %s)\n", len(rows), fx.Source, shortHash(fx.Hash))
	return nil
}

func formatArgs(args []fixture.Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}
