package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult is the JSON payload of the validate command.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Fixture string `json:"fixture"`
	Name    string `json:"name,omitempty"`
	Cases   int    `json:"cases"`
	Hash    string `json:"hash"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <fixture>",
		Short: "Validate a fixture file without running it",
		Long: `Parse and validate a fixture file.

YAML fixtures are checked for unknown fields, CUE fixtures are unified with
the fixture schema. Both are checked for a non-empty case list, unique case
names, non-empty formats and typed arguments that fit their type.

Prints the number of cases and the fixture content hash. Two fixtures with
the same hash drive identical runs.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	fx, err := loadFixture(path, "")
	if err != nil {
		return reportError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d case(s) from %s", len(fx.Table.Cases), path)

	result := ValidationResult{
		Valid:   true,
		Fixture: path,
		Name:    fx.Table.Name,
		Cases:   len(fx.Table.Cases),
		Hash:    fx.Hash,
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d cases, hash %s\n", path, result.Cases, result.Hash)
	return nil
}
